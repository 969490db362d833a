package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AlibekovAA/crudik/internal/common/db"
	"github.com/AlibekovAA/crudik/internal/user/domain"
)

const usersTable = "users"

var ErrUserNotFound = errors.New("user not found")

type Gateway interface {
	Get(ctx context.Context, id uuid.UUID) (domain.User, error)
}

type PgGateway struct {
	db db.Querier
}

func NewPgGateway(q db.Querier) *PgGateway {
	return &PgGateway{db: q}
}

func (g *PgGateway) Get(ctx context.Context, id uuid.UUID) (domain.User, error) {
	start := time.Now()
	var user domain.User
	err := g.db.QueryRow(ctx, `SELECT id FROM users WHERE id = $1`, id).Scan(&user.ID)
	if err := db.HandleQueryError(err, ErrUserNotFound, "get_user", usersTable, start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// InsertMapper stages domain.User rows for the unit of work.
func InsertMapper(entity any) (db.Insert, bool) {
	user, ok := entity.(domain.User)
	if !ok {
		return db.Insert{}, false
	}
	return db.Insert{
		Operation: "insert_user",
		Table:     usersTable,
		SQL:       `INSERT INTO users (id) VALUES ($1)`,
		Args:      []any{user.ID},
	}, true
}
