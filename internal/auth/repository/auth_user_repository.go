package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AlibekovAA/crudik/internal/auth/domain"
	"github.com/AlibekovAA/crudik/internal/common/db"
	userdomain "github.com/AlibekovAA/crudik/internal/user/domain"
)

const authUserTable = "auth_user"

var ErrAuthUserNotFound = errors.New("auth user not found")

type Gateway interface {
	Exists(ctx context.Context, authUserID string) (bool, error)
	// GetUser returns the user linked to authUserID or ErrAuthUserNotFound.
	GetUser(ctx context.Context, authUserID string) (userdomain.User, error)
}

type PgGateway struct {
	db db.Querier
}

func NewPgGateway(q db.Querier) *PgGateway {
	return &PgGateway{db: q}
}

func (g *PgGateway) Exists(ctx context.Context, authUserID string) (bool, error) {
	start := time.Now()
	var exists bool
	err := g.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM auth_user WHERE auth_user_id = $1)`,
		authUserID,
	).Scan(&exists)
	if err := db.HandleQueryError(err, ErrAuthUserNotFound, "auth_user_exists", authUserTable, start); err != nil {
		return false, err
	}
	return exists, nil
}

func (g *PgGateway) GetUser(ctx context.Context, authUserID string) (userdomain.User, error) {
	start := time.Now()
	var user userdomain.User
	err := g.db.QueryRow(
		ctx,
		`SELECT u.id
		 FROM auth_user au
		 JOIN users u ON u.id = au.user_id
		 WHERE au.auth_user_id = $1`,
		authUserID,
	).Scan(&user.ID)
	if err := db.HandleQueryError(err, ErrAuthUserNotFound, "get_auth_user", authUserTable, start); err != nil {
		return userdomain.User{}, err
	}
	return user, nil
}

// InsertMapper stages domain.AuthUser links for the unit of work.
func InsertMapper(entity any) (db.Insert, bool) {
	link, ok := entity.(domain.AuthUser)
	if !ok {
		return db.Insert{}, false
	}
	return db.Insert{
		Operation: "insert_auth_user",
		Table:     authUserTable,
		SQL:       `INSERT INTO auth_user (auth_user_id, user_id) VALUES ($1, $2)`,
		Args:      []any{link.AuthUserID, link.UserID},
	}, true
}
