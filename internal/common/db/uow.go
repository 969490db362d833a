package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
)

var (
	ErrUnknownEntity = errors.New("no insert mapping registered for entity")
	ErrUoWClosed     = errors.New("unit of work already finished")
)

// Querier is the read/write surface gateways run their statements on.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Insert is the statement produced for one staged entity.
type Insert struct {
	Operation string
	Table     string
	SQL       string
	Args      []any
}

// InsertMapper turns a staged entity into an Insert; ok is false when the
// entity type is not handled by this mapper.
type InsertMapper func(entity any) (ins Insert, ok bool)

// UnitOfWork owns one lazily started transaction. Entities staged with Add are
// written on Flush and made durable on Commit. Reads through Exec/QueryRow see
// flushed but uncommitted rows.
type UnitOfWork struct {
	db      Beginner
	mappers []InsertMapper
	tx      pgx.Tx
	pending []any
	done    bool
}

func NewUnitOfWork(db Beginner, mappers ...InsertMapper) *UnitOfWork {
	return &UnitOfWork{db: db, mappers: mappers}
}

func (u *UnitOfWork) Add(entity any) {
	u.pending = append(u.pending, entity)
}

func (u *UnitOfWork) Flush(ctx context.Context) error {
	tx, err := u.begin(ctx)
	if err != nil {
		return err
	}

	for len(u.pending) > 0 {
		entity := u.pending[0]
		ins, err := u.mapEntity(entity)
		if err != nil {
			return err
		}

		start := time.Now()
		_, err = tx.Exec(ctx, ins.SQL, ins.Args...)
		if err := HandleExecError(err, ins.Operation, ins.Table, start); err != nil {
			return err
		}
		u.pending = u.pending[1:]
	}
	return nil
}

// Commit flushes outstanding entities and commits the transaction.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if err := u.Flush(ctx); err != nil {
		return err
	}
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.done = true
	u.tx = nil
	return nil
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	u.pending = nil
	if u.tx == nil {
		u.done = true
		return nil
	}
	err := u.tx.Rollback(ctx)
	u.tx = nil
	u.done = true
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Close releases the transaction, rolling back anything not committed.
func (u *UnitOfWork) Close(ctx context.Context) error {
	if u.done {
		return nil
	}
	return u.Rollback(ctx)
}

func (u *UnitOfWork) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx, err := u.begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx.Exec(ctx, sql, args...)
}

func (u *UnitOfWork) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	tx, err := u.begin(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return tx.QueryRow(ctx, sql, args...)
}

func (u *UnitOfWork) begin(ctx context.Context) (pgx.Tx, error) {
	if u.done {
		return nil, ErrUoWClosed
	}
	if u.tx != nil {
		return u.tx, nil
	}
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	u.tx = tx
	return tx, nil
}

func (u *UnitOfWork) mapEntity(entity any) (Insert, error) {
	for _, m := range u.mappers {
		if ins, ok := m(entity); ok {
			return ins, nil
		}
	}
	return Insert{}, fmt.Errorf("%w: %T", ErrUnknownEntity, entity)
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
