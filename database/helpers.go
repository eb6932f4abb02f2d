package database

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

var errNoDatabase = errors.New("database instance not initialized")

// Transaction runs fn in a transaction, committing on nil and rolling back otherwise.
// A transaction that fails on a transient error is run again from the start, so fn
// must not keep state from an earlier attempt.
func Transaction(ctx context.Context, db bun.IDB, fn func(ctx context.Context, tx bun.Tx) error) error {
	if db == nil {
		return errNoDatabase
	}
	return policyFor(db).do(ctx, func() error {
		return db.RunInTx(ctx, nil, fn)
	})
}

func FindByID[T any](db bun.IDB, ctx context.Context, id any) (*T, error) {
	return Query[T](db).Where("id", id).First(ctx)
}

func DeleteByID[T any](db bun.IDB, ctx context.Context, id any) (int, error) {
	return Query[T](db).Where("id", id).Delete(ctx)
}

// SoftDelete stamps deleted_at on a live row. Rows already deleted count as not affected.
func SoftDelete[T any](db bun.IDB, ctx context.Context, id any) (int, error) {
	return ExcludeSoftDeleted(Query[T](db).Where("id", id)).
		Update(ctx, map[string]any{"deleted_at": time.Now()})
}

func ExcludeSoftDeleted[T any](q *QueryBuilder[T]) *QueryBuilder[T] {
	return q.WhereNull("deleted_at")
}

// Upsert inserts data or, on a conflict over conflictColumn, overwrites updateColumns.
// Without updateColumns the existing row is kept.
func Upsert[T any](db bun.IDB, ctx context.Context, data *T, conflictColumn string, updateColumns ...string) (*T, error) {
	query := db.NewInsert().Model(data)
	if len(updateColumns) == 0 {
		query = query.On("CONFLICT (?) DO NOTHING", bun.Ident(conflictColumn))
	} else {
		query = query.On("CONFLICT (?) DO UPDATE", bun.Ident(conflictColumn))
		for _, col := range updateColumns {
			query = query.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
		}
	}

	query = query.Returning("*")

	err := timed(ctx, db, "upsert", func() error {
		_, err := query.Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
