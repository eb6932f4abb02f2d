package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

var errUnscoped = errors.New("refusing to write without conditions")

// execer is the common shape of bun's write queries.
type execer interface {
	Exec(ctx context.Context, dest ...any) (sql.Result, error)
}

// inTx reports whether db is an open transaction. A failed statement aborts the
// whole transaction, so retrying it alone cannot succeed.
func inTx(db bun.IDB) bool {
	switch db.(type) {
	case bun.Tx, *bun.Tx:
		return true
	}
	return false
}

// policyFor is the retry policy for statements run on db: one attempt inside a
// transaction, the default policy otherwise.
func policyFor(db bun.IDB) retryPolicy {
	p := defaultRetryPolicy()
	if inTx(db) {
		p.attempts = 1
	}
	return p
}

// timed runs fn under db's retry policy and labels a final failure with op and the elapsed time.
func timed(ctx context.Context, db bun.IDB, op string, fn func() error) error {
	start := time.Now()
	if err := policyFor(db).do(ctx, fn); err != nil {
		return fmt.Errorf("%s query failed after %v: %w", op, time.Since(start).Round(time.Millisecond), err)
	}
	return nil
}

// rowsAffected executes the query built by build and reports how many rows it touched.
func rowsAffected(ctx context.Context, db bun.IDB, op string, build func() (execer, error)) (int, error) {
	var n int64
	err := timed(ctx, db, op, func() error {
		query, err := build()
		if err != nil {
			return err
		}
		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		n, _ = res.RowsAffected()
		return nil
	})
	return int(n), err
}

func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	var rows []T
	err := timed(ctx, q.db, "select", func() error {
		rows = rows[:0]
		return q.buildSelect(&rows).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// First returns the first matching row, or nil when there is none.
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	row := new(T)
	err := timed(ctx, q.db, "first", func() error {
		return q.buildSelect(row).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Insert writes data and refreshes it with the stored row, defaults included.
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	query := q.db.NewInsert().Model(data).Returning("*")
	err := timed(ctx, q.db, "insert", func() error {
		_, err := query.Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Update sets columns on the matching rows. data is a column map, or a *T which
// is matched by primary key when no conditions were given.
func (q *QueryBuilder[T]) Update(ctx context.Context, data any) (int, error) {
	return rowsAffected(ctx, q.db, "update", func() (execer, error) {
		var query *bun.UpdateQuery

		switch v := data.(type) {
		case map[string]any:
			if len(q.wheres) == 0 {
				return nil, errUnscoped
			}
			query = q.db.NewUpdate().Model((*T)(nil))
			for col, val := range v {
				query = query.Set("? = ?", bun.Ident(col), val)
			}
		case *T:
			query = q.db.NewUpdate().Model(v).Column(q.columns...)
			if len(q.wheres) == 0 {
				query = query.WherePK()
			}
		default:
			return nil, fmt.Errorf("cannot update from %T", data)
		}

		return q.applyWheres(query.QueryBuilder()).Unwrap().(*bun.UpdateQuery), nil
	})
}

func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	if len(q.wheres) == 0 {
		return 0, errUnscoped
	}
	return rowsAffected(ctx, q.db, "delete", func() (execer, error) {
		query := q.db.NewDelete().Model((*T)(nil))
		return q.applyWheres(query.QueryBuilder()).Unwrap().(*bun.DeleteQuery), nil
	})
}
