package database

import "github.com/uptrace/bun"

// QueryBuilder provides a fluent, type-safe API for building database queries
type QueryBuilder[T any] struct {
	db bun.IDB

	columns  []string
	wheres   []*WhereClause
	orders   []*OrderClause
	limitVal *int
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
}

// OrderClause represents an ORDER BY clause. Raw clauses are passed through untouched.
type OrderClause struct {
	Column    string
	Direction OrderDirection
	Raw       string
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// Query creates a new QueryBuilder instance over a connection or a transaction
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Columns restricts selects and struct updates to the given columns
func (q *QueryBuilder[T]) Columns(columns ...string) *QueryBuilder[T] {
	q.columns = append(q.columns, columns...)
	return q
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return q
}

// WhereNull adds a WHERE IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	return q.WhereOp(column, "IS NULL", nil)
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{
		Column:    column,
		Direction: direction,
	})
	return q
}

// OrderRaw adds a raw ORDER BY expression such as a CASE or NULLS LAST clause
func (q *QueryBuilder[T]) OrderRaw(expr string) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{Raw: expr})
	return q
}

// Limit sets the LIMIT clause
func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

// applyWheres adds the WHERE conditions to any bun query
func (q *QueryBuilder[T]) applyWheres(qb bun.QueryBuilder) bun.QueryBuilder {
	for _, where := range q.wheres {
		switch where.Operator {
		case "IS NULL", "IS NOT NULL":
			qb = qb.Where("? "+where.Operator, bun.Ident(where.Column))
		default:
			qb = qb.Where("? "+where.Operator+" ?", bun.Ident(where.Column), where.Value)
		}
	}
	return qb
}

// buildSelect renders the select query into dest, which must be *T or *[]T
func (q *QueryBuilder[T]) buildSelect(dest any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(dest)

	if len(q.columns) > 0 {
		query = query.Column(q.columns...)
	}

	query = q.applyWheres(query.QueryBuilder()).Unwrap().(*bun.SelectQuery)

	for _, order := range q.orders {
		if order.Raw != "" {
			query = query.OrderExpr(order.Raw)
			continue
		}
		query = query.OrderExpr("? "+string(order.Direction), bun.Ident(order.Column))
	}

	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}

	return query
}
