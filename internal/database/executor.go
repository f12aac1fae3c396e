package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// surrealExecutor runs queries on the managed connection and decodes the
// first statement's result into T.
type surrealExecutor[T any] struct {
	conn DBConnection
}

// NewSurrealExecutor creates a QueryExecutor that runs on conn.
func NewSurrealExecutor[T any](conn DBConnection) QueryExecutor[T] {
	return &surrealExecutor[T]{conn: conn}
}

func (e *surrealExecutor[T]) Query(ctx context.Context, query string, params map[string]any) ([]T, error) {
	var out []T
	err := e.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		results, err := surrealdb.Query[[]T](ctx, db, query, params)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrQueryFailed, err)
		}
		if results == nil || len(*results) == 0 {
			return nil
		}
		first := (*results)[0]
		if first.Status != "OK" {
			return NewDBError(ErrQueryFailed, first.Status)
		}
		out = first.Result
		return nil
	})
	if err != nil {
		return nil, WrapError(err, "query failed").WithQuery(query)
	}
	return out, nil
}

func (e *surrealExecutor[T]) QueryOne(ctx context.Context, query string, params map[string]any) (*T, error) {
	// CREATE/UPSERT/DELETE statements don't support LIMIT.
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") && !hasLimitClause(query) {
		query += " LIMIT 1"
	}

	results, err := e.Query(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

func (e *surrealExecutor[T]) Execute(ctx context.Context, query string, params map[string]any) error {
	err := e.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		if _, err := surrealdb.Query[any](ctx, db, query, params); err != nil {
			return fmt.Errorf("%w: %w", ErrQueryFailed, err)
		}
		return nil
	})
	if err != nil {
		return WrapError(err, "execute failed").WithQuery(query)
	}
	return nil
}

// hasLimitClause checks if the query already has a LIMIT clause
func hasLimitClause(query string) bool {
	query = " " + strings.ToUpper(query) + " "
	return strings.Contains(query, " LIMIT ")
}
