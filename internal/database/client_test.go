package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go"
)

// fakeConn satisfies DBConnection without a server behind it.
type fakeConn struct {
	queryTimeout   time.Duration
	executeTimeout time.Duration
}

func (f *fakeConn) WithConnection(ctx context.Context, fn func(*surrealdb.DB) error) error {
	return NewDBError(ErrNotConnected, "fake connection")
}
func (f *fakeConn) Connect(ctx context.Context) error   { return nil }
func (f *fakeConn) StartMonitoring()                    {}
func (f *fakeConn) IsHealthy() bool                     { return false }
func (f *fakeConn) Close(ctx context.Context) error     { return nil }
func (f *fakeConn) GetDBQueryTimeout() time.Duration   { return f.queryTimeout }
func (f *fakeConn) GetDBExecuteTimeout() time.Duration { return f.executeTimeout }

// mockExecutor records the queries a client issues.
type mockExecutor[T any] struct {
	mock.Mock
}

func (m *mockExecutor[T]) Query(ctx context.Context, query string, params map[string]any) ([]T, error) {
	args := m.Called(ctx, query, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *mockExecutor[T]) QueryOne(ctx context.Context, query string, params map[string]any) (*T, error) {
	args := m.Called(ctx, query, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockExecutor[T]) Execute(ctx context.Context, query string, params map[string]any) error {
	args := m.Called(ctx, query, params)
	return args.Error(0)
}

func newTestClient[T any](t *testing.T, exec *mockExecutor[T]) Client[T] {
	t.Helper()
	c, err := NewClient[T](&fakeConn{queryTimeout: time.Second, executeTimeout: time.Second}, WithExecutor[T](exec))
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient[ProfileRecord](nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewClient[ProfileRecord](&fakeConn{queryTimeout: 0, executeTimeout: time.Second})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewClient[ProfileRecord](&fakeConn{queryTimeout: time.Second, executeTimeout: -time.Second})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClient_AppliesTimeouts(t *testing.T) {
	exec := &mockExecutor[ProfileRecord]{}
	c := newTestClient(t, exec)

	exec.On("Execute", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= time.Second
	}), "DELETE x", mock.Anything).Return(nil).Once()

	require.NoError(t, c.Execute(context.Background(), "DELETE x", nil))
	exec.AssertExpectations(t)
}

func TestClient_QueryTimeoutOverride(t *testing.T) {
	exec := &mockExecutor[ProfileRecord]{}
	c := newTestClient(t, exec)

	exec.On("Query", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 50*time.Millisecond
	}), "SELECT * FROM profile", mock.Anything).Return([]ProfileRecord{}, nil).Once()

	ctx := WithQueryTimeout(context.Background(), 50*time.Millisecond)
	_, err := c.Query(ctx, "SELECT * FROM profile", nil)
	require.NoError(t, err)
	exec.AssertExpectations(t)
}

func TestClient_Select(t *testing.T) {
	t.Run("empty id", func(t *testing.T) {
		c := newTestClient(t, &mockExecutor[ProfileRecord]{})
		_, err := c.Select(context.Background(), "profile", "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing record", func(t *testing.T) {
		exec := &mockExecutor[ProfileRecord]{}
		c := newTestClient(t, exec)
		exec.On("QueryOne", mock.Anything, mock.Anything, map[string]any{"table": "profile", "id": "u-1"}).
			Return(nil, nil).Once()

		_, err := c.Select(context.Background(), "profile", "u-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("driver failure", func(t *testing.T) {
		exec := &mockExecutor[ProfileRecord]{}
		c := newTestClient(t, exec)
		exec.On("QueryOne", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, NewDBError(ErrQueryFailed, "boom")).Once()

		_, err := c.Select(context.Background(), "profile", "u-1")
		assert.ErrorIs(t, err, ErrQueryFailed)
		assert.Contains(t, err.Error(), "select operation failed")
	})
}

func TestDBError(t *testing.T) {
	base := errors.New("socket closed")
	err := NewDBError(base, "query failed").WithQuery("SELECT 1")

	assert.ErrorIs(t, err, base)
	assert.Equal(t, "query failed (query: SELECT 1): socket closed", err.Error())

	wrapped := WrapError(err, "load profile")
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "load profile: query failed (query: SELECT 1): socket closed", wrapped.Error())
}

func TestIsConnectionError(t *testing.T) {
	assert.False(t, isConnectionError(nil))
	assert.False(t, isConnectionError(errors.New("parse error near SELEC")))
	assert.True(t, isConnectionError(context.DeadlineExceeded))
	assert.True(t, isConnectionError(errors.New("dial tcp: connection refused")))
	assert.True(t, isConnectionError(errors.New("write: Broken Pipe")))
}

func TestRedactDBURL(t *testing.T) {
	assert.Equal(t, "ws://root:xxxxx@localhost:8000/rpc", redactDBURL("ws://root:secret@localhost:8000/rpc"))
	assert.Equal(t, "ws://localhost:8000/rpc", redactDBURL("ws://localhost:8000/rpc"))
}

func TestHasLimitClause(t *testing.T) {
	assert.True(t, hasLimitClause("SELECT * FROM favorite LIMIT 5"))
	assert.False(t, hasLimitClause("SELECT * FROM limited"))
}
