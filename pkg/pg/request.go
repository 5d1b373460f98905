package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/xssguard/pkg/reqscope"
)

type requestConnKey struct{ pool *pgxpool.Pool }

// RequestConn returns the connection bound to the current request, acquiring
// one from pool on first use. The connection goes back to the pool when the
// request's reqscope closes. A connection found closed is replaced.
//
// Outside a request scope it fails with reqscope.ErrNoScope; callers that
// may run outside HTTP should use the pool directly.
func RequestConn(ctx context.Context, pool *pgxpool.Pool) (*pgxpool.Conn, error) {
	conn, err := reqscope.Get(ctx, requestConnKey{pool: pool}, reqscope.Provider[*pgxpool.Conn]{
		Create: pool.Acquire,
		Release: func(c *pgxpool.Conn) error {
			c.Release()
			return nil
		},
		Valid: func(c *pgxpool.Conn) bool {
			return !c.Conn().IsClosed()
		},
	})
	if err != nil {
		if errors.Is(err, reqscope.ErrNoScope) || errors.Is(err, reqscope.ErrScopeClosed) {
			return nil, err
		}
		return nil, errors.Join(ErrFailedToAcquireConn, err)
	}
	return conn, nil
}
