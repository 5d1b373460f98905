package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/xssguard/pkg/reqscope"
)

// Healthcheck returns a probe for the pool. Inside a request scope it pings
// the request's connection; elsewhere it pings the pool.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		err := ping(ctx, pool)
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

func ping(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := RequestConn(ctx, pool)
	switch {
	case err == nil:
		return conn.Ping(ctx)
	case errors.Is(err, reqscope.ErrNoScope):
		return pool.Ping(ctx)
	default:
		return err
	}
}
