// Package pg wires PostgreSQL through pgx/v5: pool construction with retry,
// goose migrations from an embedded filesystem, a health probe, error
// classification helpers and a request-scoped connection accessor.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, comments.Migrations, "migrations", cfg, log); err != nil {
//		return err
//	}
//
// RequestConn hands out one *pgxpool.Conn per HTTP request. It relies on
// reqscope.Middleware being installed in the router; the connection is
// released when the request finishes.
package pg
