// Package comments is a small comment board whose request payloads are
// HTML-encoded by handler.Wrap before they are stored, so stored values can be
// reflected into pages verbatim.
//
//	svc := comments.NewService(comments.NewPostgresStorage(pool), comments.WithLogger(log))
//	r.Mount("/comments", svc.Handle())
//
// PostgresStorage needs the schema in Migrations (apply with pg.Migrate) and
// picks up the request-scoped connection from pg.RequestConn when the router
// installs reqscope.Middleware. MemoryStorage serves tests and runs without a
// database.
package comments
