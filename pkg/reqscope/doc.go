// Package reqscope caches expensive resources, such as database connections,
// for the duration of one HTTP request.
//
// Middleware attaches a Scope to each request context. Code further down the
// stack calls Get with a key and a Provider; the first call creates the
// resource and later calls in the same request reuse it. When the request
// ends the scope releases everything it created, newest first.
//
//	r.Use(reqscope.Middleware(log))
//
//	conn, err := reqscope.Get(ctx, connKey{}, reqscope.Provider[*pgxpool.Conn]{
//		Create:  pool.Acquire,
//		Release: func(c *pgxpool.Conn) error { c.Release(); return nil },
//		Valid:   func(c *pgxpool.Conn) bool { return !c.Conn().IsClosed() },
//	})
//
// Get returns ErrNoScope outside a scoped context and ErrScopeClosed after
// the scope has been closed.
package reqscope
