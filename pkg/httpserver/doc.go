// Package httpserver runs an http.Handler with sane timeouts and graceful
// shutdown on context cancellation, SIGINT or SIGTERM.
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler exposes liveness and readiness probes as JSON.
package httpserver
