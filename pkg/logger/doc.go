// Package logger builds *slog.Logger values from functional options and adds
// request-scoped attributes pulled from context.Context.
//
// New picks a text or JSON handler and wraps it in a context handler, which
// runs the registered ContextExtractor callbacks on every record:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "xssguard"),
//		logger.WithLevelName(cfg.LogLevel),
//		logger.WithContextExtractors(logger.RequestIDExtractor()),
//	)
//	logger.SetAsDefault(log)
//
// RequestIDExtractor reads the id assigned by chi's middleware.RequestID, so
// every log line written while serving a request carries "request_id".
//
// Attribute helpers (Error, Errors, RequestID, CommentID, Component,
// Sanitize, Depth, ...) keep key names consistent across packages. Error and
// Errors return an empty attribute for nil input, so
//
//	log.Info("stored comment", logger.Error(err))
//
// needs no nil check.
package logger
