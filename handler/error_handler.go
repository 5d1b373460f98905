package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/xssguard/pkg/binder"
	"github.com/dmitrymomot/xssguard/pkg/logger"
)

// NewErrorHandler returns an ErrorHandler that logs err and renders it as a
// JSON error envelope. Binding failures map to 400 and 415 so that malformed
// payloads never surface as server errors.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		err = classifyBindError(err)
		resp := JSONError(err)

		status := http.StatusInternalServerError
		var httpErr HTTPError
		switch {
		case errors.As(err, &httpErr):
			status = httpErr.Code
		case errors.As(err, new(ValidationError)):
			status = http.StatusUnprocessableEntity
		}

		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}

		r := ctx.Request()
		log.LogAttrs(ctx, level, "request error",
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(ctx, "failed to render error response",
				logger.Error(renderErr),
				logger.Component("error_handler"),
			)
		}
	}
}

// classifyBindError attaches an HTTPError to binder failures.
func classifyBindError(err error) error {
	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return errors.Join(ErrUnsupportedMediaType, err)
	case errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseForm),
		errors.Is(err, binder.ErrFailedToParseQuery):
		return errors.Join(ErrBadRequest, err)
	}
	return err
}
