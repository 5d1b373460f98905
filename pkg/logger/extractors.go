package logger

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDExtractor injects the id assigned by chi's middleware.RequestID
// under the key "request_id".
//
//	log := logger.New(logger.WithContextExtractors(logger.RequestIDExtractor()))
//	r.Use(middleware.RequestID)
func RequestIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := middleware.GetReqID(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return RequestID(id), true
	}
}
