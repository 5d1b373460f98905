package reqscope

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/xssguard/pkg/logger"
)

// Middleware opens a Scope for every request and closes it once the
// downstream handler returns. Release failures are logged, not returned.
func Middleware(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, scope := New(r.Context())
			defer func() {
				if err := scope.Close(); err != nil {
					log.ErrorContext(ctx, "failed to release request resources",
						logger.Error(err),
						logger.Component("reqscope"),
					)
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
