// Package handler provides type-safe HTTP request handling with automatic
// HTML encoding of every decoded request payload.
//
// A handler is a generic function that receives an already-bound and
// already-encoded request value and returns a Response:
//
//	type CreateCommentRequest struct {
//		Author string `json:"author"`
//		Body   string `json:"body"`
//	}
//
//	func createComment(ctx handler.Context, req CreateCommentRequest) handler.Response {
//		// req.Body == "&lt;script&gt;" for an input of "<script>"
//		c, err := store.Create(ctx, req.Author, req.Body)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(c, handler.WithJSONStatus(http.StatusCreated))
//	}
//
//	r.Post("/comments", handler.Wrap(createComment,
//		handler.WithBinder[handler.Context, CreateCommentRequest](binder.JSON()),
//	))
//
// # Request Pipeline
//
// For every request Wrap:
//
//  1. builds the Context through the configured factory
//  2. runs the binders in order, skipping binder.ErrBinderNotApplicable
//  3. walks the bound value with pkg/sanitizer, encoding each reachable
//     string exactly once (cycles and shared references are safe)
//  4. calls the decorated handler and renders its Response
//
// Fields tagged `sanitize:"-"` or `sanitize:"readonly"` keep their raw
// value. The sanitizer defaults to sanitizer.Default() and can be replaced
// per route with WithSanitizer.
//
// # Errors
//
// Binding and rendering errors go to the ErrorHandler. NewErrorHandler
// writes a JSON error envelope and maps binder failures to 400 or 415:
//
//	handler.Wrap(h, handler.WithErrorHandler[handler.Context, Req](
//		handler.NewErrorHandler(log),
//	))
//
// ValidationError renders as 422 with per-field messages; HTTPError uses its
// own status code. Other errors become a generic 500 without leaking details.
package handler
