package handler

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/xssguard/pkg/sanitizer"
)

// Context is the per-request value passed to handlers and decorators.
// It is a context.Context backed by the request's context.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
}

// NewContext creates the default Context for a request.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return &httpContext{Context: r.Context(), w: w, r: r}
}

type httpContext struct {
	context.Context
	w      http.ResponseWriter
	r      *http.Request
	report *sanitizer.Report
}

func (c *httpContext) Request() *http.Request              { return c.r }
func (c *httpContext) ResponseWriter() http.ResponseWriter { return c.w }

func (c *httpContext) setSanitizeReport(r sanitizer.Report) { c.report = &r }

// reportRecorder is implemented by the default context.
type reportRecorder interface {
	setSanitizeReport(sanitizer.Report)
}

// SanitizeReport returns the report of the sanitize pass Wrap ran on the
// current request. ok is false before the pass and for contexts built by a
// custom factory.
func SanitizeReport(ctx Context) (sanitizer.Report, bool) {
	c, ok := ctx.(*httpContext)
	if !ok || c.report == nil {
		return sanitizer.Report{}, false
	}
	return *c.report, true
}
