package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/xssguard/handler"
	"github.com/dmitrymomot/xssguard/pkg/binder"
	"github.com/dmitrymomot/xssguard/pkg/sanitizer"
)

type postRequest struct {
	Author   string            `json:"author" query:"author"`
	Body     string            `json:"body"`
	Password string            `json:"password" sanitize:"-"`
	Tags     []string          `json:"tags"`
	Meta     map[string]any    `json:"meta"`
	Labels   map[string]string `json:"labels"`
}

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/comments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestWrap_SanitizesBoundPayload(t *testing.T) {
	t.Parallel()

	var got postRequest
	h := handler.Wrap(
		func(ctx handler.Context, req postRequest) handler.Response {
			got = req
			return handler.JSON(req)
		},
		handler.WithBinder[handler.Context, postRequest](binder.JSON()),
	)

	w := httptest.NewRecorder()
	h(w, jsonRequest(`{
		"author": "<b>ann</b>",
		"body": "<script>alert(1)</script>",
		"password": "<p@ss>",
		"tags": ["<a>", "b&c"],
		"meta": {"nested": {"x": "\"q\""}, "n": 1},
		"labels": {"k": "<v>"}
	}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "&lt;b&gt;ann&lt;/b&gt;", got.Author)
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", got.Body)
	assert.Equal(t, "<p@ss>", got.Password)
	assert.Equal(t, []string{"&lt;a&gt;", "b&amp;c"}, got.Tags)
	assert.Equal(t, map[string]any{"x": "&#34;q&#34;"}, got.Meta["nested"])
	assert.Equal(t, float64(1), got.Meta["n"])
	assert.Equal(t, map[string]string{"k": "&lt;v&gt;"}, got.Labels)
}

func TestWrap_BinderChain(t *testing.T) {
	t.Parallel()

	var got postRequest
	h := handler.Wrap(
		func(ctx handler.Context, req postRequest) handler.Response {
			got = req
			return handler.JSON(nil)
		},
		handler.WithBinders[handler.Context, postRequest](binder.JSON(), binder.Query()),
	)

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/comments?author=%3Ci%3E", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "&lt;i&gt;", got.Author)
}

func TestWrap_PointerRequest(t *testing.T) {
	t.Parallel()

	var got *postRequest
	h := handler.Wrap(
		func(ctx handler.Context, req *postRequest) handler.Response {
			got = req
			return handler.JSON(nil)
		},
		handler.WithBinder[handler.Context, *postRequest](binder.JSON()),
	)

	h(httptest.NewRecorder(), jsonRequest(`{"body":"<x>"}`))

	require.NotNil(t, got)
	assert.Equal(t, "&lt;x&gt;", got.Body)
}

func TestWrap_WithSanitizer(t *testing.T) {
	t.Parallel()

	strict, err := sanitizer.NewFromConfig(sanitizer.Config{Encoder: sanitizer.EncoderStrict})
	require.NoError(t, err)

	var got postRequest
	h := handler.Wrap(
		func(ctx handler.Context, req postRequest) handler.Response {
			got = req
			return handler.JSON(nil)
		},
		handler.WithBinder[handler.Context, postRequest](binder.JSON()),
		handler.WithSanitizer[handler.Context, postRequest](strict),
		handler.WithSanitizer[handler.Context, postRequest](nil),
	)

	h(httptest.NewRecorder(), jsonRequest(`{"body":"<b>hello</b>"}`))

	assert.Equal(t, "hello", got.Body)
}

func TestWrap_DecoratorsSeeEncodedRequest(t *testing.T) {
	t.Parallel()

	var order []string
	decorator := func(name string) handler.Decorator[handler.Context, postRequest] {
		return func(next handler.HandlerFunc[handler.Context, postRequest]) handler.HandlerFunc[handler.Context, postRequest] {
			return func(ctx handler.Context, req postRequest) handler.Response {
				order = append(order, name+":"+req.Body)
				return next(ctx, req)
			}
		}
	}

	h := handler.Wrap(
		func(ctx handler.Context, req postRequest) handler.Response {
			order = append(order, "handler")
			return handler.JSON(nil)
		},
		handler.WithBinder[handler.Context, postRequest](binder.JSON()),
		handler.WithDecorators(decorator("outer"), decorator("inner")),
	)

	h(httptest.NewRecorder(), jsonRequest(`{"body":"<"}`))

	assert.Equal(t, []string{"outer:&lt;", "inner:&lt;", "handler"}, order)
}

func TestWrap_Errors(t *testing.T) {
	t.Parallel()

	t.Run("binder error stops the pipeline", func(t *testing.T) {
		t.Parallel()

		called := false
		h := handler.Wrap(
			func(ctx handler.Context, req postRequest) handler.Response {
				called = true
				return handler.JSON(nil)
			},
			handler.WithBinder[handler.Context, postRequest](binder.JSON()),
			handler.WithErrorHandler[handler.Context, postRequest](handler.NewErrorHandler(nil)),
		)

		w := httptest.NewRecorder()
		h(w, jsonRequest(`{"body":`))

		assert.False(t, called)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body handler.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "bad_request", body.Error.Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		var handled error
		h := handler.Wrap(
			func(ctx handler.Context, req postRequest) handler.Response { return nil },
			handler.WithErrorHandler[handler.Context, postRequest](func(ctx handler.Context, err error) {
				handled = err
			}),
		)

		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.ErrorIs(t, handled, handler.ErrNilResponse)
	})

	t.Run("render error", func(t *testing.T) {
		t.Parallel()

		renderErr := errors.New("render failed")
		var handled error
		h := handler.Wrap(
			func(ctx handler.Context, req postRequest) handler.Response {
				return responseFunc(func(http.ResponseWriter, *http.Request) error { return renderErr })
			},
			handler.WithErrorHandler[handler.Context, postRequest](func(ctx handler.Context, err error) {
				handled = err
			}),
		)

		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.ErrorIs(t, handled, renderErr)
	})

	t.Run("default error handler uses http error status", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(
			func(ctx handler.Context, req postRequest) handler.Response { return nil },
			handler.WithBinder[handler.Context, postRequest](func(*http.Request, any) error {
				return handler.ErrNotFound
			}),
		)

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

type responseFunc func(http.ResponseWriter, *http.Request) error

func (f responseFunc) Render(w http.ResponseWriter, r *http.Request) error { return f(w, r) }
