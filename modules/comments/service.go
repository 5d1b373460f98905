package comments

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/xssguard/handler"
	"github.com/dmitrymomot/xssguard/pkg/binder"
	"github.com/dmitrymomot/xssguard/pkg/logger"
	"github.com/dmitrymomot/xssguard/pkg/sanitizer"
)

// Service exposes the comments HTTP API. Every request payload passes
// through the sanitizer before it reaches storage.
type Service struct {
	storage      Storage
	sanitizer    *sanitizer.Sanitizer
	log          *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSanitizer replaces sanitizer.Default() for this service's routes.
func WithSanitizer(s *sanitizer.Sanitizer) Option {
	return func(svc *Service) {
		if s != nil {
			svc.sanitizer = s
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.log = l
		}
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) {
		if now != nil {
			svc.now = now
		}
	}
}

// NewService builds a Service on top of storage.
func NewService(storage Storage, opts ...Option) *Service {
	svc := &Service{
		storage:   storage,
		sanitizer: sanitizer.Default(),
		log:       slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	svc.errorHandler = handler.NewErrorHandler(svc.log)
	return svc
}

// Handle returns the router for the comments API:
//
//	POST /        create a comment (JSON or form body)
//	GET  /        list comments, ?author= and ?limit=
//	GET  /{id}    fetch one comment
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/", handler.Wrap(s.create,
		handler.WithBinders[handler.Context, CreateRequest](
			binder.JSON(),
			binder.Form(),
		),
		handler.WithSanitizer[handler.Context, CreateRequest](s.sanitizer),
		handler.WithErrorHandler[handler.Context, CreateRequest](s.errorHandler),
	))

	r.Get("/", handler.Wrap(s.list,
		handler.WithBinder[handler.Context, ListRequest](binder.Query()),
		handler.WithSanitizer[handler.Context, ListRequest](s.sanitizer),
		handler.WithErrorHandler[handler.Context, ListRequest](s.errorHandler),
	))

	r.Get("/{id}", handler.Wrap(s.get,
		handler.WithBinder[handler.Context, GetRequest](bindID),
		handler.WithErrorHandler[handler.Context, GetRequest](s.errorHandler),
	))

	return r
}

// CreateRequest is the payload of POST /comments.
type CreateRequest struct {
	Author string         `json:"author" form:"author"`
	Body   string         `json:"body" form:"body"`
	Tags   []string       `json:"tags" form:"tags"`
	Meta   map[string]any `json:"meta" form:"-"`
}

func (s *Service) create(ctx handler.Context, req CreateRequest) handler.Response {
	verr := handler.NewValidationError()
	if strings.TrimSpace(req.Body) == "" {
		verr.Add("body", "must not be empty")
	}
	if !verr.IsEmpty() {
		return handler.JSONError(verr)
	}

	author := req.Author
	if author == "" {
		author = "anonymous"
	}

	c := &Comment{
		ID:        uuid.New(),
		Author:    author,
		Body:      req.Body,
		Tags:      req.Tags,
		Meta:      req.Meta,
		CreatedAt: s.now().UTC(),
	}
	if err := s.storage.Create(ctx, c); err != nil {
		s.log.ErrorContext(ctx, "failed to store comment", logger.Error(err), logger.Component("comments"))
		return handler.JSONError(err)
	}

	attrs := []any{logger.CommentID(c.ID), logger.Component("comments")}
	if r, ok := handler.SanitizeReport(ctx); ok {
		attrs = append(attrs, logger.Sanitize(r.Nodes, r.Encoded, r.Skipped, r.Truncated))
	}
	s.log.InfoContext(ctx, "comment stored", attrs...)
	return handler.JSON(c, handler.WithJSONStatus(http.StatusCreated))
}

// ListRequest holds the query of GET /comments. Author is compared against
// stored values, which are encoded, so it is sanitized the same way.
type ListRequest struct {
	Author string `query:"author"`
	Limit  int    `query:"limit"`
}

func (s *Service) list(ctx handler.Context, req ListRequest) handler.Response {
	items, err := s.storage.List(ctx, ListFilter{Author: req.Author, Limit: req.Limit})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to list comments", logger.Error(err), logger.Component("comments"))
		return handler.JSONError(err)
	}
	return handler.JSON(items, handler.WithJSONMeta(map[string]any{"count": len(items)}))
}

// GetRequest carries the {id} path parameter.
type GetRequest struct {
	ID uuid.UUID
}

// bindID reads the chi {id} parameter. Malformed ids are reported as 404.
func bindID(r *http.Request, v any) error {
	req, ok := v.(*GetRequest)
	if !ok {
		return binder.ErrBinderNotApplicable
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return handler.ErrNotFound
	}
	req.ID = id
	return nil
}

func (s *Service) get(ctx handler.Context, req GetRequest) handler.Response {
	c, err := s.storage.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return handler.JSONError(handler.ErrNotFound)
		}
		s.log.ErrorContext(ctx, "failed to load comment",
			logger.CommentID(req.ID),
			logger.Error(err),
			logger.Component("comments"),
		)
		return handler.JSONError(err)
	}
	return handler.JSON(c)
}
