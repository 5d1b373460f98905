package sanitizer

import (
	"context"
	"log/slog"
	"reflect"
	"sync/atomic"

	"github.com/dmitrymomot/xssguard/pkg/logger"
)

// DefaultMaxDepth bounds how deep a single traversal descends before it
// abandons the current subtree.
const DefaultMaxDepth = 512

// DefaultTagKey is the struct tag consulted for per-field overrides.
//
//	type Profile struct {
//		Bio      string            // encoded
//		Checksum string `sanitize:"readonly"` // left untouched
//		Raw      *Blob  `sanitize:"-"`        // not visited at all
//	}
const DefaultTagKey = "sanitize"

const (
	tagSkip     = "-"
	tagReadOnly = "readonly"
)

var defaultSanitizer atomic.Pointer[Sanitizer]

func init() {
	defaultSanitizer.Store(New())
}

// Default returns the package-level Sanitizer used by Sanitize.
func Default() *Sanitizer { return defaultSanitizer.Load() }

// SetDefault replaces the package-level Sanitizer. Nil is ignored.
func SetDefault(s *Sanitizer) {
	if s != nil {
		defaultSanitizer.Store(s)
	}
}

// Sanitize HTML-encodes every string reachable from root using the default Sanitizer.
func Sanitize(root any) {
	Default().Sanitize(root)
}

// SanitizeString encodes a bare string with the default Sanitizer's encoder.
// Use it when the value has no slot to be written back into.
func SanitizeString(s string) string {
	return Default().EncodeString(s)
}

// Report summarises a single traversal.
type Report struct {
	// Nodes is the number of pointer, map and slice nodes entered.
	Nodes int
	// Encoded is the number of string slots rewritten.
	Encoded int
	// Skipped is the number of string fields left alone because they are read-only.
	Skipped int
	// Truncated is set when at least one subtree exceeded the depth limit.
	Truncated bool
}

// Sanitizer walks arbitrary object graphs and HTML-encodes string leaves in place.
// It holds no per-call state and is safe for concurrent use.
type Sanitizer struct {
	encode   Encoder
	maxDepth int
	tagKey   string
	logger   *slog.Logger
}

// New creates a Sanitizer. Without options it uses HTMLEncoder and DefaultMaxDepth.
func New(opts ...Option) *Sanitizer {
	s := &Sanitizer{
		encode:   HTMLEncoder,
		maxDepth: DefaultMaxDepth,
		tagKey:   DefaultTagKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Sanitize HTML-encodes every non-empty, writable string reachable from root.
// Root must be something with slots to write into: a pointer, slice, map or
// interface holding one of those. A string passed by value is left unchanged.
// Sanitize never panics on unsupported shapes and never reports errors.
func (s *Sanitizer) Sanitize(root any) {
	s.SanitizeContext(context.Background(), root)
}

// SanitizeContext is Sanitize with a context used for log correlation.
func (s *Sanitizer) SanitizeContext(ctx context.Context, root any) Report {
	if root == nil {
		return Report{}
	}

	w := newWalker(s)
	w.walk(reflect.ValueOf(root), 0)

	if r := w.report; r.Truncated {
		s.logger.DebugContext(ctx, "sanitizer depth limit reached, subtree left as-is",
			logger.Depth(s.maxDepth),
			logger.Sanitize(r.Nodes, r.Encoded, r.Skipped, r.Truncated),
		)
	}

	return w.report
}

// EncodeString applies the configured encoder to s. Empty input is returned as-is.
func (s *Sanitizer) EncodeString(v string) string {
	if v == "" {
		return v
	}
	return s.encode(v)
}
