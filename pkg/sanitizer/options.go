package sanitizer

import "log/slog"

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithEncoder replaces the string encoder. Nil is ignored.
func WithEncoder(e Encoder) Option {
	return func(s *Sanitizer) {
		if e != nil {
			s.encode = e
		}
	}
}

// WithMaxDepth sets how many levels a traversal may descend.
// Panics for non-positive values: a misconfigured limit should stop startup.
func WithMaxDepth(depth int) Option {
	if depth <= 0 {
		panic("WithMaxDepth: depth must be > 0")
	}
	return func(s *Sanitizer) { s.maxDepth = depth }
}

// WithTagKey changes the struct tag consulted for field overrides.
func WithTagKey(key string) Option {
	return func(s *Sanitizer) {
		if key != "" {
			s.tagKey = key
		}
	}
}

// WithLogger supplies a logger for diagnostics. Nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sanitizer) {
		if l != nil {
			s.logger = l
		}
	}
}
