package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// CommentID records a comment identifier under the key "comment_id".
// If id is nil, it returns an empty Attr.
func CommentID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("comment_id", id)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Handler records the handler name under the key "handler".
func Handler(name string) slog.Attr {
	return slog.String("handler", name)
}

// Sanitize groups the counters of one sanitizer pass under "sanitize".
func Sanitize(nodes, encoded, skipped int, truncated bool) slog.Attr {
	return Group("sanitize",
		slog.Int("nodes", nodes),
		slog.Int("encoded", encoded),
		slog.Int("skipped", skipped),
		slog.Bool("truncated", truncated),
	)
}

// Depth records a traversal depth limit under the key "max_depth".
func Depth(n int) slog.Attr {
	return slog.Int("max_depth", n)
}
