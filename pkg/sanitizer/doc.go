// Package sanitizer neutralises stored XSS vectors in decoded request payloads
// by HTML-encoding every string reachable from a value, in place.
//
// The entry point is Sanitizer.Sanitize. It accepts any value, typically a
// pointer to the struct a request body was decoded into, and walks the object
// graph behind it:
//
//   - Pointers, slices and maps are tracked by identity, so shared
//     substructure is processed once and reference cycles terminate.
//   - Struct fields are enumerated through reflection. Exported, settable
//     string fields (and *string fields) are encoded when non-empty. Other
//     exported fields are traversed. Unexported fields are opaque.
//   - Map keys are never touched. Map values and interface contents are
//     rewritten through addressable copies.
//   - Numbers, booleans, time.Time and other scalars are left alone.
//
// Field behaviour can be overridden with the `sanitize` struct tag:
//
//	type Comment struct {
//		Body   string                   // encoded
//		Digest string `sanitize:"readonly"` // never rewritten
//		Raw    []byte `sanitize:"-"`        // never visited
//	}
//
// Types that need computed or guarded properties implement Describer and
// publish their own field list.
//
// # Usage
//
//	s := sanitizer.New(
//	    sanitizer.WithEncoder(sanitizer.HTMLEncoder),
//	    sanitizer.WithMaxDepth(256),
//	)
//
//	req := &CreateCommentRequest{Body: "<script>alert(1)</script>"}
//	s.Sanitize(req)
//	// req.Body == "&lt;script&gt;alert(1)&lt;/script&gt;"
//
// # Error handling
//
// Traversal never fails. Unsupported shapes and unwritable targets are
// skipped, and a subtree deeper than the configured limit is abandoned while
// the rest of the payload is still processed. SanitizeContext returns a
// Report describing what happened.
//
// # Concurrency
//
// A Sanitizer is immutable after New and can be shared between goroutines.
// Every call allocates its own traversal state. The graph itself must not be
// mutated by other goroutines while it is being sanitized.
package sanitizer
