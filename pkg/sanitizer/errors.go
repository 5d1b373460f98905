package sanitizer

import "errors"

// ErrUnknownEncoder is returned when an encoder name cannot be resolved.
// Traversal itself never fails; this is a configuration-time error only.
var ErrUnknownEncoder = errors.New("unknown sanitizer encoder")
