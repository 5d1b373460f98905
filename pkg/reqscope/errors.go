package reqscope

import "errors"

var (
	ErrNoScope        = errors.New("reqscope: no scope in context")
	ErrScopeClosed    = errors.New("reqscope: scope is closed")
	ErrTypeMismatch   = errors.New("reqscope: cached resource has a different type")
	ErrNilConstructor = errors.New("reqscope: provider has no Create function")
)
