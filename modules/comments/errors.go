package comments

import "errors"

var (
	ErrNotFound      = errors.New("comment not found")
	ErrStorageFailed = errors.New("comment storage failed")
)
