package comments

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a stored comment. Text fields hold HTML-encoded values and can
// be written into a page without further escaping.
type Comment struct {
	ID        uuid.UUID      `json:"id"`
	Author    string         `json:"author"`
	Body      string         `json:"body"`
	Tags      []string       `json:"tags,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ListFilter narrows List results. Zero Limit means DefaultListLimit.
type ListFilter struct {
	Author string
	Limit  int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

func (f ListFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	}
	return f.Limit
}
