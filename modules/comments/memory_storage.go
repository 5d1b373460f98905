package comments

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStorage keeps comments in process memory, newest first on List.
type MemoryStorage struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*Comment
	order []uuid.UUID
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{byID: make(map[uuid.UUID]*Comment)}
}

func (s *MemoryStorage) Create(ctx context.Context, c *Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[c.ID] = clone(c)
	s.order = append(s.order, c.ID)
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, id uuid.UUID) (*Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(c), nil
}

func (s *MemoryStorage) List(ctx context.Context, f ListFilter) ([]*Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := f.limit()
	out := make([]*Comment, 0, min(limit, len(s.order)))
	for _, id := range slices.Backward(s.order) {
		c := s.byID[id]
		if f.Author != "" && c.Author != f.Author {
			continue
		}
		out = append(out, clone(c))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// clone copies c so callers cannot mutate stored state. Meta is copied one
// level deep.
func clone(c *Comment) *Comment {
	cp := *c
	cp.Tags = slices.Clone(c.Tags)
	cp.Meta = maps.Clone(c.Meta)
	return &cp
}
