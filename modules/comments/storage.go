package comments

import (
	"context"

	"github.com/google/uuid"
)

// Storage persists comments.
type Storage interface {
	Create(ctx context.Context, c *Comment) error
	Get(ctx context.Context, id uuid.UUID) (*Comment, error)
	List(ctx context.Context, f ListFilter) ([]*Comment, error)
}
