package comments_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/xssguard/modules/comments"
)

func TestMemoryStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := comments.NewMemoryStorage()

	c := &comments.Comment{
		ID:        uuid.New(),
		Author:    "ann",
		Body:      "hello",
		Tags:      []string{"a"},
		Meta:      map[string]any{"k": "v"},
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Create(ctx, c))

	t.Run("returned copies are isolated", func(t *testing.T) {
		got, err := store.Get(ctx, c.ID)
		require.NoError(t, err)
		got.Tags[0] = "changed"
		got.Meta["k"] = "changed"

		again, err := store.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, again.Tags)
		assert.Equal(t, "v", again.Meta["k"])
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := store.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, comments.ErrNotFound)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		for range comments.MaxListLimit + 5 {
			require.NoError(t, store.Create(ctx, &comments.Comment{ID: uuid.New(), Author: "bulk"}))
		}

		all, err := store.List(ctx, comments.ListFilter{Limit: 10_000})
		require.NoError(t, err)
		assert.Len(t, all, comments.MaxListLimit)

		def, err := store.List(ctx, comments.ListFilter{})
		require.NoError(t, err)
		assert.Len(t, def, comments.DefaultListLimit)

		mine, err := store.List(ctx, comments.ListFilter{Author: "ann"})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, c.ID, mine[0].ID)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.List(cctx, comments.ListFilter{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
