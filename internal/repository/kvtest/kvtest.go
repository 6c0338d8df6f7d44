// Package kvtest holds the behaviour every domain.KVStore backend must share.
package kvtest

import (
	"context"
	"strings"
	"testing"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises store against the KVStore contract
func Run(t *testing.T, store domain.KVStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "kvtest:missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "kvtest:a", `{"chatrooms":[]}`))

		got, err := store.Get(ctx, "kvtest:a")
		require.NoError(t, err)
		assert.Equal(t, `{"chatrooms":[]}`, got)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "kvtest:b", "first"))
		require.NoError(t, store.Set(ctx, "kvtest:b", "second"))

		got, err := store.Get(ctx, "kvtest:b")
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "kvtest:c", "value"))
		require.NoError(t, store.Remove(ctx, "kvtest:c"))

		_, err := store.Get(ctx, "kvtest:c")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		// removing twice is fine
		assert.NoError(t, store.Remove(ctx, "kvtest:c"))
	})

	t.Run("large value", func(t *testing.T) {
		big := "data:image/png;base64," + strings.Repeat("A", 256*1024)
		require.NoError(t, store.Set(ctx, "kvtest:image", big))

		got, err := store.Get(ctx, "kvtest:image")
		require.NoError(t, err)
		assert.Equal(t, len(big), len(got))
	})
}
