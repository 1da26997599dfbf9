package search

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_SearchIsOwnerScoped(t *testing.T) {
	idx, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	const alice, bob = ids.ID(1), ids.ID(2)
	big := ids.ID(1<<60 + 3)

	require.NoError(t, idx.Put(alice, models.Entry{ID: big, Title: "Hiking trip", Content: `walked\nthrough **mountains**`}))
	require.NoError(t, idx.Put(alice, models.Entry{ID: 10, Title: "Groceries", Content: "milk", Tags: []string{"a b/c"}}))
	require.NoError(t, idx.Put(bob, models.Entry{ID: 11, Title: "Mountains", Content: "snow"}))

	ctx := context.Background()

	got, err := idx.Search(ctx, alice, "mountains")
	require.NoError(t, err)
	assert.Equal(t, []ids.ID{big}, got)

	got, err = idx.Search(ctx, alice, "hik")
	require.NoError(t, err)
	assert.Equal(t, []ids.ID{big}, got)

	got, err = idx.Search(ctx, alice, "a b/c")
	require.NoError(t, err)
	assert.Equal(t, []ids.ID{10}, got)

	got, err = idx.Search(ctx, alice, "  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, idx.Delete(big))
	got, err = idx.Search(ctx, alice, "mountains")
	require.NoError(t, err)
	assert.Empty(t, got)
}
