package cards_test

import (
	"context"
	"testing"

	"github.com/alovak/cardflow-cards/cards"
	"github.com/alovak/cardflow-cards/cards/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadCreatesMissingDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := cards.NewFileStore(fs, "/var/lib/cards/data.json")

	exists, err := afero.Exists(fs, "/var/lib/cards/data.json")
	require.NoError(t, err)
	require.False(t, exists)

	list, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	data, err := afero.ReadFile(fs, "/var/lib/cards/data.json")
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}

func TestFileStore_SaveIsPrettyAndOrdered(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := cards.NewFileStore(fs, "/data.json")
	ctx := context.Background()

	in := []*models.Card{
		{ID: "b", CardNumber: "4111 1111 1111 1111", ExpiryDate: "12/27", CardHolder: "BOB", CVV: "123"},
		{ID: "a", CardNumber: "5500 0000 0000 0004", ExpiryDate: "01/28", CardHolder: "ALICE", CVV: "456"},
	}
	require.NoError(t, store.Save(ctx, in))

	data, err := afero.ReadFile(fs, "/data.json")
	require.NoError(t, err)
	require.Contains(t, string(data), "[\n  {\n    \"id\": \"b\",\n    \"cardNumber\": \"4111 1111 1111 1111\",")

	out, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, in, out)

	// no temporary files left behind
	entries, err := afero.ReadDir(fs, "/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestFileStore_CorruptDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data.json", []byte("{not json"), 0o644))

	_, err := cards.NewFileStore(fs, "/data.json").Load(context.Background())
	require.ErrorIs(t, err, cards.ErrStorage)
}

func TestFileStore_WriteFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	store := cards.NewFileStore(fs, "/data.json")

	err := store.Save(context.Background(), []*models.Card{})
	require.ErrorIs(t, err, cards.ErrStorage)
}

func TestFindCard(t *testing.T) {
	store := cards.NewMemStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, []*models.Card{{ID: "1"}, {ID: "2"}}))

	card, ok, err := cards.FindCard(ctx, store, "2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", card.ID)

	card, ok, err = cards.FindCard(ctx, store, "3")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, card)
}

func TestFileStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cards.NewMemStore().Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
