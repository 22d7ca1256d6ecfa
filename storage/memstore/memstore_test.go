package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flakedb/ledger/errkind"
)

func TestReadWriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := New()

	require.NoError(t, b.Write(ctx, "a", []byte("hello")))
	got, err := b.Read(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestReadMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	b := New()

	_, err := b.Read(ctx, "missing")
	require.Error(t, err)
	require.Equal(t, errkind.StorageNotFound, errkind.Of(err))
}

func TestRenameMovesValue(t *testing.T) {
	ctx := context.Background()
	b := New()
	require.NoError(t, b.Write(ctx, "old", []byte("v")))

	require.NoError(t, b.Rename(ctx, "old", "new"))

	ok, err := b.Exists(ctx, "old")
	require.NoError(t, err)
	require.False(t, ok)

	got, err := b.Read(ctx, "new")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := New()
	require.NoError(t, b.Write(ctx, "a", []byte("v")))
	require.NoError(t, b.Delete(ctx, "a"))
	require.NoError(t, b.Delete(ctx, "a"))

	ok, err := b.Exists(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)
}
