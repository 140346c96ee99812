package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "covers/abc", strings.NewReader("jpeg bytes"), "image/jpeg"))

	ok, err := store.Exists(ctx, "covers/abc")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := store.Get(ctx, "covers/abc")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "jpeg bytes", string(data))

	require.NoError(t, store.Delete(ctx, "covers/abc"))
	ok, err = store.Exists(ctx, "covers/abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStoreMissingKeyIsNotFound(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "covers/nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = store.Delete(ctx, "covers/nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "/etc/passwd", "a/../../b"} {
		err := store.Put(ctx, key, strings.NewReader("x"), "text/plain")
		assert.Error(t, err, "key %q", key)
	}
}

func TestLocalStoreOverwrite(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", strings.NewReader("first"), "text/plain"))
	require.NoError(t, store.Put(ctx, "k", strings.NewReader("second"), "text/plain"))

	rc, err := store.Get(ctx, "k")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "second", string(data))
}

func TestLocalStorePing(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	assert.NoError(t, store.Ping(context.Background()))
}
