package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demos", "odyssey-airbnb")

	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewLocalStore_DefaultsToTempDir(t *testing.T) {
	store, err := NewLocalStore("")
	require.NoError(t, err)
	assert.NotEmpty(t, store.Dir())
	t.Cleanup(func() { _ = os.RemoveAll(store.Dir()) })
}

func TestLocalStore_ArtifactPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "santorini.mp4"), store.ArtifactPath("santorini", ".mp4"))
	assert.Equal(t, filepath.Join(dir, "santorini-thumb.jpg"), store.ArtifactPath("santorini", "-thumb.jpg"))
}

func TestLocalStore_MirrorNotConfigured(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Mirror(context.Background(), "some/path.mp4", "key.mp4")
	assert.ErrorIs(t, err, ErrS3NotConfigured)
}
