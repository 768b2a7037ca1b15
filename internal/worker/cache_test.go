package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsavelev/remindsync/internal/logging"
)

func newTestCache(t *testing.T, root, version string) *AssetCache {
	t.Helper()
	c, err := NewAssetCache(root, version, logging.Discard())
	require.NoError(t, err)
	return c
}

func TestAssetCache_PrecacheAndGet(t *testing.T) {
	c := newTestCache(t, t.TempDir(), "v1")
	ctx := context.Background()

	err := c.Precache(ctx, map[string][]byte{
		"/":       []byte("<html>shell</html>"),
		"/app.js": []byte("console.log('hi')"),
	})
	require.NoError(t, err)

	data, ok := c.Get("/")
	require.True(t, ok)
	assert.Equal(t, []byte("<html>shell</html>"), data)

	data, ok = c.Get("/app.js")
	require.True(t, ok)
	assert.Equal(t, []byte("console.log('hi')"), data)

	_, ok = c.Get("/missing.css")
	assert.False(t, ok)
}

func TestAssetCache_PutThenGet(t *testing.T) {
	c := newTestCache(t, t.TempDir(), "v1")

	require.NoError(t, c.Put("/styles/site.css", []byte("body{}")))

	data, ok := c.Get("/styles/site.css")
	require.True(t, ok)
	assert.Equal(t, []byte("body{}"), data)
}

func TestAssetCache_DropStale(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	old := newTestCache(t, root, "v1")
	require.NoError(t, old.Precache(ctx, map[string][]byte{"/": []byte("old")}))

	c := newTestCache(t, root, "v2")
	require.NoError(t, c.Precache(ctx, map[string][]byte{"/": []byte("new")}))

	require.NoError(t, c.DropStale(ctx))

	_, err := os.Stat(filepath.Join(root, "v1"))
	assert.True(t, os.IsNotExist(err))

	data, ok := c.Get("/")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), data)
}
