package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsavelev/remindsync/internal/filex"
	"github.com/dsavelev/remindsync/internal/logging"
)

// AssetCache is the durable cache of static assets needed to run offline.
// Each worker version owns its own subdirectory; activation deletes every
// version directory except the current one.
type AssetCache struct {
	root    string
	version string
	log     logging.Logger
}

func NewAssetCache(root, version string, log logging.Logger) (*AssetCache, error) {
	if _, err := filex.EnsureSubDir(root, version); err != nil {
		return nil, err
	}
	return &AssetCache{root: root, version: version, log: log}, nil
}

// pathFor flattens a request path into a cache file name.
func (c *AssetCache) pathFor(asset string) string {
	name := strings.Trim(asset, "/")
	if name == "" {
		name = "index.html"
	}
	name = strings.ReplaceAll(name, "/", "__")
	return filepath.Join(c.root, c.version, name)
}

// Precache stores the given assets. Called during install, before the new
// worker version activates.
func (c *AssetCache) Precache(ctx context.Context, assets map[string][]byte) error {
	for asset, data := range assets {
		if err := os.WriteFile(c.pathFor(asset), data, 0o660); err != nil {
			return fmt.Errorf("precache %s: %w", asset, err)
		}
	}
	c.log.Info(ctx, "precached assets", "count", len(assets), "version", c.version)
	return nil
}

// Get returns the cached asset content, if present.
func (c *AssetCache) Get(asset string) ([]byte, bool) {
	data, err := os.ReadFile(c.pathFor(asset))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores a single fetched asset for later offline use.
func (c *AssetCache) Put(asset string, data []byte) error {
	return os.WriteFile(c.pathFor(asset), data, 0o660)
}

// DropStale removes every cached version whose identifier does not match
// the current one. Called during activation.
func (c *AssetCache) DropStale(ctx context.Context) error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == c.version {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return fmt.Errorf("drop stale cache %s: %w", e.Name(), err)
		}
		c.log.Info(ctx, "dropped stale cache version", "version", e.Name())
	}
	return nil
}
