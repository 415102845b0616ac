package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Prune removes expired entries, entries with unreadable or malformed
// metadata, and data files left without metadata. It returns the number of
// entries removed. Get and Set never call it.
func (c *FileCache) Prune(ctx context.Context) (int, error) {
	dir := c.location
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	now := c.now().Unix()
	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names[e.Name()] = struct{}{}
		}
	}

	removed := 0
	for name := range names {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		var dataName, metaName string
		switch {
		case strings.HasSuffix(name, dataExtension+metaExtension):
			metaName = name
			dataName = strings.TrimSuffix(name, metaExtension)
		case strings.HasSuffix(name, dataExtension):
			dataName = name
			metaName = name + metaExtension
			if _, ok := names[metaName]; ok {
				// handled from the metadata side
				continue
			}
		default:
			continue
		}
		if ValidateKey(strings.TrimSuffix(dataName, dataExtension)) != nil {
			continue
		}

		metaPath := filepath.Join(dir, metaName)
		dataPath := filepath.Join(dir, dataName)
		if metaName == name {
			raw, err := os.ReadFile(metaPath)
			if err == nil {
				if expiresAt, ok := decodeMeta(raw); ok && expiresAt >= now {
					continue
				}
			}
			_ = os.Remove(metaPath)
		}
		if err := os.Remove(dataPath); err == nil || metaName == name {
			removed++
		}
	}
	return removed, nil
}
