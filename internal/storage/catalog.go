package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/life-engine/pkg/catalog"
)

// Catalog operations (filesystem-backed). Each catalog is one JSON
// file in the data dir; the name is the filename without extension.

func (r *RedisStorage) ListCatalogs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// GetCatalog loads, normalizes and validates one catalog file. It
// returns nil for a missing catalog, without error; invalid content
// surfaces as catalog.ErrContentInvalid.
func (r *RedisStorage) GetCatalog(ctx context.Context, name string) (*catalog.Catalog, error) {
	path := filepath.Join(r.dataDir, filepath.Base(name)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Warn("Catalog not found", "name", name)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read catalog %s: %w", name, err)
	}

	var cat catalog.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog %s: %w", name, err)
	}

	cat.Normalize()
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", name, err)
	}
	return &cat, nil
}
