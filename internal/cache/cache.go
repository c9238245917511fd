// Package cache persists per-file diagnostics between runs so unchanged
// files are not parsed again.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/panbanda/selectorlint/pkg/analyzer/bycss"
)

// Compile-time check that Cache can back the analyzer.
var _ bycss.Cache = (*Cache)(nil)

// Cache provides file-based caching of diagnostics.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry is one cached file result.
type Entry struct {
	Path        string             `json:"path"`
	Hash        string             `json:"hash"`
	Timestamp   time.Time          `json:"timestamp"`
	Diagnostics []bycss.Diagnostic `json:"diagnostics"`
}

// New creates a new cache instance. ttlHours of 0 keeps entries until the
// content changes.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Load returns the diagnostics stored for path if they were computed for
// the same hash and have not expired.
func (c *Cache) Load(path, hash string) ([]bycss.Diagnostic, bool) {
	if !c.enabled {
		return nil, false
	}

	file := c.keyPath(path)
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.Path != path || entry.Hash != hash {
		return nil, false
	}
	if c.ttl > 0 && time.Since(entry.Timestamp) > c.ttl {
		os.Remove(file)
		return nil, false
	}

	return entry.Diagnostics, true
}

// Store records the diagnostics for path. Concurrent stores for different
// paths are safe; the entry file is replaced atomically.
func (c *Cache) Store(path, hash string, diags []bycss.Diagnostic) error {
	if !c.enabled {
		return nil
	}
	if diags == nil {
		diags = []bycss.Diagnostic{}
	}

	data, err := json.Marshal(Entry{
		Path:        path,
		Hash:        hash,
		Timestamp:   time.Now(),
		Diagnostics: diags,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.keyPath(path))
}

// Invalidate removes the entry for path.
func (c *Cache) Invalidate(path string) error {
	if !c.enabled {
		return nil
	}
	err := os.Remove(c.keyPath(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// keyPath maps a file path to its entry file.
func (c *Cache) keyPath(path string) string {
	hash := blake3.Sum256([]byte(path))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:16])+".json")
}

// Stats summarizes the cache directory.
type Stats struct {
	Dir       string        `json:"dir" toon:"dir"`
	Entries   int           `json:"entries" toon:"entries"`
	TotalSize int64         `json:"total_size" toon:"total_size"`
	OldestAge time.Duration `json:"oldest_age" toon:"oldest_age"`
	NewestAge time.Duration `json:"newest_age" toon:"newest_age"`
}

// GetStats returns statistics about the cache. A missing directory counts
// as empty.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{Dir: c.dir}
	var oldest, newest time.Time

	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == c.dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		stats.Entries++
		stats.TotalSize += info.Size()

		modTime := info.ModTime()
		if oldest.IsZero() || modTime.Before(oldest) {
			oldest = modTime
		}
		if newest.IsZero() || modTime.After(newest) {
			newest = modTime
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
	}
	if !newest.IsZero() {
		stats.NewestAge = time.Since(newest)
	}
	return stats, nil
}
