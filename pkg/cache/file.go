package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache stores entries as JSON files under a directory, one file
// per key. It backs the CLI, where lane layouts (TTLLayout) and
// exported documents (TTLDocument) survive across invocations.
type FileCache struct {
	dir string
}

// NewFileCache opens a file cache rooted at dir, creating the
// directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// cacheEntry is the on-disk envelope around a cached payload. Kind
// records the key prefix ("lane" for lane layouts, "doc" for exported
// documents) so maintenance commands can report what they touched.
type cacheEntry struct {
	Kind      string    `json:"kind"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get returns the payload stored under key. Unreadable or expired
// entries are removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.Data, true, nil
}

// Set writes the payload under key. A zero ttl stores the entry
// without expiry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := cacheEntry{
		Kind: kindOf(key),
		Data: data,
	}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, entryData, 0644)
}

// Delete removes the entry stored under key, if any.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Purge deletes every entry and returns how many of each kind were
// removed, keyed by the entry kind ("lane", "doc"). Files that do not
// parse as entries count under "unknown".
func (c *FileCache) Purge(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".json") {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		kind := "unknown"
		var entry cacheEntry
		if data, rerr := os.ReadFile(path); rerr == nil && json.Unmarshal(data, &entry) == nil && entry.Kind != "" {
			kind = entry.Kind
		}
		if rerr := os.Remove(path); rerr != nil {
			return rerr
		}
		counts[kind]++
		return nil
	})
	if err != nil {
		return counts, err
	}

	// Drop the fan-out subdirectories left empty by the sweep.
	subdirs, err := os.ReadDir(c.dir)
	if err != nil {
		return counts, err
	}
	for _, sub := range subdirs {
		if sub.IsDir() {
			_ = os.Remove(filepath.Join(c.dir, sub.Name()))
		}
	}
	return counts, nil
}

// Close does nothing for a file cache.
func (c *FileCache) Close() error {
	return nil
}

// kindOf extracts the key prefix, the part before the first colon.
func kindOf(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return ""
}

// path maps a key to a file, fanning out over the first two hex
// characters of the key hash to keep directories small.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
