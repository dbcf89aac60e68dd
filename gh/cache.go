package gh

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// ArchiveCache stores downloaded archive bytes keyed by their source URL, so
// a repeated run against the same revision skips the network entirely. A
// branch ref can move between runs, which is why callers enable it
// explicitly.
type ArchiveCache struct {
	cacheDir string
	enabled  bool
}

// NewArchiveCache opens the cache under the user cache directory. Any setup
// failure yields a disabled cache rather than an error; caching is never
// load-bearing.
func NewArchiveCache() *ArchiveCache {
	baseDir, err := os.UserCacheDir()
	if err != nil {
		return &ArchiveCache{}
	}

	return NewArchiveCacheAt(filepath.Join(baseDir, "repo-fetch", "archives"))
}

// NewArchiveCacheAt opens a cache rooted at an explicit directory.
func NewArchiveCacheAt(cacheDir string) *ArchiveCache {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return &ArchiveCache{}
	}
	return &ArchiveCache{cacheDir: cacheDir, enabled: true}
}

// Enabled reports whether the cache is usable.
func (c *ArchiveCache) Enabled() bool {
	return c.enabled
}

// Get returns the cached archive bytes for a URL, or ok=false on a miss.
func (c *ArchiveCache) Get(archiveURL string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	data, err := os.ReadFile(c.entryPath(archiveURL))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores archive bytes for a URL. Failures are swallowed; the caller
// already holds the bytes it needs.
func (c *ArchiveCache) Put(archiveURL string, data []byte) {
	if !c.enabled {
		return
	}

	entry := c.entryPath(archiveURL)
	if err := os.MkdirAll(filepath.Dir(entry), 0o755); err != nil {
		return
	}

	// Write then rename so a concurrent reader never sees a torn entry.
	tmp := entry + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return
	}
	if err := os.Rename(tmp, entry); err != nil {
		os.Remove(tmp)
	}
}

func (c *ArchiveCache) entryPath(archiveURL string) string {
	sum := sha256.Sum256([]byte(archiveURL))
	key := hex.EncodeToString(sum[:])
	return filepath.Join(c.cacheDir, key[:2], key[2:]+".zip")
}
