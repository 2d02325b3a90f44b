// Package jdk implements the build-machine JDK acquisition cache: a
// persistent store of downloaded runtime distributions keyed by
// (version, target).
//
// Population discipline: a distribution is fetched and extracted into
// a private temp directory under the cache root, then promoted into
// the keyed location with a single rename. "Entry exists" is therefore
// only ever true for a fully-populated entry, and two independent
// processes racing on the same key converge on one winner without
// observable corruption. Reads of a populated entry need no
// synchronization.
package jdk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jbundle/jbundle/log"
	"github.com/jbundle/jbundle/types"
)

// Fetcher downloads and extracts a JDK distribution into dest.
// The returned FetchInfo feeds the entry's metadata sidecar.
type Fetcher interface {
	Fetch(ctx context.Context, version int, target types.Target, dest string) (*FetchInfo, error)
}

// FetchInfo describes a completed fetch.
type FetchInfo struct {
	URL          string
	ArchiveBytes int64
}

// Cache is the JDK acquisition cache rooted at a persistent directory
// (typically ~/.jbundle/cache).
type Cache struct {
	root    string
	fetcher Fetcher
	logger  *log.Logger
}

// NewCache creates a cache over root. A nil logger disables
// diagnostics.
func NewCache(root string, fetcher Fetcher, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.Nop()
	}
	return &Cache{root: root, fetcher: fetcher, logger: logger}
}

// Root returns the cache root directory.
func (c *Cache) Root() string { return c.root }

// Ensure returns the path of a populated JDK entry for (version,
// target), fetching and populating it first when absent. A populated
// entry is returned without any network access.
func (c *Cache) Ensure(ctx context.Context, version int, target types.Target) (string, error) {
	entry := filepath.Join(c.root, entryKey(version, target))
	if populated(entry) {
		c.logger.Debug("jdk cache hit", map[string]any{
			"version": version,
			"target":  target.String(),
		})
		return entry, nil
	}

	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return "", fmt.Errorf("acquiring JDK %d for %s: %w", version, target, err)
	}

	// Materialize into a private temp dir on the same filesystem, so
	// the promote below is a single atomic rename.
	tmp, err := os.MkdirTemp(c.root, ".fetch-"+entryKey(version, target)+"-")
	if err != nil {
		return "", fmt.Errorf("acquiring JDK %d for %s: %w", version, target, err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	info, err := c.fetcher.Fetch(ctx, version, target, tmp)
	if err != nil {
		return "", fmt.Errorf("acquiring JDK %d for %s: %w", version, target, err)
	}
	if !populated(tmp) {
		return "", fmt.Errorf("acquiring JDK %d for %s: distribution has no bin directory", version, target)
	}

	if err := writeMeta(tmp, &Meta{
		Version:      version,
		Target:       target.String(),
		URL:          info.URL,
		ArchiveBytes: info.ArchiveBytes,
	}); err != nil {
		return "", fmt.Errorf("acquiring JDK %d for %s: %w", version, target, err)
	}

	if err := os.Rename(tmp, entry); err != nil {
		// A concurrent populator may have promoted first; their entry
		// is as good as ours.
		if populated(entry) {
			return entry, nil
		}
		return "", fmt.Errorf("acquiring JDK %d for %s: %w", version, target, err)
	}

	c.logger.Info("jdk cached", map[string]any{
		"version": version,
		"target":  target.String(),
		"path":    entry,
	})
	return entry, nil
}

// entryKey derives the cache directory name for a (version, target)
// pair.
func entryKey(version int, target types.Target) string {
	return fmt.Sprintf("jdk-%d-%s", version, target)
}

// populated reports whether the entry at path holds a complete JDK.
// The bin subdirectory is the population marker: it only exists after
// a successful extract-and-promote.
func populated(path string) bool {
	info, err := os.Stat(filepath.Join(path, "bin"))
	return err == nil && info.IsDir()
}
