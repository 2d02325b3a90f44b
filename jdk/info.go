package jdk

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// EntryInfo describes one cache entry for the info command.
type EntryInfo struct {
	Name string
	Size int64
	// Meta is the acquisition metadata, nil when the sidecar is
	// missing.
	Meta *Meta
}

// CacheInfo is the aggregate cache report.
type CacheInfo struct {
	Root      string
	Exists    bool
	TotalSize int64
	Entries   []EntryInfo
}

// Info reports the cache root, aggregate size, and per-entry sizes.
func (c *Cache) Info() (*CacheInfo, error) {
	info := &CacheInfo{Root: c.root}

	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return info, nil
		}
		return nil, err
	}
	info.Exists = true

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(c.root, entry.Name())
		size := DirSize(path)
		info.TotalSize += size
		info.Entries = append(info.Entries, EntryInfo{
			Name: entry.Name(),
			Size: size,
			Meta: ReadMeta(path),
		})
	}
	sort.Slice(info.Entries, func(i, j int) bool {
		return info.Entries[i].Name < info.Entries[j].Name
	})
	return info, nil
}

// Clean removes the entire cache root. Returns the bytes freed; zero
// with no error when the cache was already empty.
func (c *Cache) Clean() (int64, error) {
	if _, err := os.Stat(c.root); os.IsNotExist(err) {
		return 0, nil
	}
	size := DirSize(c.root)
	if err := os.RemoveAll(c.root); err != nil {
		return 0, err
	}
	return size, nil
}

// DirSize returns the total size of regular files under path.
// Unreadable subtrees count as zero rather than failing the report.
func DirSize(path string) int64 {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return size
}
