package jdk

import (
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// metaFile is the per-entry metadata sidecar. It is written into the
// temp directory before promotion, so it appears atomically with the
// entry. Its absence never affects whether an entry counts as
// populated; only the bin marker does.
const metaFile = "meta.bin"

// Meta records how a cache entry was acquired. Surfaced by the info
// command.
type Meta struct {
	Version      int       `msgpack:"version"`
	Target       string    `msgpack:"target"`
	URL          string    `msgpack:"url"`
	FetchedAt    time.Time `msgpack:"fetched_at"`
	ArchiveBytes int64     `msgpack:"archive_bytes"`
}

func writeMeta(dir string, m *Meta) error {
	if m.FetchedAt.IsZero() {
		m.FetchedAt = time.Now().UTC()
	}
	data, err := msgpack.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, metaFile), data, 0o644)
}

// ReadMeta reads the metadata sidecar of a cache entry. Returns nil
// without error when the sidecar is missing or unreadable: metadata
// is best-effort reporting, never load-bearing.
func ReadMeta(dir string) *Meta {
	data, err := os.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return nil
	}
	var m Meta
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil
	}
	return &m
}
