package jdk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jbundle/jbundle/types"
)

// fakeFetcher materializes a minimal JDK layout and counts calls.
type fakeFetcher struct {
	calls int
	fail  error
}

func (f *fakeFetcher) Fetch(_ context.Context, version int, target types.Target, dest string) (*FetchInfo, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	if err := os.MkdirAll(filepath.Join(dest, "bin"), 0o755); err != nil {
		return nil, err
	}
	javaPath := filepath.Join(dest, "bin", "java")
	if err := os.WriteFile(javaPath, []byte("#!/bin/sh\n"), 0o755); err != nil {
		return nil, err
	}
	return &FetchInfo{
		URL:          fmt.Sprintf("https://example.invalid/%d/%s", version, target),
		ArchiveBytes: 1024,
	}, nil
}

func TestEnsure_PopulatesOnMiss(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	fetcher := &fakeFetcher{}
	cache := NewCache(root, fetcher, nil)

	path, err := cache.Ensure(context.Background(), 21, types.TargetLinuxX64)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if path != filepath.Join(root, "jdk-21-linux-x64") {
		t.Errorf("path = %s", path)
	}
	if !populated(path) {
		t.Error("entry should be populated")
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.calls)
	}
}

func TestEnsure_SecondCallIsIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	fetcher := &fakeFetcher{}
	cache := NewCache(root, fetcher, nil)

	first, err := cache.Ensure(context.Background(), 21, types.TargetLinuxX64)
	if err != nil {
		t.Fatalf("first Ensure failed: %v", err)
	}
	second, err := cache.Ensure(context.Background(), 21, types.TargetLinuxX64)
	if err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}

	if first != second {
		t.Errorf("paths differ: %s vs %s", first, second)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want exactly 1 (second call must hit cache)", fetcher.calls)
	}
}

func TestEnsure_DistinctKeysDistinctEntries(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	fetcher := &fakeFetcher{}
	cache := NewCache(root, fetcher, nil)

	a, err := cache.Ensure(context.Background(), 21, types.TargetLinuxX64)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	b, err := cache.Ensure(context.Background(), 17, types.TargetLinuxX64)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	c, err := cache.Ensure(context.Background(), 21, types.TargetMacOSArm64)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	if a == b || a == c || b == c {
		t.Errorf("keys must not collide: %s %s %s", a, b, c)
	}
	if fetcher.calls != 3 {
		t.Errorf("fetch calls = %d, want 3", fetcher.calls)
	}
}

func TestEnsure_FailedFetchLeavesNoEntry(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	fetcher := &fakeFetcher{fail: fmt.Errorf("network down")}
	cache := NewCache(root, fetcher, nil)

	_, err := cache.Ensure(context.Background(), 21, types.TargetLinuxX64)
	if err == nil {
		t.Fatal("Ensure should fail")
	}
	// The error carries version and target context.
	for _, want := range []string{"21", "linux-x64"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
	if populated(filepath.Join(root, "jdk-21-linux-x64")) {
		t.Error("failed fetch must not leave a populated entry")
	}
	// No half-extracted temp dirs either.
	entries, _ := os.ReadDir(root)
	for _, e := range entries {
		t.Errorf("unexpected leftover in cache root: %s", e.Name())
	}
}

func TestEnsure_WritesMeta(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	cache := NewCache(root, &fakeFetcher{}, nil)

	path, err := cache.Ensure(context.Background(), 21, types.TargetLinuxX64)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	meta := ReadMeta(path)
	if meta == nil {
		t.Fatal("meta sidecar missing")
	}
	if meta.Version != 21 || meta.Target != "linux-x64" {
		t.Errorf("meta = %+v", meta)
	}
	if meta.FetchedAt.IsZero() {
		t.Error("meta fetched_at not set")
	}
}

func TestInfoAndClean(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	cache := NewCache(root, &fakeFetcher{}, nil)

	info, err := cache.Info()
	if err != nil {
		t.Fatalf("Info on absent root failed: %v", err)
	}
	if info.Exists {
		t.Error("absent root should report Exists=false")
	}

	if _, err := cache.Ensure(context.Background(), 21, types.TargetLinuxX64); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	info, err = cache.Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if !info.Exists || len(info.Entries) != 1 {
		t.Fatalf("info = %+v", info)
	}
	if info.Entries[0].Name != "jdk-21-linux-x64" || info.Entries[0].Size <= 0 {
		t.Errorf("entry = %+v", info.Entries[0])
	}
	if info.TotalSize <= 0 {
		t.Error("total size should be positive")
	}

	freed, err := cache.Clean()
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if freed != info.TotalSize {
		t.Errorf("freed = %d, want %d", freed, info.TotalSize)
	}

	freed, err = cache.Clean()
	if err != nil {
		t.Fatalf("second Clean failed: %v", err)
	}
	if freed != 0 {
		t.Errorf("already-empty clean freed %d bytes", freed)
	}
}
