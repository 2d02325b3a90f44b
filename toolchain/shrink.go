package toolchain

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/jbundle/jbundle/iox"
)

// ShrinkJar repacks the jar with maximum deflate compression,
// dropping duplicate entries and non-runtime metadata. The shrunk jar
// lands next to the original with a .shrunk.jar suffix; when the
// repack achieves no reduction the original is kept and reported.
func (t *Exec) ShrinkJar(ctx context.Context, jar string) (*ShrinkResult, error) {
	info, err := os.Stat(jar)
	if err != nil {
		return nil, fmt.Errorf("shrinking jar: %w", err)
	}
	originalSize := info.Size()

	out := strings.TrimSuffix(jar, ".jar") + ".shrunk.jar"
	if err := repackJar(ctx, jar, out); err != nil {
		return nil, fmt.Errorf("shrinking jar: %w", err)
	}

	shrunkInfo, err := os.Stat(out)
	if err != nil {
		return nil, fmt.Errorf("shrinking jar: %w", err)
	}
	shrunkSize := shrunkInfo.Size()

	if shrunkSize >= originalSize {
		_ = os.Remove(out)
		return &ShrinkResult{JarPath: jar, OriginalSize: originalSize, ShrunkSize: originalSize}, nil
	}
	return &ShrinkResult{JarPath: out, OriginalSize: originalSize, ShrunkSize: shrunkSize}, nil
}

// skippableEntry reports jar entries that are never needed at runtime.
func skippableEntry(name string) bool {
	switch {
	case strings.HasPrefix(name, "META-INF/maven/"):
		return true
	case strings.HasSuffix(name, ".SF"), strings.HasSuffix(name, ".RSA"), strings.HasSuffix(name, ".DSA"):
		// Signature files are invalid after repacking anyway.
		return strings.HasPrefix(name, "META-INF/")
	case strings.HasSuffix(name, "LICENSE"), strings.HasSuffix(name, "NOTICE"):
		return strings.HasPrefix(name, "META-INF/")
	default:
		return false
	}
}

func repackJar(ctx context.Context, src, dest string) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(reader)

	outFile, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(outFile)

	writer := zip.NewWriter(outFile)
	writer.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	seen := make(map[string]bool)
	for _, entry := range reader.File {
		if err := ctx.Err(); err != nil {
			_ = writer.Close()
			return err
		}
		if seen[entry.Name] || skippableEntry(entry.Name) {
			continue
		}
		seen[entry.Name] = true

		header := entry.FileHeader
		header.Method = zip.Deflate
		w, err := writer.CreateHeader(&header)
		if err != nil {
			_ = writer.Close()
			return err
		}
		rc, err := entry.Open()
		if err != nil {
			_ = writer.Close()
			return err
		}
		if _, err := io.Copy(w, rc); err != nil {
			_ = rc.Close()
			_ = writer.Close()
			return err
		}
		_ = rc.Close()
	}

	if err := writer.Close(); err != nil {
		return err
	}
	return outFile.Close()
}
