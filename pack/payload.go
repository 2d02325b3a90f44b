package pack

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/jbundle/jbundle/iox"
)

// payloadSpec names the inputs assembled into the payload archive.
type payloadSpec struct {
	runtimeDir string
	jarPath    string
	cracDir    string // optional
	cdsArchive string // optional
}

// buildPayload assembles the compressed tar payload: the minimized
// runtime under runtime/, the application archive as app.jar, the
// checkpoint data under crac/, and the shared-class archive as
// app.jsa.
//
// The archive is deterministic for identical inputs: entries are
// written in lexical walk order with zeroed timestamps and ownership,
// and the gzip header carries no name or mtime. The content
// identifier is computed over these exact bytes.
func buildPayload(spec payloadSpec) ([]byte, error) {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}
	tw := tar.NewWriter(gz)

	if err := addTree(tw, spec.runtimeDir, "runtime"); err != nil {
		return nil, fmt.Errorf("adding runtime: %w", err)
	}
	if err := addFile(tw, spec.jarPath, "app.jar"); err != nil {
		return nil, fmt.Errorf("adding application jar: %w", err)
	}
	if spec.cracDir != "" {
		if err := addTree(tw, spec.cracDir, "crac"); err != nil {
			return nil, fmt.Errorf("adding checkpoint data: %w", err)
		}
	}
	if spec.cdsArchive != "" {
		if err := addFile(tw, spec.cdsArchive, "app.jsa"); err != nil {
			return nil, fmt.Errorf("adding shared-class archive: %w", err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// addTree writes the directory tree rooted at dir under prefix.
// WalkDir visits entries in lexical order, which keeps the archive
// byte-stable across rebuilds.
func addTree(tw *tar.Writer, dir, prefix string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := prefix
		if rel != "." {
			name = prefix + "/" + filepath.ToSlash(rel)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return writeHeader(tw, &tar.Header{
				Typeflag: tar.TypeDir,
				Name:     name + "/",
				Mode:     int64(info.Mode().Perm()),
			})
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return writeHeader(tw, &tar.Header{
				Typeflag: tar.TypeSymlink,
				Name:     name,
				Linkname: link,
			})
		case info.Mode().IsRegular():
			return addRegular(tw, path, name, info)
		default:
			// Sockets, devices and the like never appear in a JDK
			// image; skip rather than fail.
			return nil
		}
	})
}

// addFile writes a single regular file as name.
func addFile(tw *tar.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return addRegular(tw, path, name, info)
}

func addRegular(tw *tar.Writer, path, name string, info fs.FileInfo) error {
	if err := writeHeader(tw, &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     int64(info.Mode().Perm()),
		Size:     info.Size(),
	}); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(f)
	if _, err := io.Copy(tw, f); err != nil {
		return err
	}
	return nil
}

// writeHeader normalizes a header for determinism before writing:
// zero timestamps, zero ownership, USTAR-compatible naming left to
// the tar writer.
func writeHeader(tw *tar.Writer, h *tar.Header) error {
	h.Uid = 0
	h.Gid = 0
	h.Uname = ""
	h.Gname = ""
	h.Format = tar.FormatPAX
	if strings.Contains(h.Name, "..") {
		return fmt.Errorf("refusing payload entry with traversal: %s", h.Name)
	}
	return tw.WriteHeader(h)
}
