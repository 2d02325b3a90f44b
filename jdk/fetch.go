package jdk

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/jbundle/jbundle/iox"
	"github.com/jbundle/jbundle/types"
)

// DefaultBaseURL is the Adoptium v3 binary endpoint serving GA JDK
// archives per (version, os, arch).
const DefaultBaseURL = "https://api.adoptium.net/v3/binary/latest"

// fetchTimeout bounds the whole download-and-extract of one
// distribution.
const fetchTimeout = 10 * time.Minute

// ErrUnsupported indicates no distribution exists for the requested
// (version, target) combination. Use errors.Is for assertions.
var ErrUnsupported = errors.New("no JDK distribution for requested version/target")

// HTTPFetcher downloads JDK distributions over HTTPS.
type HTTPFetcher struct {
	// BaseURL overrides DefaultBaseURL, mainly for tests.
	BaseURL string
	// Client overrides http.DefaultClient.
	Client *http.Client
}

// Fetch downloads the tar.gz distribution for (version, target) and
// extracts it into dest with the archive's single top-level directory
// stripped, so dest itself becomes the JDK home.
func (f *HTTPFetcher) Fetch(ctx context.Context, version int, target types.Target, dest string) (*FetchInfo, error) {
	base := f.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	url := fmt.Sprintf("%s/%d/ga/%s/%s/jdk/hotspot/normal/eclipse",
		base, version, target.OS(), target.Arch())

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer iox.DiscardClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w (%s)", ErrUnsupported, url)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	n, err := extractTarGz(resp.Body, dest)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", url, err)
	}
	return &FetchInfo{URL: url, ArchiveBytes: n}, nil
}

// extractTarGz streams a tar.gz archive into dest, stripping the
// first path component of every entry. Returns the compressed byte
// count read from r.
func extractTarGz(r io.Reader, dest string) (int64, error) {
	counted := &countingReader{r: r}
	gz, err := gzip.NewReader(counted)
	if err != nil {
		return 0, err
	}
	defer iox.DiscardClose(gz)

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return counted.n, nil
		}
		if err != nil {
			return counted.n, err
		}

		name, ok := stripRoot(header.Name)
		if !ok {
			continue
		}
		path, err := securePath(dest, name)
		if err != nil {
			return counted.n, err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0o755); err != nil {
				return counted.n, err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return counted.n, err
			}
			if err := writeFile(path, tr, header.FileInfo().Mode().Perm()); err != nil {
				return counted.n, err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return counted.n, err
			}
			if err := os.Symlink(header.Linkname, path); err != nil && !os.IsExist(err) {
				return counted.n, err
			}
		}
	}
}

// stripRoot removes the archive's top-level directory from an entry
// name. Entries without a remainder (the root directory itself) are
// skipped.
func stripRoot(name string) (string, bool) {
	name = strings.TrimPrefix(name, "./")
	i := strings.IndexByte(name, '/')
	if i < 0 {
		return "", false
	}
	rest := strings.Trim(name[i+1:], "/")
	if rest == "" {
		return "", false
	}
	return rest, true
}

// securePath joins name under dest, rejecting traversal outside it.
func securePath(dest, name string) (string, error) {
	path := filepath.Join(dest, filepath.FromSlash(name))
	if !strings.HasPrefix(path, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return path, nil
}

func writeFile(path string, r io.Reader, mode os.FileMode) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// countingReader counts bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
