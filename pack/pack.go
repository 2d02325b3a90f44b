// Package pack assembles the final self-contained binary: a POSIX
// shell launcher stub concatenated with a compressed payload holding
// the trimmed runtime, the application archive, and optional
// checkpoint and shared-class data.
//
// The artifact layout is a binary-format contract: the stub embeds
// the payload's exact byte length and content identifier, and the
// generated script extracts exactly that many trailing bytes of its
// own file on first run. Stub text is generated first, so both values
// are computed from the final payload bytes.
package pack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jbundle/jbundle/log"
	"github.com/jbundle/jbundle/types"
)

// Options configures one packing run.
type Options struct {
	// RuntimeDir is the minimized runtime directory.
	RuntimeDir string
	// JarPath is the application archive.
	JarPath string
	// CRaCPath is the optional checkpoint data directory.
	CRaCPath string
	// Output is the artifact path.
	Output string
	// JVMArgs are baked into the stub's launch line.
	JVMArgs []string
	// Profile selects the stub's invocation mode.
	Profile types.JVMProfile
	// AppCDS enables shared-class archive generation.
	AppCDS bool
	// JavaVersion is the bundled runtime's version, for diagnostics.
	JavaVersion int
	// CompactBanner selects the one-line banner.
	CompactBanner bool

	// Logger is optional.
	Logger *log.Logger
	// Dumper overrides the default shared-class archive dumper
	// (tests). Nil selects the subprocess-backed default.
	Dumper CDSDumper
}

// Result describes a written artifact.
type Result struct {
	Path    string
	Size    int64
	CacheID string
}

// Create builds the artifact at opts.Output. Any archive-assembly or
// file-write failure is fatal; only shared-class archive generation
// is tolerated (the bundle is simply built without it).
func Create(ctx context.Context, opts *Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}

	cdsArchive := ""
	if opts.AppCDS {
		dir, err := os.MkdirTemp("", "jbundle-cds-")
		if err != nil {
			return nil, fmt.Errorf("assembling payload: %w", err)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		cdsArchive = generateCDS(ctx, opts, filepath.Join(dir, "app.jsa"), logger)
	}

	payload, err := buildPayload(payloadSpec{
		runtimeDir: opts.RuntimeDir,
		jarPath:    opts.JarPath,
		cracDir:    opts.CRaCPath,
		cdsArchive: cdsArchive,
	})
	if err != nil {
		return nil, fmt.Errorf("assembling payload: %w", err)
	}

	cacheID := ContentID(payload)
	stub := GenerateStub(StubParams{
		CacheID:       cacheID,
		PayloadSize:   int64(len(payload)),
		JVMArgs:       opts.JVMArgs,
		Profile:       opts.Profile,
		HasAppCDS:     cdsArchive != "",
		HasCRaC:       opts.CRaCPath != "",
		CompactBanner: opts.CompactBanner,
	})

	if err := writeArtifact(opts.Output, []byte(stub), payload); err != nil {
		return nil, fmt.Errorf("writing artifact: %w", err)
	}

	logger.Info("artifact written", map[string]any{
		"output":       opts.Output,
		"cache_id":     cacheID,
		"payload_size": len(payload),
		"java_version": opts.JavaVersion,
	})
	return &Result{
		Path:    opts.Output,
		Size:    int64(len(stub) + len(payload)),
		CacheID: cacheID,
	}, nil
}

// generateCDS attempts shared-class archive generation into dest,
// returning dest or "" when generation failed or produced nothing.
func generateCDS(ctx context.Context, opts *Options, dest string, logger *log.Logger) string {
	dumper := opts.Dumper
	if dumper == nil {
		dumper = dumpSharedArchive
	}
	if err := dumper(ctx, opts.RuntimeDir, opts.JarPath, dest); err != nil {
		logger.Warn("shared-class archive skipped", map[string]any{"error": err.Error()})
		return ""
	}
	if _, err := os.Stat(dest); err != nil {
		return ""
	}
	return dest
}

// writeArtifact concatenates stub and payload into path and marks it
// executable.
func writeArtifact(path string, stub, payload []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	if _, err := f.Write(stub); err != nil {
		_ = f.Close()
		return err
	}
	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// OpenFile's mode is masked by umask; chmod to guarantee the
	// executable bits.
	return os.Chmod(path, 0o755)
}
