package pack

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"
)

// cdsTimeout bounds the trial run that dumps the shared-class
// archive. Applications that do not exit promptly simply forgo the
// archive.
const cdsTimeout = 90 * time.Second

// CDSDumper produces a shared-class archive at dest for the jar,
// using the trimmed runtime. Create tolerates a failing dumper: the
// bundle is built without the archive.
type CDSDumper func(ctx context.Context, runtimeDir, jar, dest string) error

// dumpSharedArchive is the default CDSDumper: it runs the application
// once under the trimmed runtime with -XX:ArchiveClassesAtExit, which
// records every loaded class into the archive when the process exits.
func dumpSharedArchive(ctx context.Context, runtimeDir, jar, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, cdsTimeout)
	defer cancel()

	java := filepath.Join(runtimeDir, "bin", "java")
	cmd := exec.CommandContext(ctx, java,
		"-XX:ArchiveClassesAtExit="+dest,
		"-Djbundle.cds.dump=true",
		"-jar", jar,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("shared-class archive dump failed: %w", err)
	}
	return nil
}
