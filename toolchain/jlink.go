package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// CreateRuntime assembles a trimmed runtime under destDir/runtime via
// jlink. The module list is re-sorted and flag order is fixed so that
// identical (JDK, modules) inputs produce byte-equivalent runtimes.
func (t *Exec) CreateRuntime(ctx context.Context, jdkHome string, modules []string, destDir string) (string, error) {
	if len(modules) == 0 {
		return "", fmt.Errorf("creating runtime: empty module list")
	}

	sorted := make([]string, len(modules))
	copy(sorted, modules)
	sort.Strings(sorted)

	out := filepath.Join(destDir, "runtime")
	args := []string{
		"--add-modules", strings.Join(sorted, ","),
		"--strip-debug",
		"--no-man-pages",
		"--no-header-files",
		"--compress", "zip-6",
		"--output", out,
	}

	if _, err := t.run(ctx, "", binPath(jdkHome, "jlink"), args...); err != nil {
		return "", fmt.Errorf("creating runtime: %w", err)
	}
	return out, nil
}
