package toolchain

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// BuildUberjar invokes the detected build system in dir and locates
// the produced application jar. Wrapper scripts (mvnw, gradlew) are
// preferred over globally installed tools when present.
func (t *Exec) BuildUberjar(ctx context.Context, dir string, system BuildSystem) (string, error) {
	var name string
	var args []string
	var outDir string

	switch system {
	case Maven:
		name = wrapperOr(dir, "mvnw", "mvn")
		args = []string{"-q", "-DskipTests", "package"}
		outDir = filepath.Join(dir, "target")
	case Gradle:
		name = wrapperOr(dir, "gradlew", "gradle")
		args = []string{"build", "-x", "test"}
		outDir = filepath.Join(dir, "build", "libs")
	default:
		return "", fmt.Errorf("unsupported build system: %s", system)
	}

	if _, err := t.run(ctx, dir, name, args...); err != nil {
		return "", fmt.Errorf("building uberjar: %w", err)
	}

	jar, err := findApplicationJar(outDir)
	if err != nil {
		return "", fmt.Errorf("build succeeded but no jar found: %w", err)
	}
	return jar, nil
}

// wrapperOr returns the project-local wrapper script when executable,
// the global tool name otherwise.
func wrapperOr(dir, wrapper, global string) string {
	path := filepath.Join(dir, wrapper)
	if info, err := os.Stat(path); err == nil && info.Mode()&0o111 != 0 {
		return "./" + wrapper
	}
	return global
}

// findApplicationJar picks the largest jar in dir, skipping sources,
// javadoc, and the thin original-* jars some shade plugins leave
// behind. Largest is the pragmatic heuristic for "the fat one".
func findApplicationJar(dir string) (string, error) {
	var best string
	var bestSize int64

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".jar") {
			return nil
		}
		name := d.Name()
		if strings.HasSuffix(name, "-sources.jar") ||
			strings.HasSuffix(name, "-javadoc.jar") ||
			strings.HasPrefix(name, "original-") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > bestSize {
			best = path
			bestSize = info.Size()
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if best == "" {
		return "", fmt.Errorf("no application jar under %s", dir)
	}
	return best, nil
}
