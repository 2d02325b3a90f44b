// Package toolchain adapts external JDK and build tooling behind a
// capability interface: build-system detection, uberjar builds, jar
// shrinking, jdeps module analysis, jlink runtime assembly, and CRaC
// checkpointing. Every capability is subprocess-backed with captured
// output and an explicit timeout, and the interface keeps the pipeline
// testable without a JDK on the host.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jbundle/jbundle/log"
)

// DefaultTimeout bounds every external tool invocation. Expiry is a
// stage failure, never a silent hang.
const DefaultTimeout = 10 * time.Minute

// BuildSystem identifies a recognized project build system.
type BuildSystem string

const (
	Maven  BuildSystem = "maven"
	Gradle BuildSystem = "gradle"
)

// ShrinkResult reports the outcome of a jar shrink. When no reduction
// was achieved, JarPath is the original jar.
type ShrinkResult struct {
	JarPath      string
	OriginalSize int64
	ShrunkSize   int64
}

// Toolchain is the capability surface the pipeline drives. The
// subprocess-backed implementation is Exec; tests substitute stubs.
type Toolchain interface {
	// DetectBuildSystem sniffs the project directory for a recognized
	// build system.
	DetectBuildSystem(dir string) (BuildSystem, error)

	// BuildUberjar invokes the build system and returns the path of
	// the produced application jar.
	BuildUberjar(ctx context.Context, dir string, system BuildSystem) (string, error)

	// ShrinkJar produces a size-reduced jar next to the original.
	ShrinkJar(ctx context.Context, jar string) (*ShrinkResult, error)

	// ResolveJarVersion sniffs the jar's required Java version from
	// its manifest or bytecode. ok is false when undetectable.
	ResolveJarVersion(jar string) (version int, ok bool)

	// AnalyzeModules returns the deduplicated, sorted set of runtime
	// modules the jar requires, via jdeps.
	AnalyzeModules(ctx context.Context, jdkHome, jar string, release int) ([]string, error)

	// CreateRuntime assembles a trimmed runtime containing only the
	// given modules, via jlink. Returns the runtime directory.
	CreateRuntime(ctx context.Context, jdkHome string, modules []string, destDir string) (string, error)

	// CreateCheckpoint runs the application under the trimmed runtime
	// and captures a CRaC checkpoint. Failure here is the pipeline's
	// only recoverable stage error.
	CreateCheckpoint(ctx context.Context, runtimeDir, jar, workDir string) (string, error)
}

// Exec is the subprocess-backed Toolchain.
type Exec struct {
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration

	logger *log.Logger
}

// NewExec creates the subprocess-backed toolchain. A nil logger
// disables diagnostics.
func NewExec(logger *log.Logger) *Exec {
	if logger == nil {
		logger = log.Nop()
	}
	return &Exec{logger: logger}
}

// run executes a tool with captured output under the configured
// timeout. The returned error carries the command and a stderr tail.
func (t *Exec) run(ctx context.Context, dir, name string, args ...string) (string, error) {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	t.logger.Debug("running tool", map[string]any{
		"command": name,
		"args":    args,
	})

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%s timed out after %s", name, timeout)
	}
	if err != nil {
		return "", fmt.Errorf("%s failed: %w%s", name, err, stderrTail(stderr.String()))
	}
	return stdout.String(), nil
}

// stderrTail formats the last lines of captured stderr for error
// context, or nothing when stderr was empty.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return ": " + strings.Join(lines, " / ")
}

// binPath returns the path of a JDK tool under a JDK home.
func binPath(jdkHome, tool string) string {
	return filepath.Join(jdkHome, "bin", tool)
}
