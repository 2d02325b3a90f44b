package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// checkpointTimeout bounds the warmup run. CRaC checkpoints either
// complete quickly or the platform lacks support; waiting longer only
// delays the skip notice.
const checkpointTimeout = 2 * time.Minute

// CreateCheckpoint warms the application under the trimmed runtime and
// captures a CRaC checkpoint into workDir/crac. Requires a CRaC-enabled
// runtime; on stock runtimes the JVM rejects the flag and the error
// propagates to the stage boundary, where it is downgraded to a skip.
func (t *Exec) CreateCheckpoint(ctx context.Context, runtimeDir, jar, workDir string) (string, error) {
	checkpointDir := filepath.Join(workDir, "crac")
	if err := os.MkdirAll(checkpointDir, 0o755); err != nil {
		return "", fmt.Errorf("creating checkpoint dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, checkpointTimeout)
	defer cancel()

	// jcmd-triggered checkpoints need a coordinated warmup window;
	// -XX:CRaCCheckpointTo with CRaCEngine=warp checkpoints on the
	// engine's own signal and exits.
	java := binPath(runtimeDir, "java")
	if _, err := t.run(ctx, "",
		java,
		"-XX:CRaCCheckpointTo="+checkpointDir,
		"-XX:CRaCEngine=warp",
		"-jar", jar,
	); err != nil {
		return "", fmt.Errorf("creating checkpoint: %w", err)
	}

	entries, err := os.ReadDir(checkpointDir)
	if err != nil {
		return "", fmt.Errorf("creating checkpoint: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("creating checkpoint: runtime produced no checkpoint data")
	}
	return checkpointDir, nil
}
