// Package pipeline drives a build end to end: archive acquisition,
// optional shrink, runtime acquisition, module analysis, runtime
// minimization, optional checkpoint, and packing. The stage list is
// computed up front from the resolved configuration, every external
// capability sits behind an interface, and only the checkpoint stage
// is allowed to fail without aborting the build.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jbundle/jbundle/cli/config"
	"github.com/jbundle/jbundle/jdk"
	"github.com/jbundle/jbundle/log"
	"github.com/jbundle/jbundle/pack"
	"github.com/jbundle/jbundle/progress"
	"github.com/jbundle/jbundle/toolchain"
	"github.com/jbundle/jbundle/types"
)

// RuntimeProvider acquires a JDK for a (version, target) pair,
// returning its installation directory. The cached implementation is
// jdk.Cache.
type RuntimeProvider interface {
	Ensure(ctx context.Context, version int, target types.Target) (string, error)
}

// Options wires the pipeline's collaborators.
type Options struct {
	Config    *config.BuildConfig
	Toolchain toolchain.Toolchain
	Runtimes  RuntimeProvider
	Logger    *log.Logger

	// NewProgress overrides the TTY-detected progress renderer
	// (tests). Nil selects progress.New.
	NewProgress func(total int) *progress.Pipeline
	// Pack overrides the artifact builder (tests). Nil selects
	// pack.Create.
	Pack func(ctx context.Context, opts *pack.Options) (*pack.Result, error)
}

// Run executes the full build pipeline and returns the packing
// result. Every error carries the failing stage's context; the
// output path may be absent or partial after a fatal failure.
func Run(ctx context.Context, opts *Options) (*pack.Result, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}
	newProgress := opts.NewProgress
	if newProgress == nil {
		newProgress = progress.New
	}
	packFn := opts.Pack
	if packFn == nil {
		packFn = pack.Create
	}

	jarInput := strings.EqualFold(filepath.Ext(cfg.Input), ".jar")
	prog := newProgress(StageCount(jarInput, cfg.Shrink, cfg.CRaC))
	defer prog.Close()

	jar, err := acquireJar(ctx, opts, prog, jarInput)
	if err != nil {
		return nil, err
	}

	if cfg.Shrink {
		h := prog.StartStage(StageShrink)
		res, err := opts.Toolchain.ShrinkJar(ctx, jar)
		if err != nil {
			return nil, fmt.Errorf("shrinking jar: %w", err)
		}
		if res.ShrunkSize < res.OriginalSize {
			pct := float64(res.OriginalSize-res.ShrunkSize) / float64(res.OriginalSize) * 100
			prog.FinishStage(h, fmt.Sprintf("%s -> %s (-%.0f%%)",
				humanize.Bytes(uint64(res.OriginalSize)),
				humanize.Bytes(uint64(res.ShrunkSize)), pct))
		} else {
			prog.FinishStage(h, "no reduction (using original)")
		}
		jar = res.JarPath
	}

	// Version resolution is inline, not a numbered stage: the
	// configured version is kept when explicitly requested, otherwise
	// the archive's own requirement wins when detectable.
	version := cfg.JavaVersion
	if !cfg.JavaVersionExplicit {
		if detected, ok := opts.Toolchain.ResolveJarVersion(jar); ok {
			logger.Stage(StageFetchJDK).Debug("resolved runtime version from archive", map[string]any{
				"version": detected,
			})
			version = detected
		}
	}

	h := prog.StartStage(fmt.Sprintf("%s %d", StageFetchJDK, version))
	jdkHome, err := opts.Runtimes.Ensure(ctx, version, cfg.Target)
	if err != nil {
		return nil, err
	}
	prog.FinishStage(h, "ready")

	scratch, err := os.MkdirTemp("", "jbundle-build-")
	if err != nil {
		return nil, fmt.Errorf("creating build scratch dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	h = prog.StartStage(StageAnalyze)
	modules, err := opts.Toolchain.AnalyzeModules(ctx, jdkHome, jar, version)
	if err != nil {
		return nil, fmt.Errorf("analyzing module dependencies: %w", err)
	}
	prog.FinishStage(h, fmt.Sprintf("%d modules", len(modules)))

	h = prog.StartStage(StageLink + " (jlink)")
	runtimeDir, err := opts.Toolchain.CreateRuntime(ctx, jdkHome, modules, scratch)
	if err != nil {
		return nil, fmt.Errorf("creating minimal runtime: %w", err)
	}
	prog.FinishStage(h, "done")

	cracPath := ""
	if cfg.CRaC {
		h = prog.StartStage(StageCheckpoint)
		cp, err := opts.Toolchain.CreateCheckpoint(ctx, runtimeDir, jar, scratch)
		if err != nil {
			// The sole recoverable stage: the bundle is built
			// without checkpoint data.
			prog.FinishStage(h, fmt.Sprintf("skipped (%v)", err))
			logger.Stage(StageCheckpoint).Warn("checkpoint skipped", map[string]any{"error": err.Error()})
		} else {
			prog.FinishStage(h, fmt.Sprintf("%s checkpoint",
				humanize.Bytes(uint64(jdk.DirSize(cp)))))
			cracPath = cp
		}
	}

	h = prog.StartStage(StagePack)
	res, err := packFn(ctx, &pack.Options{
		RuntimeDir:    runtimeDir,
		JarPath:       jar,
		CRaCPath:      cracPath,
		Output:        cfg.Output,
		JVMArgs:       cfg.JVMArgs,
		Profile:       cfg.Profile,
		AppCDS:        cfg.AppCDS,
		JavaVersion:   version,
		CompactBanner: cfg.CompactBanner,
		Logger:        logger.Stage(StagePack),
	})
	if err != nil {
		return nil, fmt.Errorf("packing binary: %w", err)
	}
	prog.FinishStage(h, fmt.Sprintf("%s (%s)", res.Path, humanize.Bytes(uint64(res.Size))))

	prog.Finish(res.Path)
	return res, nil
}

// acquireJar runs the archive-acquisition stages: a prebuilt jar is
// one stage, a project build is detect plus build.
func acquireJar(ctx context.Context, opts *Options, prog *progress.Pipeline, jarInput bool) (string, error) {
	cfg := opts.Config

	if jarInput {
		h := prog.StartStage(StagePrebuiltJar)
		prog.FinishStage(h, "JAR: "+cfg.Input)
		return cfg.Input, nil
	}

	h := prog.StartStage(StageDetect)
	system, err := opts.Toolchain.DetectBuildSystem(cfg.Input)
	if err != nil {
		return "", fmt.Errorf("detecting build system: %w", err)
	}
	prog.FinishStage(h, string(system))

	h = prog.StartStage(fmt.Sprintf("%s (%s)", StageBuild, toolchain.BuildCommandDescription(system)))
	jar, err := opts.Toolchain.BuildUberjar(ctx, cfg.Input, system)
	if err != nil {
		return "", fmt.Errorf("building uberjar: %w", err)
	}
	prog.FinishStage(h, filepath.Base(jar))
	return jar, nil
}
