package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/jbundle/jbundle/cli/config"
	"github.com/jbundle/jbundle/iox"
	"github.com/jbundle/jbundle/jdk"
	"github.com/jbundle/jbundle/log"
	"github.com/jbundle/jbundle/pipeline"
	"github.com/jbundle/jbundle/toolchain"
)

// BuildCommand returns the build command, the only command that
// executes work.
func BuildCommand() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Bundle a Java project or jar into a self-contained executable",
		ArgsUsage: "<input>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output path for the bundled executable",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "java-version",
				Usage: "Java version to bundle (default: detected from the jar, else 21)",
			},
			&cli.StringFlag{
				Name:  "target",
				Usage: "Target platform: linux-x64, linux-aarch64, macos-x64, macos-aarch64",
			},
			&cli.StringSliceFlag{
				Name:  "jvm-arg",
				Usage: "Extra JVM argument baked into the launcher (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "shrink",
				Usage: "Shrink the jar before bundling",
			},
			&cli.StringFlag{
				Name:  "profile",
				Usage: "Runtime profile: server or native",
			},
			&cli.BoolFlag{
				Name:  "no-appcds",
				Usage: "Disable the shared-class archive",
			},
			&cli.BoolFlag{
				Name:  "crac",
				Usage: "Capture a CRaC checkpoint for instant startup",
			},
			&cli.BoolFlag{
				Name:  "compact-banner",
				Usage: "Use the one-line launch banner",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable verbose diagnostics",
			},
		},
		Action: buildAction,
	}
}

func buildAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: jbundle build <input> --output <path>", 1)
	}
	input := c.Args().First()
	if abs, err := filepath.Abs(input); err == nil {
		input = abs
	}

	// The project file lives next to a project input; for a jar
	// input it is read from the jar's directory.
	projectDir := input
	if strings.EqualFold(filepath.Ext(input), ".jar") {
		projectDir = filepath.Dir(input)
	}
	project, err := config.LoadProject(projectDir)
	if err != nil {
		return fmt.Errorf("loading %s: %w", config.ProjectFileName, err)
	}

	cfg, err := config.Resolve(config.Flags{
		Input:         input,
		Output:        c.String("output"),
		JavaVersion:   c.Int("java-version"),
		Target:        c.String("target"),
		JVMArgs:       c.StringSlice("jvm-arg"),
		Shrink:        c.Bool("shrink"),
		Profile:       c.String("profile"),
		NoAppCDS:      c.Bool("no-appcds"),
		CRaC:          c.Bool("crac"),
		CompactBanner: c.Bool("compact-banner"),
		Verbose:       c.Bool("verbose"),
	}, project)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), 1)
	}

	logger := log.New(cfg.Verbose)
	defer iox.DiscardErr(logger.Sync)

	cacheRoot, err := config.CacheRoot()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	_, err = pipeline.Run(ctx, &pipeline.Options{
		Config:    cfg,
		Toolchain: toolchain.NewExec(logger),
		Runtimes:  jdk.NewCache(cacheRoot, &jdk.HTTPFetcher{}, logger),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}
