package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/jbundle/jbundle/cli/config"
	"github.com/jbundle/jbundle/jdk"
	"github.com/jbundle/jbundle/log"
	"github.com/jbundle/jbundle/types"
)

// InfoCommand returns the info command.
func InfoCommand() *cli.Command {
	return &cli.Command{
		Name:   "info",
		Usage:  "Show cache contents and the detected platform",
		Action: infoAction,
	}
}

func infoAction(_ *cli.Context) error {
	cacheRoot, err := config.CacheRoot()
	if err != nil {
		return err
	}
	cache := jdk.NewCache(cacheRoot, nil, log.Nop())

	info, err := cache.Info()
	if err != nil {
		return fmt.Errorf("reading cache: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Cache directory: %s\n", info.Root)
	if info.Exists {
		fmt.Fprintf(os.Stderr, "Cache size:      %s\n", humanize.Bytes(uint64(info.TotalSize)))
		fmt.Fprintf(os.Stderr, "Cached items:    %d\n", len(info.Entries))
		for _, entry := range info.Entries {
			fmt.Fprintf(os.Stderr, "  %s (%s)\n", entry.Name, humanize.Bytes(uint64(entry.Size)))
		}
	} else {
		fmt.Fprintln(os.Stderr, "Cache is empty")
	}
	fmt.Fprintf(os.Stderr, "\nCurrent platform: %s\n", types.CurrentTarget())
	return nil
}
