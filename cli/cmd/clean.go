package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/jbundle/jbundle/cli/config"
	"github.com/jbundle/jbundle/jdk"
	"github.com/jbundle/jbundle/log"
)

// CleanCommand returns the clean command.
func CleanCommand() *cli.Command {
	return &cli.Command{
		Name:   "clean",
		Usage:  "Remove all cached JDK distributions",
		Action: cleanAction,
	}
}

func cleanAction(_ *cli.Context) error {
	cacheRoot, err := config.CacheRoot()
	if err != nil {
		return err
	}
	cache := jdk.NewCache(cacheRoot, nil, log.Nop())

	freed, err := cache.Clean()
	if err != nil {
		return fmt.Errorf("cleaning cache: %w", err)
	}
	if freed == 0 {
		fmt.Fprintln(os.Stderr, "Cache is already empty")
		return nil
	}
	fmt.Fprintf(os.Stderr, "Cleaned %s of cached data\n", humanize.Bytes(uint64(freed)))
	return nil
}
