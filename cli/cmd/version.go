package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jbundle/jbundle/types"
)

// VersionCommand returns the version command.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(_ *cli.Context) error {
			fmt.Fprintf(os.Stdout, "jbundle %s (commit: %s)\n", types.Version, commit)
			return nil
		},
	}
}
