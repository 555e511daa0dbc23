package main

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"codex_cli/pkg/version"
)

func init() {
	cli.VersionPrinter = printVersion
}

// printVersion prints the version information
func printVersion(cmd *cli.Command) {
	fmt.Fprintln(cmd.Root().Writer, version.Info())
}
