package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"charm.land/lipgloss/v2"

	"codex_cli/pkg/config"
	"codex_cli/pkg/ui/styles"
)

func main() {
	for _, path := range config.DotenvPaths() {
		if err := config.LoadDotenv(path); err != nil {
			slog.Warn("failed to load .env", "path", path, "error", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), shutdownSignals...)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes the command line and maps the outcome to an exit status.
// An interrupted session is not a failure.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdin, stdout, stderr)
	if err := cmd.Run(ctx, args); err != nil {
		lipgloss.Fprintln(stderr, styles.ErrorPrefixStyle.Render("[ERROR]"), err.Error())
		return 1
	}
	return 0
}
