package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"codex_cli/pkg/ai"
	"codex_cli/pkg/config"
	"codex_cli/pkg/logging"
	"codex_cli/pkg/session"
	"codex_cli/pkg/version"
)

// newRootCommand returns the codex command bound to the given streams.
func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "codex",
		Usage:     "Send prompts to an Ollama-compatible generate API",
		ArgsUsage: "[prompt...]",
		Version:   version.Summary(),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "Model to generate with (default from config, " + config.DefaultModel + ")",
			},
			&cli.BoolFlag{
				Name:  "complete",
				Usage: "Wait for the full reply instead of streaming it",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Read prompts line by line until interrupted",
			},
			&cli.BoolFlag{
				Name:  "markdown",
				Usage: "Render complete replies as Markdown",
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy complete replies to the clipboard (OSC52)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.GetConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runRoot(ctx, cmd, stdin, stdout, stderr)
		},
	}
}

func runRoot(ctx context.Context, cmd *cli.Command, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.IsSet("model") {
		cfg.API.Model = cmd.String("model")
	}
	if cmd.Bool("debug") {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.Init(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: logging disabled: %v\n", err)
	}
	logger.Info("codex_start",
		"version", version.Summary(),
		"model", cfg.API.Model,
		"url", cfg.API.URL,
		"interactive", cmd.Bool("interactive"),
		"complete", cmd.Bool("complete"))

	client := ai.NewClient(cfg)
	client.Logger = logger

	interactive := cmd.Bool("interactive")
	stdoutTTY := isTerminal(stdout)

	ctrl := &session.Controller{
		Dispatcher:      client,
		In:              stdin,
		Out:             stdout,
		Err:             stderr,
		StdinIsTerminal: isTerminal(stdin),
		Logger:          logger,
		Options: session.Options{
			Model:         cfg.API.Model,
			Complete:      cmd.Bool("complete"),
			Markdown:      cmd.Bool("markdown"),
			MarkdownStyle: cfg.Display.MarkdownStyle,
			Copy:          cmd.Bool("copy"),
			SpinnerLabel:  cfg.Display.Label,
			Width:         terminalWidth(stdout),
		},
	}
	if stdoutTTY && cfg.Display.SpinnerEnabled() {
		ctrl.Spinner = stdout
	}

	if interactive {
		return ctrl.RunInteractive(ctx)
	}
	return ctrl.RunOnce(ctx, cmd.Args().Slice())
}

type fdHolder interface {
	Fd() uintptr
}

func isTerminal(v any) bool {
	f, ok := v.(fdHolder)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(v any) int {
	f, ok := v.(fdHolder)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		slog.Debug("terminal_size_unavailable", "error", err)
		return 0
	}
	return width
}
