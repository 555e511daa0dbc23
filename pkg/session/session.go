// Package session drives one-shot and interactive prompt exchanges.
//
// Every blocking step (reading input, dispatching, draining the reply,
// waiting on the progress indicator) takes the caller's context. When that
// context is cancelled the controller unwinds, prints a single notice and
// reports success, so an interrupted session exits cleanly.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"charm.land/lipgloss/v2"

	"codex_cli/pkg/ai"
	"codex_cli/pkg/commands"
	"codex_cli/pkg/stream"
	"codex_cli/pkg/ui/spinner"
	"codex_cli/pkg/ui/styles"
)

// Dispatcher sends one prompt and returns the live reply.
type Dispatcher interface {
	Dispatch(ctx context.Context, req ai.PromptRequest) (*ai.Response, error)
}

// ModelLister is implemented by dispatchers that can list server models.
type ModelLister interface {
	CachedModels(ctx context.Context, path string) (ai.ModelCache, bool, error)
}

// Options select how replies are fetched and shown.
type Options struct {
	Model string
	// Complete waits for the whole reply behind a progress indicator
	// instead of printing fragments as they arrive.
	Complete bool
	// Markdown renders complete replies with glamour.
	Markdown      bool
	MarkdownStyle string
	// Copy sends complete replies to the clipboard over OSC52.
	Copy         bool
	SpinnerLabel string
	// Width is the wrap width for Markdown; zero means 80.
	Width int
}

// Controller owns the terminal streams for a run.
type Controller struct {
	Dispatcher Dispatcher
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
	// StdinIsTerminal disables reading piped input in one-shot mode.
	StdinIsTerminal bool
	// Spinner is where the progress indicator draws; nil disables it.
	Spinner io.Writer
	// ModelCachePath is where /models keeps its last listing.
	ModelCachePath string
	Logger         *slog.Logger
	Options
}

// RunOnce sends a single prompt built from piped input and args.
func (c *Controller) RunOnce(ctx context.Context, args []string) error {
	var piped string
	if !c.StdinIsTerminal && c.In != nil {
		data, err := readAll(ctx, c.In)
		if err != nil {
			if c.interrupted(ctx) {
				return nil
			}
			return fmt.Errorf("failed to read piped input: %w", err)
		}
		piped = string(data)
	}

	prompt, err := BuildPrompt(piped, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if err := c.turn(ctx, prompt, c.Model, c.Complete); err != nil {
		if c.interrupted(ctx) {
			return nil
		}
		return err
	}
	return nil
}

// RunInteractive reads prompts line by line until interrupted or input ends.
// Each line is an independent streamed request. A failed turn is reported
// and the loop continues.
func (c *Controller) RunInteractive(ctx context.Context) error {
	lines := newLineReader(c.In)
	defer lines.Close()

	cmds := commands.NewDispatcher()
	model := c.Model

	c.logger().Info("session_interactive_start", "model", model)
	for {
		lipgloss.Fprint(c.Out, "\n"+styles.PromptStyle.Render(">>>")+" ")

		line, err := lines.ReadLine(ctx)
		if err != nil {
			if c.interrupted(ctx) {
				return nil
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.Out)
				c.logger().Info("session_interactive_eof")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		if commands.IsCommand(text) {
			result := cmds.Dispatch(text, c.commandContext(ctx, model, text))
			if result.Quit {
				c.logger().Info("session_interactive_exit")
				return nil
			}
			if result.Model != "" {
				model = result.Model
				c.logger().Info("session_model_switched", "model", model)
			}
			if result.Error != nil {
				c.logger().Warn("session_command_failed", "command", text, "error", result.Error)
				printError(c.Err, result.Error)
				continue
			}
			if result.Content != "" {
				fmt.Fprintln(c.Out, result.Content)
			}
			continue
		}

		if err := c.turn(ctx, text, model, false); err != nil {
			if c.interrupted(ctx) {
				return nil
			}
			c.logger().Warn("session_turn_failed", "error", err)
			printError(c.Err, err)
		}
	}
}

func (c *Controller) commandContext(ctx context.Context, model, line string) *commands.Context {
	cmdCtx := commands.NewContext(model, line)
	if lister, ok := c.Dispatcher.(ModelLister); ok {
		path := c.ModelCachePath
		if path == "" {
			path = ai.DefaultModelCachePath()
		}
		cmdCtx.Models = func() (ai.ModelCache, bool, error) {
			return lister.CachedModels(ctx, path)
		}
	}
	return cmdCtx
}

// turn dispatches one prompt and consumes its reply.
func (c *Controller) turn(ctx context.Context, text, model string, complete bool) error {
	logger := c.logger()

	var ind *spinner.Indicator
	if complete {
		ind = spinner.Start(ctx, c.Spinner, spinner.Options{Label: c.SpinnerLabel})
		defer ind.Stop()
	}

	resp, err := c.Dispatcher.Dispatch(ctx, ai.PromptRequest{
		Text:   text,
		Model:  model,
		Stream: !complete,
	})
	if err != nil {
		return err
	}
	defer resp.Close()

	logger = logger.With("request_id", resp.RequestID)

	if !complete {
		out := &trackingWriter{w: c.Out}
		stats, err := stream.Incremental(ctx, resp.Body, out, c.warnAfter(out))
		if out.needsNewline() {
			fmt.Fprintln(c.Out)
		}
		logger.Info("session_turn_done", "mode", "stream", "fragments", stats.Fragments, "warnings", stats.Warnings, "done", stats.Done)
		return err
	}

	reply, stats, err := stream.Buffered(ctx, resp.Body, c.warnAfter(nil))
	ind.Stop()
	logger.Info("session_turn_done", "mode", "complete", "fragments", stats.Fragments, "warnings", stats.Warnings, "done", stats.Done)
	if err != nil {
		return err
	}
	return c.present(reply)
}

// present prints a complete reply exactly once.
func (c *Controller) present(text string) error {
	if text == "" {
		printInfo(c.Out, "No response")
		return nil
	}

	out := text
	if c.Markdown {
		rendered, err := renderMarkdown(text, c.MarkdownStyle, c.Width)
		if err != nil {
			c.logger().Warn("session_markdown_failed", "error", err)
		} else {
			out = rendered
		}
	}

	if _, err := fmt.Fprintln(c.Out, strings.TrimRight(out, "\n")); err != nil {
		return err
	}

	if c.Copy {
		if err := copyToClipboard(c.Err, text); err != nil {
			c.logger().Warn("session_copy_failed", "error", err)
		}
	}
	return nil
}

// warnAfter reports malformed lines. When out has left a fragment without
// a trailing newline, the warning starts on a fresh line.
func (c *Controller) warnAfter(out *trackingWriter) stream.WarnFunc {
	brokeAt := int64(-1)
	return func(line string, err error) {
		c.logger().Warn("stream_decode_warning", "line", line, "error", err)
		if out != nil && out.needsNewline() && out.n != brokeAt {
			fmt.Fprintln(c.Err)
			brokeAt = out.n
		}
		printWarning(c.Err, "Skipping malformed line: "+line)
	}
}

// interrupted reports whether ctx was cancelled and, if so, prints the
// notice. Callers return straight after, so it prints once per run.
func (c *Controller) interrupted(ctx context.Context) bool {
	if ctx.Err() == nil {
		return false
	}
	c.logger().Info("session_interrupted", "cause", context.Cause(ctx))
	fmt.Fprintln(c.Out)
	printInfo(c.Out, "Interrupted by user.")
	return true
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
