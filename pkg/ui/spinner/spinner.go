// Package spinner draws a single-line progress indicator while a reply is
// being collected.
//
// The indicator runs on its own goroutine and shares exactly one value with
// the caller: a stop flag that is set once and polled every tick. Stop does
// not return until the goroutine has cleared its line, so nothing printed
// afterwards can interleave with a frame.
package spinner

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"codex_cli/pkg/ui/styles"

	"charm.land/bubbles/v2/spinner"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const (
	DefaultInterval = 100 * time.Millisecond
	DefaultLabel    = "Thinking..."
)

// Options configure an Indicator. Zero values take defaults.
type Options struct {
	Label    string
	Interval time.Duration
	Frames   []string
	// Plain disables styling.
	Plain bool
}

// Indicator is a running progress display.
type Indicator struct {
	w       io.Writer
	opts    Options
	stopped atomic.Bool
	done    chan struct{}

	// owned by the run goroutine
	drawn int
}

// Frames returns the default glyph cycle: braille dots in brackets.
func Frames() []string {
	src := spinner.MiniDot.Frames
	frames := make([]string, len(src))
	for i, f := range src {
		frames[i] = "[ " + f + " ]"
	}
	return frames
}

// Start begins drawing to w. A nil w yields an inert indicator whose Stop
// returns immediately.
func Start(ctx context.Context, w io.Writer, opts Options) *Indicator {
	if opts.Label == "" {
		opts.Label = DefaultLabel
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if len(opts.Frames) == 0 {
		opts.Frames = Frames()
	}

	ind := &Indicator{w: w, opts: opts, done: make(chan struct{})}
	if w == nil {
		ind.stopped.Store(true)
		close(ind.done)
		return ind
	}

	go ind.run(ctx)
	return ind
}

// Stop signals the indicator and waits until its line has been cleared.
// Safe to call more than once.
func (i *Indicator) Stop() {
	if i == nil {
		return
	}
	i.stopped.Store(true)
	<-i.done
}

// Done is closed once the indicator has finished and cleared its line.
func (i *Indicator) Done() <-chan struct{} {
	return i.done
}

func (i *Indicator) run(ctx context.Context) {
	defer close(i.done)
	defer i.clear()

	ticker := time.NewTicker(i.opts.Interval)
	defer ticker.Stop()

	for n := 0; !i.stopped.Load(); n++ {
		i.draw(i.opts.Frames[n%len(i.opts.Frames)])
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (i *Indicator) draw(frame string) {
	line := i.render(frame)
	width := runewidth.StringWidth(ansi.Strip(line))
	pad := ""
	if width < i.drawn {
		pad = strings.Repeat(" ", i.drawn-width)
	}
	_, _ = io.WriteString(i.w, "\r"+line+pad)
	if width > i.drawn {
		i.drawn = width
	}
}

func (i *Indicator) clear() {
	if i.drawn == 0 {
		return
	}
	_, _ = io.WriteString(i.w, "\r"+strings.Repeat(" ", i.drawn)+"\r")
	i.drawn = 0
}

func (i *Indicator) render(frame string) string {
	if i.opts.Plain {
		return frame + " " + i.opts.Label
	}
	return styles.SpinnerStyle.Render(frame) + " " + styles.SpinnerLabelStyle.Render(i.opts.Label)
}
