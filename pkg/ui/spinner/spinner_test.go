package spinner

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// recorder is a goroutine-safe writer that signals the first write.
type recorder struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	writes int
	first  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{first: make(chan struct{})}
}

func (r *recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writes == 0 {
		close(r.first)
	}
	r.writes++
	return r.buf.Write(p)
}

func (r *recorder) snapshot() (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String(), r.writes
}

func waitFirst(t *testing.T, r *recorder) {
	t.Helper()
	select {
	case <-r.first:
	case <-time.After(2 * time.Second):
		t.Fatal("indicator never drew a frame")
	}
}

func TestFrames(t *testing.T) {
	frames := Frames()
	if len(frames) != 10 {
		t.Fatalf("Expected 10 frames, got %d", len(frames))
	}
	if frames[0] != "[ ⠋ ]" || frames[9] != "[ ⠏ ]" {
		t.Errorf("Unexpected frames %q", frames)
	}
}

func TestIndicator_DrawsAndClears(t *testing.T) {
	rec := newRecorder()
	ind := Start(context.Background(), rec, Options{Interval: 5 * time.Millisecond, Plain: true})
	waitFirst(t, rec)
	ind.Stop()

	out, _ := rec.snapshot()
	if !strings.HasPrefix(out, "\r[ ⠋ ] Thinking...") {
		t.Errorf("Expected first frame at start of output, got %q", out)
	}

	width := len("[ ] Thinking...") + 2 // glyph is one column, plus its space
	wantTail := "\r" + strings.Repeat(" ", width) + "\r"
	if !strings.HasSuffix(out, wantTail) {
		t.Errorf("Expected output to end with a blank line of width %d, got %q", width, out)
	}
}

func TestIndicator_StyledFrameClearsByDisplayWidth(t *testing.T) {
	rec := newRecorder()
	ind := Start(context.Background(), rec, Options{Interval: 5 * time.Millisecond, Label: "Waiting"})
	waitFirst(t, rec)
	ind.Stop()

	out, _ := rec.snapshot()
	if !strings.Contains(ansi.Strip(out), "[ ⠋ ] Waiting") {
		t.Errorf("Expected styled frame to contain label, got %q", out)
	}
	wantTail := "\r" + strings.Repeat(" ", len("[ x ] Waiting")) + "\r"
	if !strings.HasSuffix(out, wantTail) {
		t.Errorf("Expected clear sized by visible width, got %q", out)
	}
}

func TestIndicator_NoWritesAfterStop(t *testing.T) {
	rec := newRecorder()
	ind := Start(context.Background(), rec, Options{Interval: time.Millisecond, Plain: true})
	waitFirst(t, rec)
	ind.Stop()

	_, before := rec.snapshot()
	time.Sleep(20 * time.Millisecond)
	_, after := rec.snapshot()

	if before != after {
		t.Errorf("Indicator wrote after Stop returned: %d -> %d writes", before, after)
	}
}

func TestIndicator_StopIsIdempotent(t *testing.T) {
	rec := newRecorder()
	ind := Start(context.Background(), rec, Options{Interval: time.Millisecond, Plain: true})
	ind.Stop()
	ind.Stop()

	select {
	case <-ind.Done():
	default:
		t.Error("Expected Done to be closed after Stop")
	}
}

func TestIndicator_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := newRecorder()
	ind := Start(ctx, rec, Options{Interval: time.Hour, Plain: true})
	waitFirst(t, rec)

	cancel()
	select {
	case <-ind.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Indicator did not stop on context cancellation")
	}

	out, _ := rec.snapshot()
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("Expected line to be cleared on cancellation, got %q", out)
	}
	ind.Stop()
}

func TestIndicator_NilWriterIsInert(t *testing.T) {
	ind := Start(context.Background(), nil, Options{})

	done := make(chan struct{})
	go func() {
		ind.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on inert indicator")
	}
}
