package stream

import (
	"context"
	"io"
	"strings"
)

type flusher interface {
	Flush() error
}

// Incremental writes each fragment to w as soon as it is decoded.
func Incremental(ctx context.Context, r io.Reader, w io.Writer, warn WarnFunc) (Stats, error) {
	f, canFlush := w.(flusher)
	return each(ctx, r, warn, func(c Chunk) error {
		if _, err := io.WriteString(w, c.Response); err != nil {
			return err
		}
		if canFlush {
			return f.Flush()
		}
		return nil
	})
}

// Buffered collects every fragment and returns the concatenation.
// On error the text gathered so far is still returned.
func Buffered(ctx context.Context, r io.Reader, warn WarnFunc) (string, Stats, error) {
	var sb strings.Builder
	stats, err := each(ctx, r, warn, func(c Chunk) error {
		sb.WriteString(c.Response)
		return nil
	})
	return sb.String(), stats, err
}
