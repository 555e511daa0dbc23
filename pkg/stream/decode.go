// Package stream consumes newline-delimited JSON generate replies.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxLineSize bounds a single NDJSON record.
const MaxLineSize = 1 << 20

// Chunk is one decoded record of the reply.
type Chunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// StreamError is an error record sent by the server mid-stream.
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error: %s", e.Message)
}

// Stats summarizes one pass over a reply.
type Stats struct {
	Lines     int
	Fragments int
	Warnings  int
	Done      bool
}

// WarnFunc receives each malformed line. It must not block.
type WarnFunc func(line string, err error)

// ErrLineTooLong is reported for a record longer than MaxLineSize.
var ErrLineTooLong = errors.New("line exceeds maximum size")

var errNotObject = errors.New("record is not a JSON object")

// previewSize is how much of an oversized line is passed to the warning.
const previewSize = 80

// DecodeLine parses a single record. Non-object JSON is rejected.
func DecodeLine(line []byte) (Chunk, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Chunk{}, errNotObject
	}
	var c Chunk
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return Chunk{}, err
	}
	return c, nil
}

// lineReader yields newline-terminated records. A record longer than
// MaxLineSize is drained and reported as too long; memory stays bounded.
type lineReader struct {
	br  *bufio.Reader
	buf []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, 64*1024)}
}

// next returns the next line without its terminator. tooLong is set when
// the line was dropped; line then holds its first bytes. err is io.EOF
// once input ends, possibly alongside a final unterminated line.
func (lr *lineReader) next() (line []byte, tooLong bool, err error) {
	lr.buf = lr.buf[:0]
	for {
		frag, rerr := lr.br.ReadSlice('\n')
		if !tooLong {
			if len(lr.buf)+len(frag) > MaxLineSize+1 {
				tooLong = true
				keep := min(previewSize, len(lr.buf)+len(frag))
				lr.buf = append(lr.buf, frag...)[:keep]
			} else {
				lr.buf = append(lr.buf, frag...)
			}
		}
		if rerr == bufio.ErrBufferFull {
			continue
		}
		return bytes.TrimRight(lr.buf, "\r\n"), tooLong, rerr
	}
}

// each calls fn with every well-formed, non-empty record of r, in order.
// Malformed and oversized lines are counted and reported to warn. The
// context is checked between lines.
func each(ctx context.Context, r io.Reader, warn WarnFunc, fn func(Chunk) error) (Stats, error) {
	var stats Stats
	lines := newLineReader(r)

	for {
		line, tooLong, readErr := lines.next()
		if readErr != nil && readErr != io.EOF {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return stats, ctxErr
			}
			return stats, fmt.Errorf("failed to read response: %w", readErr)
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if tooLong || len(bytes.TrimSpace(line)) > 0 {
			stats.Lines++
			if err := handle(line, tooLong, &stats, warn, fn); err != nil {
				return stats, err
			}
		}

		if readErr == io.EOF {
			return stats, nil
		}
	}
}

func handle(line []byte, tooLong bool, stats *Stats, warn WarnFunc, fn func(Chunk) error) error {
	var chunk Chunk
	err := ErrLineTooLong
	if !tooLong {
		chunk, err = DecodeLine(line)
	}
	if err != nil {
		stats.Warnings++
		if warn != nil {
			text := string(line)
			if tooLong {
				text += "..."
			}
			warn(text, err)
		}
		return nil
	}

	if chunk.Error != "" {
		return &StreamError{Message: chunk.Error}
	}
	if chunk.Response != "" {
		stats.Fragments++
		if err := fn(chunk); err != nil {
			return err
		}
	}
	if chunk.Done {
		stats.Done = true
	}
	return nil
}
