package session

import (
	"bufio"
	"context"
	"io"
)

// readAll reads r to EOF unless ctx is cancelled first. The read keeps
// running in the background after cancellation; the process is about to
// exit in that case.
func readAll(ctx context.Context, r io.Reader) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(r)
		ch <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.data, res.err
	}
}

type lineResult struct {
	line string
	err  error
}

// lineReader turns blocking line reads into ones that can be abandoned
// when the context is cancelled.
type lineReader struct {
	lines chan lineResult
	done  chan struct{}
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		lines: make(chan lineResult),
		done:  make(chan struct{}),
	}
	go lr.run(bufio.NewReader(r))
	return lr
}

func (lr *lineReader) run(br *bufio.Reader) {
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			select {
			case lr.lines <- lineResult{line: line}:
			case <-lr.done:
				return
			}
		}
		if err != nil {
			select {
			case lr.lines <- lineResult{err: err}:
			case <-lr.done:
			}
			return
		}
	}
}

// ReadLine returns the next line including its newline, io.EOF at end of
// input, or the context error.
func (lr *lineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-lr.lines:
		return res.line, res.err
	}
}

// Close lets the reader goroutine exit once its pending read returns.
func (lr *lineReader) Close() {
	close(lr.done)
}
