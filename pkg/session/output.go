package session

import (
	"io"

	"charm.land/lipgloss/v2"

	"codex_cli/pkg/ui/styles"
)

// trackingWriter remembers the last byte written so the caller can decide
// whether a trailing newline is still needed.
type trackingWriter struct {
	w    io.Writer
	n    int64
	last byte
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if n > 0 {
		t.n += int64(n)
		t.last = p[n-1]
	}
	return n, err
}

func (t *trackingWriter) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// needsNewline reports whether output was written without a final newline.
func (t *trackingWriter) needsNewline() bool {
	return t.n > 0 && t.last != '\n'
}

func printError(w io.Writer, err error) {
	lipgloss.Fprintln(w, styles.ErrorPrefixStyle.Render("[ERROR]"), err.Error())
}

func printWarning(w io.Writer, msg string) {
	lipgloss.Fprintln(w, styles.WarnPrefixStyle.Render("[WARN]"), msg)
}

func printInfo(w io.Writer, msg string) {
	lipgloss.Fprintln(w, styles.InfoPrefixStyle.Render("[INFO]"), msg)
}
