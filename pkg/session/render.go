package session

import (
	"fmt"
	"io"
	"strings"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/glamour"
)

const defaultWrapWidth = 80

// renderMarkdown formats text for the terminal. style is a glamour standard
// style name, or "auto" to pick one from the terminal background.
func renderMarkdown(text, style string, width int) (string, error) {
	if width <= 0 {
		width = defaultWrapWidth
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// copyToClipboard asks the terminal to place text on the system clipboard.
func copyToClipboard(w io.Writer, text string) error {
	_, err := fmt.Fprint(w, osc52.New(text))
	return err
}
