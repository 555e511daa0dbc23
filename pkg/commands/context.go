package commands

import (
	"strings"

	"codex_cli/pkg/ai"
)

// Context carries the interactive session state a command may read or change.
type Context struct {
	Model string
	Args  []string
	// Models lists the server's models; nil when listing is unavailable.
	Models func() (cache ai.ModelCache, stale bool, err error)
}

// NewContext creates a command context for the given model and raw input line.
func NewContext(model, line string) *Context {
	fields := strings.Fields(line)
	var args []string
	if len(fields) > 1 {
		args = fields[1:]
	}
	return &Context{Model: model, Args: args}
}
