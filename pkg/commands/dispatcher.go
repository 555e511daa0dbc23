package commands

import (
	"sort"
	"strings"
)

// Result represents the result of a command execution
type Result struct {
	Title   string
	Content string
	Error   error
	// Model is non-empty when the command switched models.
	Model string
	// Quit ends the interactive session.
	Quit bool
}

// Handler is the interface for command handlers
type Handler interface {
	Execute(ctx *Context) *Result
	Name() string
	Description() string
}

// Dispatcher routes commands to their handlers
type Dispatcher struct {
	handlers map[string]Handler
	aliases  map[string]string
}

// NewDispatcher creates a new command dispatcher
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
		aliases:  map[string]string{"/quit": "/exit", "/?": "/help"},
	}

	d.Register(&ModelHandler{})
	d.Register(&ModelsHandler{})
	d.Register(&ExitHandler{})
	d.Register(&HelpHandler{dispatcher: d})

	return d
}

// Register adds a handler to the dispatcher
func (d *Dispatcher) Register(h Handler) {
	d.handlers[h.Name()] = h
}

// IsCommand reports whether an input line should be routed here.
func IsCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "/")
}

// Dispatch executes the command named by the first word of line
func (d *Dispatcher) Dispatch(line string, ctx *Context) *Result {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return &Result{Title: "Error", Content: "Empty command"}
	}

	name := strings.ToLower(fields[0])
	handler, ok := d.GetHandler(name)
	if !ok {
		return &Result{
			Title:   "Error",
			Content: "Unknown command: " + fields[0] + " (try /help)",
		}
	}

	return handler.Execute(ctx)
}

// GetHandler returns a handler by name or alias
func (d *Dispatcher) GetHandler(cmdName string) (Handler, bool) {
	if target, ok := d.aliases[cmdName]; ok {
		cmdName = target
	}
	h, ok := d.handlers[cmdName]
	return h, ok
}

// Handlers returns every registered handler sorted by name
func (d *Dispatcher) Handlers() []Handler {
	out := make([]Handler, 0, len(d.handlers))
	for _, h := range d.handlers {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
