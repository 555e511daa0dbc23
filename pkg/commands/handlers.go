package commands

import (
	"fmt"
	"strings"
)

// ModelHandler handles the /model command
type ModelHandler struct{}

func (h *ModelHandler) Name() string        { return "/model" }
func (h *ModelHandler) Description() string { return "Show or switch the model used for next prompts" }

func (h *ModelHandler) Execute(ctx *Context) *Result {
	if len(ctx.Args) == 0 {
		return &Result{
			Title:   "Model",
			Content: "Current model: " + ctx.Model,
		}
	}

	model := ctx.Args[0]
	return &Result{
		Title:   "Model",
		Content: "Switched model to " + model,
		Model:   model,
	}
}

// ModelsHandler handles the /models command
type ModelsHandler struct{}

func (h *ModelsHandler) Name() string        { return "/models" }
func (h *ModelsHandler) Description() string { return "List models available on the server" }

func (h *ModelsHandler) Execute(ctx *Context) *Result {
	if ctx.Models == nil {
		return &Result{Title: "Models", Content: "Model listing is not available"}
	}

	cache, stale, err := ctx.Models()
	if err != nil {
		err = fmt.Errorf("failed to list models: %w", err)
		return &Result{
			Title:   "Models",
			Content: err.Error(),
			Error:   err,
		}
	}
	if len(cache.Models) == 0 {
		return &Result{Title: "Models", Content: "No models available"}
	}

	var sb strings.Builder
	for _, m := range cache.Models {
		marker := " "
		if m.Name == ctx.Model {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %s", marker, m.Name)
		if detail := modelDetail(m.Details.Family, m.Details.ParameterSize, m.Details.QuantizationLevel); detail != "" {
			fmt.Fprintf(&sb, " (%s)", detail)
		}
		sb.WriteString("\n")
	}
	if stale {
		fmt.Fprintf(&sb, "(cached %s)\n", cache.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}

	return &Result{
		Title:   "Models",
		Content: strings.TrimRight(sb.String(), "\n"),
	}
}

func modelDetail(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// ExitHandler handles the /exit command
type ExitHandler struct{}

func (h *ExitHandler) Name() string        { return "/exit" }
func (h *ExitHandler) Description() string { return "Leave the chat" }

func (h *ExitHandler) Execute(ctx *Context) *Result {
	return &Result{Title: "Exit", Quit: true}
}

// HelpHandler handles the /help command
type HelpHandler struct {
	dispatcher *Dispatcher
}

func (h *HelpHandler) Name() string        { return "/help" }
func (h *HelpHandler) Description() string { return "Show available commands" }

func (h *HelpHandler) Execute(ctx *Context) *Result {
	var sb strings.Builder
	sb.WriteString("Available commands:\n")
	for _, handler := range h.dispatcher.Handlers() {
		fmt.Fprintf(&sb, "  %-8s %s\n", handler.Name(), handler.Description())
	}
	sb.WriteString("\nAnything else is sent as a prompt. Press Ctrl+C to quit.")

	return &Result{
		Title:   "Help",
		Content: sb.String(),
	}
}
