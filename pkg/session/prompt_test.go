package session

import (
	"errors"
	"testing"

	"codex_cli/pkg/ai"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		arg   string
		want  string
	}{
		{name: "arg only", arg: "  explain  ", want: "explain"},
		{name: "stdin only", stdin: "log line\n", want: "log line"},
		{name: "both", stdin: "ctx\n", arg: "q", want: "ctx\n\nq"},
		{name: "inner newlines kept", stdin: "a\n\nb\n", arg: "why", want: "a\n\nb\n\nwhy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildPrompt(tt.stdin, tt.arg)
			if err != nil {
				t.Fatalf("BuildPrompt failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildPrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildPrompt_Empty(t *testing.T) {
	if _, err := BuildPrompt(" \n", "\t"); !errors.Is(err, ai.ErrEmptyPrompt) {
		t.Errorf("Expected ErrEmptyPrompt, got %v", err)
	}
}
