package session

import (
	"strings"

	"codex_cli/pkg/ai"
)

// BuildPrompt joins piped input and the argument text. Piped input comes
// first, separated from the argument by a blank line. Both parts are trimmed.
func BuildPrompt(stdin, arg string) (string, error) {
	stdin = strings.TrimSpace(stdin)
	arg = strings.TrimSpace(arg)

	switch {
	case stdin != "" && arg != "":
		return stdin + "\n\n" + arg, nil
	case stdin != "":
		return stdin, nil
	case arg != "":
		return arg, nil
	default:
		return "", ai.ErrEmptyPrompt
	}
}
