// Package tokens approximates prompt size before anything is sent.
//
// The estimate is word count times a fixed factor, truncated toward zero.
// It is not a tokenizer.
package tokens

import (
	"fmt"
	"strings"
)

// WordFactor is the tokens-per-word multiplier.
const WordFactor = 1.33

// BudgetExceededError reports a prompt whose estimate is over the limit.
type BudgetExceededError struct {
	Estimated int
	Limit     int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("prompt too long: estimated %d tokens > %d limit", e.Estimated, e.Limit)
}

// Estimate returns the approximate token count of text.
func Estimate(text string) int {
	return int(float64(len(strings.Fields(text))) * WordFactor)
}

// Validate returns text unchanged when its estimate fits within limit.
func Validate(text string, limit int) (string, error) {
	if n := Estimate(text); n > limit {
		return "", &BudgetExceededError{Estimated: n, Limit: limit}
	}
	return text, nil
}
