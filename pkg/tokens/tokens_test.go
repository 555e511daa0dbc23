package tokens

import (
	"errors"
	"strings"
	"testing"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", " \t\n ", 0},
		{"one word", "hello", 1},
		{"two words", "hello world", 2},
		{"three words", "a b c", 3},
		{"mixed whitespace", "a\tb\nc  d", 5},
		{"hundred words", strings.Repeat("w ", 100), 133},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Estimate(tt.text); got != tt.want {
				t.Errorf("Estimate(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimate_MatchesWordFactor(t *testing.T) {
	for n := 0; n < 500; n++ {
		text := strings.TrimSpace(strings.Repeat("word ", n))
		want := int(float64(n) * 1.33)
		if got := Estimate(text); got != want {
			t.Fatalf("Estimate(%d words) = %d, want %d", n, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	text := strings.Repeat("token ", 10) // estimate 13

	got, err := Validate(text, 13)
	if err != nil {
		t.Fatalf("Validate at limit: unexpected error %v", err)
	}
	if got != text {
		t.Errorf("Validate should return text unchanged")
	}

	_, err = Validate(text, 12)
	var budgetErr *BudgetExceededError
	if !errors.As(err, &budgetErr) {
		t.Fatalf("Expected BudgetExceededError, got %v", err)
	}
	if budgetErr.Estimated != 13 || budgetErr.Limit != 12 {
		t.Errorf("Unexpected error fields: %+v", budgetErr)
	}
	if budgetErr.Error() != "prompt too long: estimated 13 tokens > 12 limit" {
		t.Errorf("Unexpected message: %q", budgetErr.Error())
	}
}

func TestValidate_ZeroLimit(t *testing.T) {
	_, err := Validate("hello world", 0)

	var budgetErr *BudgetExceededError
	if !errors.As(err, &budgetErr) {
		t.Fatalf("Expected BudgetExceededError, got %v", err)
	}
	if budgetErr.Estimated != 2 || budgetErr.Limit != 0 {
		t.Errorf("Unexpected error fields: %+v", budgetErr)
	}

	if _, err := Validate("", 0); err != nil {
		t.Errorf("Expected empty text to fit a zero limit, got %v", err)
	}
}
