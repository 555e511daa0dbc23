package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotenv(t *testing.T) {
	content := `# credentials
CODEX_TEST_KEY="secret-value"
export CODEX_TEST_EXPORTED=exported
CODEX_TEST_SINGLE='single'
CODEX_TEST_KEEP=from-file
not a pair
`
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	for _, k := range []string{"CODEX_TEST_KEY", "CODEX_TEST_EXPORTED", "CODEX_TEST_SINGLE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("CODEX_TEST_KEEP", "from-env")

	if err := LoadDotenv(path); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		key, want string
	}{
		{"CODEX_TEST_KEY", "secret-value"},
		{"CODEX_TEST_EXPORTED", "exported"},
		{"CODEX_TEST_SINGLE", "single"},
		{"CODEX_TEST_KEEP", "from-env"},
	}
	for _, tt := range tests {
		if got := os.Getenv(tt.key); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLoadDotenv_MissingFile(t *testing.T) {
	if err := LoadDotenv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("Expected missing file to be ignored, got %v", err)
	}
}
