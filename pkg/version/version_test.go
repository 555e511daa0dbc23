package version

import (
	"strings"
	"testing"
)

func TestSummary(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	Version, Commit = "", "none"
	if got := Summary(); got != "dev" {
		t.Errorf("Summary() = %q, want dev", got)
	}

	Version, Commit = "1.2.0", "0123456789abcdef"
	if got := Summary(); got != "1.2.0 (0123456)" {
		t.Errorf("Summary() = %q, want short commit", got)
	}
}

func TestInfo(t *testing.T) {
	info := Info()
	for _, want := range []string{"codex version", "commit:", "built:", "go:", "platform:"} {
		if !strings.Contains(info, want) {
			t.Errorf("Info should contain %q, got: %s", want, info)
		}
	}
}
