package version

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build info should be initialized")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "ignite "+Version) {
		t.Errorf("unexpected version line %q", s)
	}
	if !strings.Contains(s, GitCommit) {
		t.Errorf("version line %q should contain the commit", s)
	}
}
