package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldVersion, oldCommit, oldDate })

	Version, Commit, Date = "v0.3.1", "abc123", "2024-05-01T00:00:00Z"
	got := String()
	for _, want := range []string{"version: v0.3.1", "commit: abc123", "built: 2024-05-01T00:00:00Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("Template() should end with a newline")
	}
}
