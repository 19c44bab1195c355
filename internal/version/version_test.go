package version

import (
	"strings"
	"testing"
)

func TestInfoMatchesGetters(t *testing.T) {
	v, c, d := Info()
	if v == "" || c == "" || d == "" {
		t.Fatalf("expected non-empty build info, got %q %q %q", v, c, d)
	}
	if GetVersion() != v || GetCommit() != c || GetDate() != d {
		t.Fatal("getters should match Info")
	}
}

func TestString(t *testing.T) {
	s := String()
	for _, part := range []string{"version=", "commit=", "date="} {
		if !strings.Contains(s, part) {
			t.Errorf("String should contain %q, got %q", part, s)
		}
	}
}

func TestFields(t *testing.T) {
	fields := Fields()
	if fields["version"] != GetVersion() {
		t.Errorf("expected version field %q, got %v", GetVersion(), fields["version"])
	}
	if _, ok := fields["build_date"]; !ok {
		t.Error("expected build_date field")
	}
}
