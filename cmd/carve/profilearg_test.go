package main

import (
	"path/filepath"
	"testing"
)

func TestResolveProfilePath(t *testing.T) {
	origHome := homeDir
	homeDir = t.TempDir()
	defer func() { homeDir = origHome }()

	t.Run("bare name resolves into the home profiles dir", func(t *testing.T) {
		got, err := resolveProfilePath("acme")
		if err != nil {
			t.Fatalf("resolveProfilePath: %v", err)
		}
		want := filepath.Join(homeDir, "profiles", "acme.yaml")
		if got != want {
			t.Errorf("resolved %q, want %q", got, want)
		}
	})

	t.Run("explicit paths pass through", func(t *testing.T) {
		for _, arg := range []string{"invoice.yaml", "./acme", "conf/acme.yaml"} {
			got, err := resolveProfilePath(arg)
			if err != nil {
				t.Fatalf("resolveProfilePath(%q): %v", arg, err)
			}
			if got != arg {
				t.Errorf("resolved %q, want %q unchanged", got, arg)
			}
		}
	})
}
