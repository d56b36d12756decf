package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDirFindsGGUF(t *testing.T) {
	d := t.TempDir()
	for _, n := range []string{"a.gguf", "B.GGUF", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(d, n), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(d, "sub.gguf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	models, err := LoadDir(d)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d: %+v", len(models), models)
	}
	for _, m := range models {
		if m.Path == "" || m.ID == "" {
			t.Fatalf("incomplete model: %+v", m)
		}
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	got, err := expandHome("~/models")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "models") {
		t.Fatalf("got %q", got)
	}
	if got, _ := expandHome("/abs"); got != "/abs" {
		t.Fatalf("absolute path changed: %q", got)
	}
}
