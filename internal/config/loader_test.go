package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: 0.0.0.0:9999\ndata_dir: /data\ngenerated_dir: /gen\ngpu_index: 1\ntext_model: tinyllama\nmax_queue_depth: 8\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9999" || cfg.DataDir != "/data" || cfg.GeneratedDir != "/gen" || cfg.GPUIndex != 1 || cfg.TextModel != "tinyllama" || cfg.MaxQueueDepth != 8 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","models_dir":"/m","text_runtime_url":"http://127.0.0.1:11434","free_launch":false}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.ModelsDir != "/m" || cfg.TextRuntimeURL != "http://127.0.0.1:11434" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.FreeLaunch == nil || *cfg.FreeLaunch {
		t.Fatalf("free_launch not decoded: %+v", cfg.FreeLaunch)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nimage_model=\"flux-dev\"\nmax_wait_seconds=15\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.ImageModel != "flux-dev" || cfg.MaxWaitSeconds != 15 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadUnsetFieldsStayZero(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :8000\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FreeLaunch != nil {
		t.Fatalf("free_launch should be nil when unset")
	}
	if cfg.GPUIndex != 0 || cfg.MaxQueueDepth != 0 {
		t.Fatalf("unexpected non-zero defaults: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := Load(filepath.Join(d, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
