package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"panelxd/internal/engine"
	"panelxd/internal/gpu"
	"panelxd/internal/httpapi"
	"panelxd/internal/registry"
	"panelxd/internal/store"
)

// createTempModelsDir creates a temporary directory populated with empty .gguf
// files and returns the directory path.
func createTempModelsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte(""), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
	}
	return dir
}

// newFakeTextRuntime serves an ollama-style /api/generate NDJSON stream.
func newFakeTextRuntime(t *testing.T, tokens ...string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, tok := range tokens {
			w.Write([]byte(`{"response":"` + tok + `"}` + "\n"))
		}
		w.Write([]byte(`{"done":true,"done_reason":"stop","prompt_eval_count":4,"eval_count":` + "2" + `}` + "\n"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newFakeImageRuntime serves raw bytes for any POST.
func newFakeImageRuntime(t *testing.T, payload []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type stack struct {
	srv     *httptest.Server
	eng     *engine.Engine
	credits *store.Credits
	genDir  string
}

// newStack wires the full daemon minus process concerns: mock GPU, temp
// stores, fake runtimes, warmed engine, real router.
func newStack(t *testing.T, cfgMut func(*engine.EngineConfig)) *stack {
	t.Helper()
	modelsDir := createTempModelsDir(t, "llama3.gguf")
	models, err := registry.LoadDir(modelsDir)
	if err != nil {
		t.Fatalf("load models: %v", err)
	}
	device, err := gpu.Acquire(gpu.NewMockProvider(gpu.DefaultMockDevice()), 0)
	if err != nil {
		t.Fatalf("acquire gpu: %v", err)
	}
	t.Cleanup(func() { device.Release() })

	text := newFakeTextRuntime(t, "Once ", "upon ", "a ", "time")
	image := newFakeImageRuntime(t, []byte("pngdata"))

	dataDir := t.TempDir()
	genDir := t.TempDir()
	users, err := store.NewUsers(dataDir)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	credits, err := store.NewCredits(dataDir, false)
	if err != nil {
		t.Fatalf("credits: %v", err)
	}
	series, err := store.NewSeries(dataDir)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	progress, err := store.NewProgress(dataDir)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}

	cfg := engine.EngineConfig{
		Device:       device,
		Models:       models,
		TextModel:    "llama3",
		ImageModel:   "sdxl",
		GeneratedDir: genDir,
		Text:         engine.NewOllamaTextAdapter(text.URL, "llama3"),
		Image:        engine.NewHFImageAdapter(image.URL, ""),
		Charger:      credits,
	}
	if cfgMut != nil {
		cfgMut(&cfg)
	}
	eng := engine.New(cfg)
	t.Cleanup(func() { eng.Close() })

	mux := httpapi.NewMux(eng, httpapi.Platform{
		Users: users, Credits: credits, Series: series, Progress: progress,
		GeneratedDir: genDir,
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &stack{srv: srv, eng: eng, credits: credits, genDir: genDir}
}

func (s *stack) warmup(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.eng.Warmup(ctx); err != nil {
		t.Fatalf("warmup: %v", err)
	}
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
