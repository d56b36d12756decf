package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"panelxd/internal/config"
	"panelxd/internal/engine"
	"panelxd/internal/gpu"
	"panelxd/internal/httpapi"
	"panelxd/internal/registry"
	"panelxd/internal/store"
	"panelxd/pkg/types"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := "0.0.0.0:8000"
	if v := os.Getenv("PANELXD_ADDR"); v != "" {
		defaultAddr = v
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. 0.0.0.0:8000")
	configPath := flag.String("config", os.Getenv("PANELXD_CONFIG"), "Optional config file (.yaml/.json/.toml)")
	modelsDir := flag.String("models-dir", "~/models", "Directory to scan for *.gguf model files")
	dataDir := flag.String("data-dir", "data", "Directory for JSON store files")
	generatedDir := flag.String("generated-dir", "generated", "Directory for stored panel images")
	gpuIndex := flag.Int("gpu-index", 0, "GPU device index to acquire")
	gpuProvider := flag.String("gpu", "nvml", "GPU provider: nvml or mock (mock is for testing only)")
	textAdapter := flag.String("text-adapter", "ollama", "Text backend: ollama (remote) or llama (in-process, needs the llama build tag)")
	textRuntime := flag.String("text-runtime-url", "http://localhost:11434", "Text generation runtime base URL")
	llamaCtx := flag.Int("llama-context", 2048, "Context window for the in-process llama backend")
	llamaThreads := flag.Int("llama-threads", 0, "Threads for the in-process llama backend (0=default)")
	imageRuntime := flag.String("image-runtime-url", "", "Image generation endpoint URL")
	hfToken := flag.String("hf-token", os.Getenv("PANELXD_HF_TOKEN"), "Bearer token for the image endpoint")
	textModel := flag.String("text-model", "llama3", "Text model name passed to the runtime")
	imageModel := flag.String("image-model", "stabilityai/stable-diffusion-xl-base-1.0", "Image model id")
	maxQueueDepth := flag.Int("max-queue-depth", 0, "Per-pipeline queued request limit (0=default)")
	maxWaitSec := flag.Int("max-wait-seconds", 0, "Per-request max queue wait in seconds (0=default)")
	freeLaunch := flag.Bool("free-launch", true, "Grant free credits instead of charging")
	corsOrigins := flag.String("cors-origins", os.Getenv("PANELXD_CORS_ORIGINS"), "Comma-separated CORS origins (empty disables CORS)")
	logLevel := flag.String("log-level", envOr("PANELXD_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(*logLevel)
	httpapi.SetLogger(logger)

	// Config file values fill in anything not set on the command line.
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		applyConfig(cfg, addr, modelsDir, dataDir, generatedDir, gpuIndex,
			textAdapter, textRuntime, imageRuntime, textModel, imageModel, maxQueueDepth, maxWaitSec, freeLaunch)
	}

	// The GPU is a hard requirement: acquire before anything else and exit
	// non-zero without ever opening the listen socket if it fails.
	var provider gpu.Provider
	switch *gpuProvider {
	case "nvml":
		provider = gpu.NewNVMLProvider()
	case "mock":
		provider = gpu.NewMockProvider(gpu.DefaultMockDevice())
	default:
		logger.Fatal().Str("provider", *gpuProvider).Msg("unknown gpu provider")
	}
	device, err := gpu.Acquire(provider, *gpuIndex)
	if err != nil {
		logger.Fatal().Err(err).Msg("gpu acquisition failed")
	}
	defer device.Release()
	info := device.Info()
	logger.Info().Str("name", info.Name).Str("uuid", info.UUID).
		Uint64("memory_total_mb", info.MemoryTotalMB).Msg("gpu acquired")

	models, err := registry.LoadDir(*modelsDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", *modelsDir).Msg("scan models")
	}

	users, err := store.NewUsers(*dataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("open users store")
	}
	credits, err := store.NewCredits(*dataDir, *freeLaunch)
	if err != nil {
		logger.Fatal().Err(err).Msg("open credits store")
	}
	series, err := store.NewSeries(*dataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("open series store")
	}
	progress, err := store.NewProgress(*dataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("open progress store")
	}

	if err := os.MkdirAll(*generatedDir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("dir", *generatedDir).Msg("create generated dir")
	}

	// Every pipeline must be able to warm up, so the image endpoint is required.
	if *imageRuntime == "" {
		logger.Fatal().Msg("image-runtime-url is required")
	}
	image := engine.NewHFImageAdapter(*imageRuntime, *hfToken)

	var text engine.TextAdapter
	switch *textAdapter {
	case "ollama":
		text = engine.NewOllamaTextAdapter(*textRuntime, *textModel)
	case "llama":
		mf, ok := findModel(models, *textModel)
		if !ok {
			logger.Fatal().Str("model", *textModel).Str("dir", *modelsDir).Msg("text model not found in models dir")
		}
		logger.Info().Str("model", mf.ID).Int("size_mb", mf.SizeMB).Msg("loading in-process text model")
		text = engine.NewLlamaTextAdapter(mf.Path, *llamaCtx, *llamaThreads)
	default:
		logger.Fatal().Str("adapter", *textAdapter).Msg("unknown text adapter")
	}
	eng := engine.New(engine.EngineConfig{
		Device:        device,
		Models:        models,
		TextModel:     *textModel,
		ImageModel:    *imageModel,
		GeneratedDir:  *generatedDir,
		MaxQueueDepth: *maxQueueDepth,
		MaxWait:       time.Duration(*maxWaitSec) * time.Second,
		Text:          text,
		Image:         image,
		Charger:       credits,
		FreeLaunch:    *freeLaunch,
		Publisher:     engine.NewMemoryPublisher(),
	})
	defer eng.Close()

	// Warm every pipeline before accepting connections. A failed warmup is
	// fatal; requests must never observe a half-initialized process.
	warmupCtx, warmupCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := eng.Warmup(warmupCtx); err != nil {
		warmupCancel()
		logger.Fatal().Err(err).Msg("warmup failed")
	}
	warmupCancel()
	logger.Info().Int("models", len(models)).Msg("pipelines ready")

	if origins := splitCSV(*corsOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins,
			[]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			[]string{"Accept", "Content-Type", "Authorization", "X-Log-Level"})
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(eng, httpapi.Platform{
		Users:        users,
		Credits:      credits,
		Series:       series,
		Progress:     progress,
		GeneratedDir: *generatedDir,
	})
	srv := &http.Server{Addr: *addr, Handler: mux}

	// Bind explicitly so an occupied port is a startup failure, not a
	// background goroutine surprise.
	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", *addr).Msg("listen failed")
	}

	go func() {
		logger.Info().Str("addr", *addr).Msg("panelxd listening")
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Str("service", "panelxd").Logger()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// applyConfig overrides flags that were left at their defaults with values
// from the config file. Flags set explicitly on the command line win.
func applyConfig(cfg config.Config, addr, modelsDir, dataDir, generatedDir *string, gpuIndex *int,
	textAdapter, textRuntime, imageRuntime, textModel, imageModel *string, maxQueueDepth, maxWaitSec *int, freeLaunch *bool) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["addr"] && cfg.Addr != "" {
		*addr = cfg.Addr
	}
	if !set["text-adapter"] && cfg.TextAdapter != "" {
		*textAdapter = cfg.TextAdapter
	}
	if !set["models-dir"] && cfg.ModelsDir != "" {
		*modelsDir = cfg.ModelsDir
	}
	if !set["data-dir"] && cfg.DataDir != "" {
		*dataDir = cfg.DataDir
	}
	if !set["generated-dir"] && cfg.GeneratedDir != "" {
		*generatedDir = cfg.GeneratedDir
	}
	if !set["gpu-index"] && cfg.GPUIndex != 0 {
		*gpuIndex = cfg.GPUIndex
	}
	if !set["text-runtime-url"] && cfg.TextRuntimeURL != "" {
		*textRuntime = cfg.TextRuntimeURL
	}
	if !set["image-runtime-url"] && cfg.ImageRuntimeURL != "" {
		*imageRuntime = cfg.ImageRuntimeURL
	}
	if !set["text-model"] && cfg.TextModel != "" {
		*textModel = cfg.TextModel
	}
	if !set["image-model"] && cfg.ImageModel != "" {
		*imageModel = cfg.ImageModel
	}
	if !set["max-queue-depth"] && cfg.MaxQueueDepth != 0 {
		*maxQueueDepth = cfg.MaxQueueDepth
	}
	if !set["max-wait-seconds"] && cfg.MaxWaitSeconds != 0 {
		*maxWaitSec = cfg.MaxWaitSeconds
	}
	if !set["free-launch"] && cfg.FreeLaunch != nil {
		*freeLaunch = *cfg.FreeLaunch
	}
}

// findModel resolves a model name against the scanned registry, matching the
// filename with or without its extension.
func findModel(models []types.ModelFile, name string) (types.ModelFile, bool) {
	for _, m := range models {
		if m.ID == name || strings.TrimSuffix(m.ID, filepath.Ext(m.ID)) == name {
			return m, true
		}
	}
	return types.ModelFile{}, false
}

// splitCSV splits a comma-separated list, trimming whitespace and dropping
// empty entries. Returns nil for an empty input.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
