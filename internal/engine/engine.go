package engine

import (
	"sync"
	"time"

	"panelxd/internal/gpu"
	"panelxd/pkg/types"
)

// Engine owns the GPU device handle and coordinates all generation pipelines.
// Construct once in main, after the device is acquired; never serve before
// Warmup has completed.
type Engine struct {
	mu        sync.RWMutex
	state     State
	err       string
	device    *gpu.Device
	pipelines map[string]*pipeline

	models       []types.ModelFile
	text         TextAdapter
	image        ImageAdapter
	charger      Charger
	freeLaunch   bool
	publisher    EventPublisher
	generatedDir string

	maxQueueDepth int
	maxWait       time.Duration
	startTime     time.Time
}

// New constructs an Engine from EngineConfig. The engine starts in the loading
// state; call Warmup before serving.
func New(cfg EngineConfig) *Engine {
	cfg.applyDefaults()
	e := &Engine{
		state:         StateLoading,
		device:        cfg.Device,
		pipelines:     make(map[string]*pipeline),
		models:        cfg.Models,
		text:          cfg.Text,
		image:         cfg.Image,
		charger:       cfg.Charger,
		freeLaunch:    cfg.FreeLaunch,
		publisher:     cfg.Publisher,
		generatedDir:  cfg.GeneratedDir,
		maxQueueDepth: cfg.MaxQueueDepth,
		maxWait:       cfg.MaxWait,
		startTime:     time.Now(),
	}
	textModel := cfg.TextModel
	imageModel := cfg.ImageModel
	e.addPipeline("chat", types.PipelineText, textModel, "Assistant chat for comic creators")
	e.addPipeline("story", types.PipelineText, textModel, "Comic story generation")
	e.addPipeline("image", types.PipelineImage, imageModel, "Comic panel generation")
	return e
}

func (e *Engine) addPipeline(id string, kind types.PipelineKind, model, desc string) {
	e.pipelines[id] = &pipeline{
		ID:      id,
		Kind:    kind,
		Model:   model,
		Desc:    desc,
		State:   StateLoading,
		genCh:   make(chan struct{}, 1),
		queueCh: make(chan struct{}, e.maxQueueDepth),
	}
}

// Ready reports whether the engine finished warmup and can serve requests.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state != StateReady {
		return false
	}
	for _, p := range e.pipelines {
		if p.State != StateReady {
			return false
		}
	}
	return true
}

// ListPipelines returns the configured pipelines.
func (e *Engine) ListPipelines() []types.Pipeline {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]types.Pipeline, 0, len(e.pipelines))
	for _, id := range []string{"chat", "story", "image"} {
		p, ok := e.pipelines[id]
		if !ok {
			continue
		}
		out = append(out, types.Pipeline{ID: p.ID, Kind: p.Kind, Model: p.Model, Description: p.Desc})
	}
	return out
}

// ListModels returns the model files discovered at startup.
func (e *Engine) ListModels() []types.ModelFile {
	out := make([]types.ModelFile, len(e.models))
	copy(out, e.models)
	return out
}

// Close releases adapters. The device handle is released by main, which owns it.
func (e *Engine) Close() error {
	var first error
	if e.text != nil {
		if err := e.text.Close(); err != nil && first == nil {
			first = err
		}
	}
	if e.image != nil {
		if err := e.image.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// charge debits credits for a generation when accounting applies.
func (e *Engine) charge(uid string, amount int64, reason string) error {
	if e.charger == nil || e.freeLaunch || uid == "" || amount <= 0 {
		return nil
	}
	return e.charger.Charge(uid, amount, reason)
}

// refund returns credits debited for a generation that then failed. Best
// effort: the generation error is what the caller reports.
func (e *Engine) refund(uid string, amount int64, reason string) {
	if e.charger == nil || e.freeLaunch || uid == "" || amount <= 0 {
		return
	}
	_ = e.charger.Refund(uid, amount, reason+"_refund")
}
