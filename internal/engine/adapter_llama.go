//go:build llama

package engine

import (
	"context"
	"errors"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
)

// LlamaTextAdapter runs text generation in-process through go-llama.cpp.
// The model is loaded once, on Warmup, and kept resident on the GPU for the
// life of the process.
type LlamaTextAdapter struct {
	modelPath string
	ctxSize   int
	threads   int

	mu    sync.Mutex
	model *llama.LLama
}

func NewLlamaTextAdapter(modelPath string, ctxSize, threads int) *LlamaTextAdapter {
	if ctxSize <= 0 {
		ctxSize = 2048
	}
	if threads <= 0 {
		threads = 4
	}
	return &LlamaTextAdapter{modelPath: modelPath, ctxSize: ctxSize, threads: threads}
}

// Warmup loads the model. Failure here is fatal to startup.
func (a *LlamaTextAdapter) Warmup(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model != nil {
		return nil
	}
	if strings.TrimSpace(a.modelPath) == "" {
		return errors.New("model path is empty")
	}
	m, err := llama.New(a.modelPath, llama.SetContext(a.ctxSize))
	if err != nil {
		return err
	}
	a.model = m
	return nil
}

func (a *LlamaTextAdapter) Generate(ctx context.Context, prompt string, params GenParams, onToken func(string) error) (FinalResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model == nil {
		return FinalResult{}, errors.New("llama model not loaded (warmup did not run)")
	}

	// Bridge token streaming to onToken and respect cancellation.
	a.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		if err := onToken(tok); err != nil {
			return false
		}
		return true
	})
	po := mapGenParamsToPredictOptions(params, a.threads)
	text, err := a.model.Predict(prompt, po...)
	if err != nil {
		if ctx.Err() != nil {
			return FinalResult{}, ctx.Err()
		}
		return FinalResult{}, err
	}
	// Token counts are not available without deeper hooks.
	return FinalResult{Content: text, FinishReason: "stop"}, nil
}

func (a *LlamaTextAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.model != nil {
		a.model.Free()
		a.model = nil
	}
	return nil
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func zf(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}

// mapGenParamsToPredictOptions converts adapter params into go-llama.cpp options.
func mapGenParamsToPredictOptions(params GenParams, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(zn(params.MaxTokens, 256)),
		llama.SetThreads(zn(threads, 1)),
		llama.SetTopP(zf(params.TopP, llama.DefaultOptions.TopP)),
		llama.SetTemperature(zf(params.Temperature, llama.DefaultOptions.Temperature)),
	}
	if params.Seed != 0 {
		po = append(po, llama.SetSeed(params.Seed))
	}
	if len(params.Stop) > 0 {
		po = append(po, llama.SetStopWords(params.Stop...))
	}
	return po
}
