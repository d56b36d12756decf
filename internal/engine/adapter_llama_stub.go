//go:build !llama

package engine

import "context"

// This file provides a no-CGO stub for the in-process llama adapter. It is
// compiled when the 'llama' build tag is NOT set, keeping default builds and
// CI CGO-free. Deployments without the tag use the remote text adapter; this
// stub only exists so -text-adapter=llama fails with a clear error instead of
// silently mocking output.

type LlamaTextAdapter struct {
	modelPath string
	ctxSize   int
	threads   int
}

func NewLlamaTextAdapter(modelPath string, ctxSize, threads int) *LlamaTextAdapter {
	return &LlamaTextAdapter{modelPath: modelPath, ctxSize: ctxSize, threads: threads}
}

func (a *LlamaTextAdapter) Warmup(ctx context.Context) error {
	return ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}

func (a *LlamaTextAdapter) Generate(ctx context.Context, prompt string, params GenParams, onToken func(string) error) (FinalResult, error) {
	select {
	case <-ctx.Done():
		return FinalResult{}, ctx.Err()
	default:
	}
	return FinalResult{}, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}

func (a *LlamaTextAdapter) Close() error { return nil }
