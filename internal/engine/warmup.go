package engine

import (
	"context"
	"time"
)

// Warmup primes every pipeline and flips the engine to ready. It runs once,
// synchronously, before the server starts accepting connections. Any failure
// leaves the engine in the error state; the caller treats that as fatal.
func (e *Engine) Warmup(ctx context.Context) error {
	e.mu.Lock()
	e.state = StateLoading
	e.err = ""
	e.mu.Unlock()
	e.publisher.Publish(Event{Name: "warmup_start"})

	for _, id := range []string{"chat", "story", "image"} {
		if err := e.warmupPipeline(ctx, id); err != nil {
			e.mu.Lock()
			e.state = StateError
			e.err = err.Error()
			e.mu.Unlock()
			e.publisher.Publish(Event{Name: "warmup_failed", Pipeline: id, Fields: map[string]any{"error": err.Error()}})
			return err
		}
	}

	e.mu.Lock()
	e.state = StateReady
	e.err = ""
	e.mu.Unlock()
	e.publisher.Publish(Event{Name: "warmup_done"})
	return nil
}

func (e *Engine) warmupPipeline(ctx context.Context, id string) error {
	e.mu.RLock()
	p := e.pipelines[id]
	e.mu.RUnlock()
	if p == nil {
		return pipelineNotFoundError{id: id}
	}

	var adapter any
	switch p.Kind {
	case "text":
		adapter = e.text
	case "image":
		adapter = e.image
	}
	if adapter == nil {
		return ErrDependencyUnavailable("no adapter configured for pipeline " + id)
	}
	if wu, ok := adapter.(Warmupper); ok {
		if err := wu.Warmup(ctx); err != nil {
			return err
		}
	}

	e.mu.Lock()
	p.State = StateReady
	p.LastUsed = time.Now()
	e.mu.Unlock()
	e.publisher.Publish(Event{Name: "pipeline_ready", Pipeline: id})
	return nil
}
