package engine

import (
	"context"
	"sync/atomic"
	"time"
)

// beginGeneration reserves a queue slot and then the single in-flight slot.
// Returns a release func to be deferred.
func (e *Engine) beginGeneration(ctx context.Context, pipelineID string) (func(), error) {
	e.mu.RLock()
	p := e.pipelines[pipelineID]
	e.mu.RUnlock()
	if p == nil {
		return func() {}, pipelineNotFoundError{id: pipelineID}
	}

	// Fast path: respect an already-canceled context
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	// Try to reserve a queue slot with timeout (pooled timer to reduce allocations)
	timer := time.NewTimer(e.maxWait)
	defer timer.Stop()
	select {
	case p.queueCh <- struct{}{}:
		// reserved queue slot
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{pipelineID: pipelineID}
	}

	// Wait to acquire the single in-flight slot
	acquired := false
	defer func() {
		if !acquired {
			<-p.queueCh
		}
	}()
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	timer2 := time.NewTimer(e.maxWait)
	defer timer2.Stop()
	select {
	case p.genCh <- struct{}{}:
		acquired = true
		e.mu.Lock()
		p.LastUsed = time.Now()
		e.mu.Unlock()
		return func() {
			atomic.AddUint64(&p.generations, 1)
			<-p.genCh
			<-p.queueCh
		}, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer2.C:
		return func() {}, tooBusyError{pipelineID: pipelineID}
	}
}
