package engine

import (
	"time"

	"panelxd/pkg/types"
)

// State represents lifecycle state of the engine/pipelines.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// pipeline is a live generation pipeline (one per id).
type pipeline struct {
	ID       string
	Kind     types.PipelineKind
	Model    string
	Desc     string
	State    State
	LastUsed time.Time
	// Queueing primitives
	genCh   chan struct{} // size 1: single in-flight generation
	queueCh chan struct{} // buffered: queue slots
	// Counters
	generations uint64
}

// Snapshot is a read-only projection of the engine state.
type Snapshot struct {
	State State
	Err   string
}
