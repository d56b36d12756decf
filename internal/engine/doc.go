// Package engine provides lifecycle, admission, and generation coordination for
// the daemon's GPU-backed pipelines. It is structured into small files by concern:
//
//   - engine.go: core Engine type, constructor, simple getters.
//   - config.go: EngineConfig and package defaults; New applies defaults.
//   - types.go: internal state types (State, pipeline instances).
//   - errors.go: error types and helpers (IsTooBusy, IsPipelineNotFound, ...).
//   - admission.go: per-pipeline queueing and generation admission.
//   - warmup.go: startup warmup; the engine is not Ready before it completes.
//   - chat.go / story.go / image.go: the three generation entry points.
//   - status.go: Status/Snapshot reporting helpers.
//   - events.go: lifecycle event publishing (noop by default).
//
// Build tags and runtimes:
//
//   - In-process llama: uses the go-llama.cpp adapter, enabled with `-tags=llama`
//     (files: adapter_llama.go, llama_cgo.go). A no-CGO stub compiles otherwise.
//   - Remote runtimes: adapter_remote.go talks to an ollama-style text endpoint
//     and an HF-style text-to-image endpoint over retrying HTTP clients.
//
// The Engine owns the GPU device handle acquired at startup and never
// reacquires it; callers construct it once in main and pass it in. External
// packages should use public methods only (New, Ready, Warmup, Chat,
// GenerateStory, GenerateImage, Status, ListPipelines, ListModels, Close).
package engine
