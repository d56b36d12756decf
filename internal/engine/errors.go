package engine

import "strings"

// tooBusyError signals queue timeout/overflow for 429 mapping.
type tooBusyError struct{ pipelineID string }

func (e tooBusyError) Error() string { return "too busy: " + e.pipelineID }

// ErrTooBusy constructs a tooBusyError for the given pipeline.
func ErrTooBusy(pipelineID string) error { return tooBusyError{pipelineID: pipelineID} }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	_, ok := err.(tooBusyError)
	return ok
}

// pipelineNotFoundError signals an unknown pipeline id.
type pipelineNotFoundError struct{ id string }

func (e pipelineNotFoundError) Error() string { return "pipeline not found: " + e.id }

// ErrPipelineNotFound constructs a pipelineNotFoundError.
func ErrPipelineNotFound(id string) error { return pipelineNotFoundError{id: id} }

// IsPipelineNotFound reports whether the error indicates a missing pipeline id.
func IsPipelineNotFound(err error) bool {
	_, ok := err.(pipelineNotFoundError)
	return ok
}

// dependencyUnavailableError signals a missing external dependency (runtime
// binary, remote endpoint) so the HTTP layer can return 503 instead of 500.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	_, ok := err.(dependencyUnavailableError)
	return ok
}

// deviceExhaustedError signals the GPU ran out of memory mid-request. The
// request fails; the process stays up and keeps serving.
type deviceExhaustedError struct{ msg string }

func (e deviceExhaustedError) Error() string { return e.msg }

// ErrDeviceExhausted constructs a deviceExhaustedError.
func ErrDeviceExhausted(msg string) error { return deviceExhaustedError{msg: msg} }

// IsDeviceExhausted reports whether err indicates GPU memory exhaustion.
func IsDeviceExhausted(err error) bool {
	_, ok := err.(deviceExhaustedError)
	return ok
}

// classifyRuntimeErr upgrades raw adapter errors that look like GPU memory
// exhaustion so they map to a retriable status instead of a plain 500.
func classifyRuntimeErr(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "out of memory") || strings.Contains(msg, "cuda error") || strings.Contains(msg, "oom") {
		return deviceExhaustedError{msg: err.Error()}
	}
	return err
}
