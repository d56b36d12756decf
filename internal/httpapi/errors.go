package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"panelxd/internal/engine"
	"panelxd/internal/store"
	"panelxd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// engineErrorStatus maps engine and store errors to HTTP status codes.
func engineErrorStatus(err error) int {
	var he HTTPError
	switch {
	case engine.IsPipelineNotFound(err):
		return http.StatusNotFound
	case engine.IsTooBusy(err):
		return http.StatusTooManyRequests
	case engine.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	case engine.IsDeviceExhausted(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, store.ErrInsufficientCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.As(err, &he):
		return he.StatusCode()
	default:
		return http.StatusInternalServerError
	}
}

// writeEngineError maps err to a status, records backpressure rejections,
// and writes the JSON error body. Returns the status written.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) int {
	status := engineErrorStatus(err)
	if status == http.StatusTooManyRequests {
		IncrementBackpressure(routePatternOrPath(r))
	}
	writeJSONError(w, status, err.Error())
	return status
}
