package httpapi

import (
	"context"
	"net/http"
)

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

// serverBaseCtx is canceled by main on shutdown so in-flight generations stop
// even when their clients keep the connection open.
var serverBaseCtx = context.Background()

// SetBaseContext installs the process-level context joined into every
// generation request. Passing nil restores Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// requestContext derives the context a generation runs under: done when the
// server shuts down or the client goes away, whichever comes first. The
// returned cancel must be deferred to detach from both parents.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	stopBase := context.AfterFunc(serverBaseCtx, cancel)
	stopReq := context.AfterFunc(r.Context(), cancel)
	return ctx, func() {
		stopBase()
		stopReq()
		cancel()
	}
}
