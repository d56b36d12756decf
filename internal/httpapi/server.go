package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"panelxd/internal/store"
	"panelxd/pkg/types"
)

// Service defines the engine methods required by the HTTP API layer.
type Service interface {
	ListPipelines() []types.Pipeline
	ListModels() []types.ModelFile
	Status() types.StatusResponse
	Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error)
	GenerateStory(ctx context.Context, req types.StoryRequest, w io.Writer, flush func()) error
	GenerateImage(ctx context.Context, req types.ImageRequest) (types.ImageResponse, error)
	Ready() bool
}

// Platform bundles the file-backed stores and static assets the API serves
// alongside generation. Nil stores disable their route group.
type Platform struct {
	Users        *store.Users
	Credits      *store.Credits
	Series       *store.Series
	Progress     *store.Progress
	GeneratedDir string
}

// NewMux builds the chi router with all routes and middleware.
func NewMux(svc Service, p Platform) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsAllowedOrigins,
			AllowedMethods:   corsAllowedMethods,
			AllowedHeaders:   corsAllowedHeaders,
			AllowCredentials: true,
		}))
	}

	// @Summary Root banner
	// @Router / [get]
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "online",
			"service": "panelxd",
			"endpoints": []string{
				"/api/chat", "/api/stories", "/api/images",
				"/api/users", "/api/credits", "/api/series", "/api/reading-progress",
			},
		})
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.PipelinesResponse{Pipelines: svc.ListPipelines()}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	// Model files discovered in the models dir at startup.
	r.Get("/models/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.ModelFilesResponse{Models: svc.ListModels()}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Post("/api/chat/message", func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeJSONError(w, http.StatusBadRequest, "message is required")
			return
		}
		joinedCtx, cancel := requestContext(r)
		defer cancel()
		resp, err := svc.Chat(joinedCtx, req)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			writeEngineError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	r.Post("/api/stories/generate", func(w http.ResponseWriter, r *http.Request) {
		var req types.StoryRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeJSONError(w, http.StatusBadRequest, "prompt is required")
			return
		}

		// Stream NDJSON tokens as they arrive.
		w.Header().Set("Content-Type", "application/x-ndjson")
		var flush func()
		if f, ok := w.(http.Flusher); ok {
			flush = f.Flush
		}
		start := time.Now()
		writer := io.Writer(w)
		lvl := requestLogLevel(r)
		if lvl >= LevelDebug {
			writer = io.MultiWriter(w, &loggingLineWriter{})
		}
		logGenStart(r, lvl, "story")
		joinedCtx, cancel := requestContext(r)
		defer cancel()
		if err := svc.GenerateStory(joinedCtx, req, writer, flush); err != nil {
			// If context was canceled (client disconnect), just return.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := writeEngineError(w, r, err)
			logGenEnd(r, lvl, "story", status, time.Since(start), err)
			return
		}
		logGenEnd(r, lvl, "story", http.StatusOK, time.Since(start), nil)
	})

	r.Post("/api/images/generate", func(w http.ResponseWriter, r *http.Request) {
		var req types.ImageRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeJSONError(w, http.StatusBadRequest, "prompt is required")
			return
		}
		start := time.Now()
		lvl := requestLogLevel(r)
		logGenStart(r, lvl, "image")
		joinedCtx, cancel := requestContext(r)
		defer cancel()
		resp, err := svc.GenerateImage(joinedCtx, req)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := writeEngineError(w, r, err)
			logGenEnd(r, lvl, "image", status, time.Since(start), err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
		logGenEnd(r, lvl, "image", http.StatusOK, time.Since(start), nil)
	})

	mountPlatformRoutes(r, p)

	if p.GeneratedDir != "" {
		mountGenerated(r, p.GeneratedDir)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSONBody enforces content type and body size, then decodes into dst.
// On failure it writes the error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	// Limit body size (configurable, default 1MiB)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// Oversize bodies surface here too; return 400 without size details.
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
