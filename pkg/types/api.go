package types

// ChatRequest is the payload for POST /api/chat/message.
type ChatRequest struct {
	// Required user message.
	// example: Help me brainstorm a sci-fi plot.
	Message string `json:"message" example:"Help me brainstorm a sci-fi plot."`
	// Optional user identifier for credit accounting.
	// example: u_9f2c1b
	UserID string `json:"user_id,omitempty" example:"u_9f2c1b"`
	// Maximum number of new tokens to generate.
	// example: 300
	MaxTokens int `json:"max_tokens,omitempty" example:"300"`
	// Sampling temperature (higher = more random).
	// example: 0.7
	Temperature float64 `json:"temperature,omitempty" example:"0.7"`
}

// ChatResponse is the buffered completion returned by the chat pipeline.
type ChatResponse struct {
	// Assistant reply text.
	Response string `json:"response"`
	// Pipeline that served the request.
	// example: chat
	Pipeline string `json:"pipeline" example:"chat"`
	// Token accounting, when the backing runtime reports it.
	Usage *UsageInfo `json:"usage,omitempty"`
}

// StoryRequest is the payload for POST /api/stories/generate.
type StoryRequest struct {
	// Required premise to build the story from.
	// example: A swordsman wakes up in a city that forgot him.
	Prompt string `json:"prompt" example:"A swordsman wakes up in a city that forgot him."`
	// Genre folded into the prompt. Defaults to fantasy.
	// example: fantasy
	Genre string `json:"genre,omitempty" example:"fantasy"`
	// Optional user identifier for credit accounting.
	UserID string `json:"user_id,omitempty"`
	// Maximum number of new tokens to generate.
	// example: 512
	MaxTokens int `json:"max_tokens,omitempty" example:"512"`
	// Sampling temperature.
	// example: 0.8
	Temperature float64 `json:"temperature,omitempty" example:"0.8"`
	// Nucleus sampling probability.
	// example: 0.9
	TopP float64 `json:"top_p,omitempty" example:"0.9"`
	// Optional stop sequences.
	Stop []string `json:"stop,omitempty"`
	// Random seed; 0 lets the server choose.
	Seed int64 `json:"seed,omitempty"`
}

// ImageRequest is the payload for POST /api/images/generate.
type ImageRequest struct {
	// Required scene description.
	// example: A swordsman under the moonlight, manhwa style
	Prompt string `json:"prompt" example:"A swordsman under the moonlight, manhwa style"`
	// Style suffix folded into the prompt.
	// example: vertical webtoon panel
	Style string `json:"style,omitempty" example:"vertical webtoon panel"`
	// Optional user identifier for credit accounting.
	UserID string `json:"user_id,omitempty"`
}

// ImageMeta carries generation metadata alongside the stored panel.
type ImageMeta struct {
	// Full prompt sent to the image runtime.
	Prompt string `json:"prompt"`
	// Backing model identifier.
	Model string `json:"model,omitempty"`
	// Wall-clock generation time in milliseconds.
	ElapsedMS int64 `json:"elapsed_ms"`
}

// ImageResponse is returned by POST /api/images/generate.
type ImageResponse struct {
	// URL path of the stored panel, served under /generated.
	// example: /generated/panel_1700000000000.png
	ImageURL string    `json:"image_url" example:"/generated/panel_1700000000000.png"`
	Meta     ImageMeta `json:"meta"`
}

// UsageInfo contains token accounting for text generations.
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// PipelinesResponse wraps the list returned by GET /models.
type PipelinesResponse struct {
	Pipelines []Pipeline `json:"pipelines"`
}

// ModelFilesResponse wraps the list returned by GET /models/files.
type ModelFilesResponse struct {
	Models []ModelFile `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: prompt is required
	Error string `json:"error" example:"prompt is required"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// DeviceStatus reports the GPU the process acquired at startup.
type DeviceStatus struct {
	// Device index the handle was acquired for.
	// example: 0
	Index int `json:"index" example:"0"`
	// NVML device UUID.
	// example: GPU-8c5f1c2e
	UUID string `json:"uuid,omitempty" example:"GPU-8c5f1c2e"`
	// Marketing name of the device.
	// example: NVIDIA GeForce RTX 4090
	Name string `json:"name" example:"NVIDIA GeForce RTX 4090"`
	// Total device memory in MB.
	// example: 24564
	MemoryTotalMB uint64 `json:"memory_total_mb" example:"24564"`
	// Used device memory in MB at last refresh.
	// example: 2048
	MemoryUsedMB uint64 `json:"memory_used_mb" example:"2048"`
	// Installed driver version.
	// example: 550.54.14
	DriverVersion string `json:"driver_version,omitempty" example:"550.54.14"`
}

// PipelineStatus summarizes one pipeline for /status.
type PipelineStatus struct {
	// Pipeline identifier.
	// example: story
	ID string `json:"id" example:"story"`
	// Current lifecycle state (loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Last time this pipeline served a request (unix seconds).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
	// Current queue length for incoming requests.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// In-flight generations (0 or 1; single worker).
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Maximum queued requests before backpressure triggers.
	// example: 32
	MaxQueueDepth int `json:"max_queue_depth" example:"32"`
	// Total completed generations since startup.
	// example: 42
	GenerationsTotal uint64 `json:"generations_total" example:"42"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall engine state (loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Acquired GPU device, if any.
	Device *DeviceStatus `json:"device,omitempty"`
	// Per-pipeline status.
	Pipelines []PipelineStatus `json:"pipelines"`
	// Last error observed by the engine (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
