package types

// PipelineKind distinguishes what a pipeline produces.
type PipelineKind string

const (
	PipelineText  PipelineKind = "text"
	PipelineImage PipelineKind = "image"
)

// Pipeline describes a generation pipeline the daemon can serve.
type Pipeline struct {
	// Stable identifier used in requests.
	// example: story
	ID string `json:"id" example:"story"`
	// What this pipeline produces (text or image).
	// example: text
	Kind PipelineKind `json:"kind" example:"text"`
	// Backing model identifier or file.
	// example: tinyllama-q4.gguf
	Model string `json:"model" example:"tinyllama-q4.gguf"`
	// Human-friendly description.
	// example: Comic story generation
	Description string `json:"description,omitempty" example:"Comic story generation"`
}

// ModelFile is a model artifact discovered on disk.
type ModelFile struct {
	// Stable identifier (the filename).
	// example: tinyllama-q4.gguf
	ID string `json:"id" example:"tinyllama-q4.gguf"`
	// Absolute path to the file.
	// example: /models/tinyllama-q4.gguf
	Path string `json:"path" example:"/models/tinyllama-q4.gguf"`
	// File size in MB.
	// example: 640
	SizeMB int `json:"size_mb" example:"640"`
}
