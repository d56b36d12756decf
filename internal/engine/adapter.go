package engine

import "context"

// TextAdapter abstracts the text runtime used by the chat and story pipelines.
// Concrete implementations: in-process llama.cpp (build tag) and the remote
// ollama-style client.
type TextAdapter interface {
	// Generate streams tokens for the given prompt. The onToken callback is
	// invoked for each token. Implementations must return when the context is
	// canceled.
	Generate(ctx context.Context, prompt string, params GenParams, onToken func(string) error) (FinalResult, error)
	// Close releases any resources associated with the adapter.
	Close() error
}

// ImageAdapter abstracts the text-to-image runtime used by the image pipeline.
type ImageAdapter interface {
	// GenerateImage returns encoded image bytes (PNG unless stated otherwise).
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	Close() error
}

// Warmupper is implemented by adapters that need a readiness probe before the
// engine reports Ready.
type Warmupper interface {
	Warmup(ctx context.Context) error
}

// GenParams captures generation parameters passed to a text adapter.
type GenParams struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
	Stop        []string
	Seed        int
}

// FinalResult summarizes the generation after streaming.
type FinalResult struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage contains token accounting.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
