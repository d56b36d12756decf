package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"panelxd/pkg/types"
)

// imagePromptSuffix nudges the model toward consistent webtoon-style panels.
const imagePromptSuffix = "full color, highly detailed, cinematic lighting, vertical webtoon panel, sharp lines, expressive faces"

// GenerateImage renders a panel through the image pipeline, stores it under
// the generated dir as panel_<ms>.png, and returns its URL path plus metadata.
func (e *Engine) GenerateImage(ctx context.Context, req types.ImageRequest) (types.ImageResponse, error) {
	if e.image == nil {
		return types.ImageResponse{}, ErrDependencyUnavailable("image adapter not configured")
	}
	release, err := e.beginGeneration(ctx, "image")
	if err != nil {
		return types.ImageResponse{}, err
	}
	defer release()

	if err := e.charge(req.UserID, costImage, "image_generation"); err != nil {
		return types.ImageResponse{}, err
	}

	fullPrompt := req.Prompt + ", " + imagePromptSuffix
	if req.Style != "" {
		fullPrompt = req.Prompt + ", " + req.Style + ", " + imagePromptSuffix
	}

	start := time.Now()
	data, err := e.image.GenerateImage(ctx, fullPrompt)
	if err != nil {
		e.refund(req.UserID, costImage, "image_generation")
		if ctx.Err() != nil {
			return types.ImageResponse{}, ctx.Err()
		}
		return types.ImageResponse{}, classifyRuntimeErr(err)
	}

	filename := fmt.Sprintf("panel_%d.png", time.Now().UnixMilli())
	path := filepath.Join(e.generatedDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		e.refund(req.UserID, costImage, "image_generation")
		return types.ImageResponse{}, fmt.Errorf("store panel: %w", err)
	}

	e.mu.RLock()
	model := e.pipelines["image"].Model
	e.mu.RUnlock()
	e.publisher.Publish(Event{Name: "panel_stored", Pipeline: "image", Fields: map[string]any{"file": filename}})
	return types.ImageResponse{
		ImageURL: "/generated/" + filename,
		Meta: types.ImageMeta{
			Prompt:    fullPrompt,
			Model:     model,
			ElapsedMS: time.Since(start).Milliseconds(),
		},
	}, nil
}
