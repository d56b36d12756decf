package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"panelxd/pkg/types"
)

// GenerateStory streams NDJSON token lines for a story request to w. It
// admits the request through the story pipeline's queue (single in-flight),
// charges credits when accounting applies, and delegates token generation to
// the configured text adapter.
func (e *Engine) GenerateStory(ctx context.Context, req types.StoryRequest, w io.Writer, flusher func()) error {
	if e.text == nil {
		return ErrDependencyUnavailable("text adapter not configured")
	}
	release, err := e.beginGeneration(ctx, "story")
	if err != nil {
		return err
	}
	defer release()

	if err := e.charge(req.UserID, costStory, "story_generation"); err != nil {
		return err
	}

	genre := req.Genre
	if genre == "" {
		genre = "fantasy"
	}
	prompt := fmt.Sprintf("Create a %s comic story: %s", genre, req.Prompt)
	params := GenParams{
		Temperature: float32(req.Temperature),
		TopP:        float32(req.TopP),
		MaxTokens:   req.MaxTokens,
		Stop:        req.Stop,
		Seed:        int(req.Seed),
	}

	var b strings.Builder
	onTok := func(tok string) error {
		if _, err := w.Write(tokenLineJSON(tok)); err != nil {
			return err
		}
		b.WriteString(tok)
		if flusher != nil {
			flusher()
		}
		return nil
	}
	final, err := e.text.Generate(ctx, prompt, params, onTok)
	if err != nil {
		e.refund(req.UserID, costStory, "story_generation")
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return classifyRuntimeErr(err)
	}

	content := final.Content
	if content == "" {
		content = b.String()
	}
	end := map[string]any{
		"done":          true,
		"content":       content,
		"finish_reason": final.FinishReason,
		"usage":         final.Usage,
	}
	jb, _ := json.Marshal(end)
	if _, err := w.Write(append(jb, '\n')); err != nil {
		return err
	}
	if flusher != nil {
		flusher()
	}
	return nil
}

// tokenLineJSON formats a token NDJSON line using json.Marshal for correctness.
func tokenLineJSON(tok string) []byte {
	type tokenMsg struct {
		Token string `json:"token"`
	}
	b, _ := json.Marshal(tokenMsg{Token: tok})
	return append(b, '\n')
}
