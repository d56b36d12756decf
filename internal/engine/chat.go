package engine

import (
	"context"
	"strings"

	"panelxd/pkg/types"
)

// chatSystemPrompt frames the assistant for comic creators. Folded in front of
// the user message because the text adapters expose a single-prompt interface.
const chatSystemPrompt = `You are a helpful AI assistant for PanelX, a comic creation platform.

Your role is to help comic creators with:
- Brainstorming story ideas and plot concepts
- Developing characters and their backgrounds
- Suggesting panel compositions and layouts
- Writing dialogue and captions
- Giving creative feedback on their work

Be friendly, creative, and encouraging. Keep responses concise (2-3 sentences usually).`

const defaultChatMaxTokens = 300

// Chat runs a buffered completion through the chat pipeline and returns the
// assistant reply.
func (e *Engine) Chat(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	if e.text == nil {
		return types.ChatResponse{}, ErrDependencyUnavailable("text adapter not configured")
	}
	release, err := e.beginGeneration(ctx, "chat")
	if err != nil {
		return types.ChatResponse{}, err
	}
	defer release()

	if err := e.charge(req.UserID, costChat, "chat"); err != nil {
		return types.ChatResponse{}, err
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultChatMaxTokens
	}
	temp := req.Temperature
	if temp <= 0 {
		temp = 0.7
	}
	prompt := chatSystemPrompt + "\n\nUser: " + req.Message + "\nAssistant:"
	params := GenParams{
		Temperature: float32(temp),
		MaxTokens:   maxTokens,
		Stop:        []string{"\nUser:"},
	}

	var b strings.Builder
	final, err := e.text.Generate(ctx, prompt, params, func(tok string) error {
		b.WriteString(tok)
		return nil
	})
	if err != nil {
		e.refund(req.UserID, costChat, "chat")
		if ctx.Err() != nil {
			return types.ChatResponse{}, ctx.Err()
		}
		return types.ChatResponse{}, classifyRuntimeErr(err)
	}

	content := final.Content
	if content == "" {
		content = b.String()
	}
	resp := types.ChatResponse{
		Response: strings.TrimSpace(content),
		Pipeline: "chat",
	}
	if final.Usage.TotalTokens > 0 {
		resp.Usage = &types.UsageInfo{
			PromptTokens:     final.Usage.PromptTokens,
			CompletionTokens: final.Usage.CompletionTokens,
			TotalTokens:      final.Usage.TotalTokens,
		}
	}
	return resp, nil
}
