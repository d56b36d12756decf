package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-retryablehttp"
)

// newRuntimeClient builds the retrying HTTP client shared by the remote
// adapters. Retries cover transient connection errors to a co-located runtime;
// generation requests themselves are not retried once a body has streamed.
func newRuntimeClient(timeout time.Duration) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = timeout
	c.Logger = nil
	return c
}

// OllamaTextAdapter generates text through an ollama-style runtime
// (POST /api/generate, NDJSON stream of {"response":..,"done":..} lines).
type OllamaTextAdapter struct {
	baseURL string
	model   string
	client  *retryablehttp.Client
}

func NewOllamaTextAdapter(baseURL, model string) *OllamaTextAdapter {
	return &OllamaTextAdapter{
		baseURL: baseURL,
		model:   model,
		client:  newRuntimeClient(120 * time.Second),
	}
}

// Warmup probes the runtime root until it answers, with exponential backoff.
// The runtime loads its model lazily; a reachable endpoint is our readiness bar.
func (a *OllamaTextAdapter) Warmup(ctx context.Context) error {
	probe := func() error {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := a.client.Do(req)
		if err != nil {
			return err
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("runtime unhealthy: %s", resp.Status)
		}
		return nil
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(probe, backoff.WithContext(bo, ctx)); err != nil {
		return ErrDependencyUnavailable(fmt.Sprintf("text runtime at %s unreachable: %v", a.baseURL, err))
	}
	return nil
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateLine struct {
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	DoneReason      string `json:"done_reason,omitempty"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
	Error           string `json:"error,omitempty"`
}

func (a *OllamaTextAdapter) Generate(ctx context.Context, prompt string, params GenParams, onToken func(string) error) (FinalResult, error) {
	opts := map[string]any{}
	if params.Temperature > 0 {
		opts["temperature"] = params.Temperature
	}
	if params.TopP > 0 {
		opts["top_p"] = params.TopP
	}
	if params.MaxTokens > 0 {
		opts["num_predict"] = params.MaxTokens
	}
	if len(params.Stop) > 0 {
		opts["stop"] = params.Stop
	}
	if params.Seed != 0 {
		opts["seed"] = params.Seed
	}
	body, err := json.Marshal(ollamaGenerateRequest{Model: a.model, Prompt: prompt, Stream: true, Options: opts})
	if err != nil {
		return FinalResult{}, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return FinalResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(req)
	if err != nil {
		return FinalResult{}, ErrDependencyUnavailable(fmt.Sprintf("text runtime request failed: %v", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return FinalResult{}, fmt.Errorf("text runtime returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var final FinalResult
	var b bytes.Buffer
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return FinalResult{}, err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk ollamaGenerateLine
		if err := json.Unmarshal(line, &chunk); err != nil {
			return FinalResult{}, fmt.Errorf("decode runtime chunk: %w", err)
		}
		if chunk.Error != "" {
			return FinalResult{}, fmt.Errorf("text runtime: %s", chunk.Error)
		}
		if chunk.Response != "" {
			if err := onToken(chunk.Response); err != nil {
				return FinalResult{}, err
			}
			b.WriteString(chunk.Response)
		}
		if chunk.Done {
			final.FinishReason = chunk.DoneReason
			if final.FinishReason == "" {
				final.FinishReason = "stop"
			}
			final.Usage = Usage{
				PromptTokens:     chunk.PromptEvalCount,
				CompletionTokens: chunk.EvalCount,
				TotalTokens:      chunk.PromptEvalCount + chunk.EvalCount,
			}
			break
		}
	}
	if err := sc.Err(); err != nil {
		return FinalResult{}, err
	}
	final.Content = b.String()
	return final, nil
}

func (a *OllamaTextAdapter) Close() error { return nil }

// HFImageAdapter generates images through a HuggingFace-style inference
// endpoint (POST {"inputs": prompt} -> raw image bytes).
type HFImageAdapter struct {
	endpoint string
	token    string
	client   *retryablehttp.Client
}

func NewHFImageAdapter(endpoint, token string) *HFImageAdapter {
	return &HFImageAdapter{
		endpoint: endpoint,
		token:    token,
		client:   newRuntimeClient(180 * time.Second),
	}
}

func (a *HFImageAdapter) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, ErrDependencyUnavailable(fmt.Sprintf("image runtime request failed: %v", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("image runtime returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image runtime returned empty body")
	}
	return data, nil
}

func (a *HFImageAdapter) Close() error { return nil }
