package ctl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Client is a thin HTTP client for a running panelxd instance.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// NewClient builds a client for the daemon at baseURL (e.g. http://localhost:8000).
func NewClient(baseURL string) *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.RetryWaitMin = 100 * time.Millisecond
	c.RetryWaitMax = time.Second
	c.HTTPClient.Timeout = 5 * time.Minute
	c.Logger = nil
	return &Client{baseURL: baseURL, http: c}
}

func (c *Client) get(path string) ([]byte, error) {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s: %s", path, resp.Status, bytes.TrimSpace(body))
	}
	return body, nil
}

func (c *Client) postJSON(path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %s: %s", path, resp.Status, bytes.TrimSpace(out))
	}
	return out, nil
}

// Health probes /healthz.
func (c *Client) Health() error {
	_, err := c.get("/healthz")
	return err
}

// Ready probes /readyz.
func (c *Client) Ready() error {
	_, err := c.get("/readyz")
	return err
}

// Status fetches /status as raw JSON.
func (c *Client) Status() ([]byte, error) { return c.get("/status") }

// Models fetches /models as raw JSON.
func (c *Client) Models() ([]byte, error) { return c.get("/models") }

// Chat sends one chat message and returns the response JSON.
func (c *Client) Chat(message, userID string) ([]byte, error) {
	return c.postJSON("/api/chat/message", map[string]string{"message": message, "user_id": userID})
}

// Story streams the NDJSON story generation output line by line into w.
func (c *Client) Story(prompt, genre, userID string, w io.Writer) error {
	body, err := json.Marshal(map[string]string{"prompt": prompt, "genre": genre, "user_id": userID})
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequest(http.MethodPost, c.baseURL+"/api/stories/generate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("story: %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if _, err := fmt.Fprintln(w, sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Image requests one panel image and returns the response JSON.
func (c *Client) Image(prompt, style, userID string) ([]byte, error) {
	return c.postJSON("/api/images/generate", map[string]string{"prompt": prompt, "style": style, "user_id": userID})
}

// CreditsBalance fetches the balance for uid.
func (c *Client) CreditsBalance(uid string) ([]byte, error) {
	return c.get("/api/credits/balance/" + uid)
}

// SeriesList fetches the published series list.
func (c *Client) SeriesList() ([]byte, error) {
	return c.get("/api/series")
}
