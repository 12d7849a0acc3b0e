// Package openai talks to the OpenAI HTTP API for speech-to-text and chat
// completions. Timeouts are left to the underlying transport; the
// orchestrator enforces none of its own.
package openai

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config selects models and credentials for both API surfaces.
type Config struct {
	APIKey       string
	BaseURL      string
	WhisperModel string
	Language     string
}

// Client is a thin HTTP client for the two OpenAI endpoints this service
// uses.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.WhisperModel == "" {
		cfg.WhisperModel = "whisper-1"
	}
	return &Client{
		cfg: cfg,
		// Long-running uploads: whole segments are posted in one request.
		httpClient: &http.Client{Timeout: 30 * time.Minute},
	}
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + path
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai http %d: %s", resp.StatusCode, excerpt(body))
	}
	return body, nil
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 500 {
		s = s[:500]
	}
	return s
}
