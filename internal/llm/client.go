package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"foodietour/internal/config"
)

// Client calls an Ollama-compatible /api/generate endpoint. Callers treat
// any failure, transport or decode, as total lack of signal and fall back
// to their own deterministic path.
type Client struct {
	cfg  config.LLM
	http *http.Client
}

// NewClient returns a client bound to the provided configuration.
func NewClient(cfg config.LLM) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// StructuredJSON prompts for a bare JSON object and decodes it into out.
func (c *Client) StructuredJSON(ctx context.Context, system, user string, out any) error {
	prompt := system + "\n\nReturn ONLY a valid JSON object. Do not include code fences or extra text.\n\nUser:\n" + user
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("decode llm json: %w", err)
	}
	return nil
}

// GenerateText prompts for free text, truncated to maxChars when positive.
// An empty response is an error.
func (c *Client) GenerateText(ctx context.Context, system, user string, maxChars int) (string, error) {
	text, err := c.generate(ctx, system+"\n\nUser:\n"+user)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("llm returned empty response")
	}
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature": c.cfg.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call llm service: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm service status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("parse llm response: %w", err)
	}
	return gr.Response, nil
}
