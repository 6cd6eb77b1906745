package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	DefaultURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent"

	candidatePath = "candidates.0.content.parts.0.text"
	maxBodyBytes  = 1 << 20
)

var ErrMalformedResponse = errors.New("gemini: response has no text candidate")

type Config struct {
	APIKey     string
	URL        string
	HTTPClient *http.Client
}

// Client calls the Gemini generateContent REST endpoint.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.URL) == "" {
		cfg.URL = DefaultURL
	}
	return &Client{cfg: cfg}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type request struct {
	Contents []content `json:"contents"`
}

// GenerateText returns the first candidate's text. Non-2xx responses and
// responses without the candidate path are errors.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(request{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	endpoint, err := url.Parse(c.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("gemini: parse url: %w", err)
	}
	if c.cfg.APIKey != "" {
		q := endpoint.Query()
		q.Set("key", c.cfg.APIKey)
		endpoint.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("gemini: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(raw) {
		return "", ErrMalformedResponse
	}

	text := gjson.GetBytes(raw, candidatePath)
	if text.Type != gjson.String || text.Str == "" {
		return "", ErrMalformedResponse
	}
	return text.Str, nil
}
