package textsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Defaults for the generative provider.
const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel    = "gemini-2.5-flash"
	DefaultPrompt   = "Generate a random interesting paragraph about science, history, or technology for a typing test. It should be approximately 60-80 words long. Plain text only, no markdown."
	DefaultTimeout  = 8 * time.Second
)

// ErrNoAPIKey is returned when the generative provider has no key configured.
var ErrNoAPIKey = errors.New("no api key configured")

// GenerativeConfig configures a Generative source.
type GenerativeConfig struct {
	Endpoint string
	Model    string
	APIKey   string
	Prompt   string
	Timeout  time.Duration
	Client   *http.Client
}

// Generative asks a generateContent-style HTTP API for a passage.
type Generative struct {
	cfg    GenerativeConfig
	client *http.Client
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// NewGenerative returns a Generative source with defaults filled in.
func NewGenerative(cfg GenerativeConfig) *Generative {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Generative{cfg: cfg, client: client}
}

// Next implements Source.
func (g *Generative) Next(ctx context.Context) (string, error) {
	text, err := g.generate(ctx)
	if err != nil {
		return "", &ProviderError{Provider: "generative", Err: err}
	}
	return text, nil
}

func (g *Generative) generate(ctx context.Context) (string, error) {
	if g.cfg.APIKey == "" {
		return "", ErrNoAPIKey
	}
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: g.cfg.Prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(g.cfg.Endpoint, "/"), g.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected provider status: %s", resp.Status)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode provider response: %w", err)
	}
	var b strings.Builder
	for _, cand := range payload.Candidates {
		for _, part := range cand.Content.Parts {
			b.WriteString(part.Text)
		}
		if b.Len() > 0 {
			break
		}
	}
	text := strings.Join(strings.Fields(b.String()), " ")
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}
