package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultGeminiURL is the generateContent endpoint used when none is configured.
const DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

const (
	generationTemperature = 0.7
	generationMaxTokens   = 4096
)

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey  string
	URL     string
	Timeout time.Duration
	Client  *http.Client // optional; overrides Timeout
}

// GeminiClient talks to a Gemini-compatible generateContent endpoint.
type GeminiClient struct {
	apiKey string
	url    string
	http   *http.Client
}

// NewGeminiClient creates a client from cfg.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	endpoint := cfg.URL
	if endpoint == "" {
		endpoint = DefaultGeminiURL
	}
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &GeminiClient{apiKey: cfg.APIKey, url: endpoint, http: client}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

// Generate sends prompt to the model and returns the raw generated text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     generationTemperature,
			MaxOutputTokens: generationMaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding model request: %w", err)
	}

	endpoint, err := c.requestURL()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The body is informational here; a failed read keeps what arrived.
		body, _ := io.ReadAll(resp.Body)
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading model response: %w", err)
	}
	return extractText(body)
}

// requestURL appends the API key as the "key" query parameter.
func (c *GeminiClient) requestURL() (string, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("invalid model URL %q: %w", c.url, err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// extractText pulls candidates[0].content.parts[0].text out of a response envelope.
func extractText(body []byte) (string, error) {
	var envelope any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", &ExtractionError{Reason: "response is not valid JSON", Envelope: string(body)}
	}

	fail := func(reason string) (string, error) {
		return "", &ExtractionError{Reason: reason, Envelope: string(body)}
	}

	root, ok := envelope.(map[string]any)
	if !ok {
		return fail("response is not an object")
	}
	candidates, ok := root["candidates"].([]any)
	if !ok || len(candidates) == 0 {
		return fail("no candidates")
	}
	candidate, ok := candidates[0].(map[string]any)
	if !ok {
		return fail("candidate is not an object")
	}
	content, ok := candidate["content"].(map[string]any)
	if !ok {
		return fail("candidate has no content")
	}
	parts, ok := content["parts"].([]any)
	if !ok || len(parts) == 0 {
		return fail("content has no parts")
	}
	part, ok := parts[0].(map[string]any)
	if !ok {
		return fail("part is not an object")
	}
	text, ok := part["text"].(string)
	if !ok {
		return fail("part has no text")
	}
	return text, nil
}
