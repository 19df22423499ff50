package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultSystemPrompt = "You write concise, factual e-commerce product descriptions of two to four sentences."

// OpenAIGenerator calls an OpenAI-compatible chat-completions endpoint.
// Callers wire it in only when an API key is configured; nothing in the
// core depends on it existing.
type OpenAIGenerator struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ Generator = (*OpenAIGenerator)(nil)

func NewOpenAIGenerator(endpoint, model, apiKey string) *OpenAIGenerator {
	return &OpenAIGenerator{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, pc PromptContext) (string, error) {
	if g == nil {
		return "", fmt.Errorf("generator is nil")
	}
	if g.apiKey == "" || g.endpoint == "" || g.model == "" {
		return "", fmt.Errorf("generator misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": defaultSystemPrompt},
			{"role": "user", "content": buildPrompt(pc)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("generator error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("generator returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func buildPrompt(pc PromptContext) string {
	var b strings.Builder
	b.WriteString("Write a product description for:\n")
	fmt.Fprintf(&b, "Title: %s\n", pc.Title)
	if pc.Brand != "" {
		fmt.Fprintf(&b, "Brand: %s\n", pc.Brand)
	}
	if pc.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", pc.Category)
	}
	for _, spec := range pickSpecs(pc.Attributes) {
		fmt.Fprintf(&b, "Attribute %s\n", spec)
	}
	return b.String()
}
