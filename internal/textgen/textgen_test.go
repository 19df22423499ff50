package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTemplateGeneratorDeterministic(t *testing.T) {
	t.Parallel()

	pc := PromptContext{
		Title:      "Wireless Speaker",
		Brand:      "Acme",
		Category:   "Electronics",
		Attributes: map[string]string{"material": "aluminum", "color": "black"},
	}
	g := NewTemplateGenerator()

	first, err := g.Generate(context.Background(), pc)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := g.Generate(context.Background(), pc)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first != second {
		t.Errorf("outputs differ:\n%q\n%q", first, second)
	}

	for _, fragment := range []string{
		"Discover the exceptional Wireless Speaker.",
		"Key specifications include material: aluminum, color: black.",
		"Perfect for electronics applications.",
		"Backed by Acme's commitment to quality and performance.",
		"Experience the difference today.",
	} {
		if !strings.Contains(first, fragment) {
			t.Errorf("output missing %q:\n%s", fragment, first)
		}
	}
}

func TestTemplateGeneratorBrandFallback(t *testing.T) {
	t.Parallel()

	text, err := NewTemplateGenerator().Generate(context.Background(), PromptContext{Brand: "Acme"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(text, "Acme product") {
		t.Errorf("output = %q, want brand fallback name", text)
	}
}

func TestTemplateGeneratorNeedsTitleOrBrand(t *testing.T) {
	t.Parallel()

	if _, err := NewTemplateGenerator().Generate(context.Background(), PromptContext{}); err == nil {
		t.Fatal("expected an error without a title or brand")
	}
}

func TestTemplateGeneratorSpecLimit(t *testing.T) {
	t.Parallel()

	pc := PromptContext{
		Title:      "Widget",
		Attributes: map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"},
	}
	text, err := NewTemplateGenerator().Generate(context.Background(), pc)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(text, "a: 1, b: 2, c: 3") {
		t.Errorf("output = %q, want first three specs in stable order", text)
	}
	if strings.Contains(text, "d: 4") {
		t.Errorf("output = %q, want at most three specs", text)
	}
}

func TestOpenAIGenerator(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}

		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Model != "test-model" {
			t.Errorf("model = %q", payload.Model)
		}
		if len(payload.Messages) != 2 || !strings.Contains(payload.Messages[1].Content, "Wireless Speaker") {
			t.Errorf("messages = %+v", payload.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  A fine product.  "}}]}`))
	}))
	defer server.Close()

	g := NewOpenAIGenerator(server.URL, "test-model", "test-key")
	text, err := g.Generate(context.Background(), PromptContext{Title: "Wireless Speaker"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "A fine product." {
		t.Errorf("text = %q, want trimmed content", text)
	}
}

func TestOpenAIGeneratorServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	g := NewOpenAIGenerator(server.URL, "test-model", "test-key")
	if _, err := g.Generate(context.Background(), PromptContext{Title: "Widget"}); err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
}

func TestOpenAIGeneratorNoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	g := NewOpenAIGenerator(server.URL, "test-model", "test-key")
	if _, err := g.Generate(context.Background(), PromptContext{Title: "Widget"}); err == nil {
		t.Fatal("expected an error for an empty choices list")
	}
}

func TestOpenAIGeneratorMisconfigured(t *testing.T) {
	t.Parallel()

	g := NewOpenAIGenerator("", "", "")
	if _, err := g.Generate(context.Background(), PromptContext{Title: "Widget"}); err == nil {
		t.Fatal("expected an error without endpoint, model and key")
	}
}
