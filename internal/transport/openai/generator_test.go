package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/docrelay/internal/domain"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGenerator(&Config{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1",
		Model:   "gpt-4o-mini",
	})
}

func TestGenerate(t *testing.T) {
	var gotModel string
	var gotPrompt string

	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotModel = req.Model
		if len(req.Messages) == 1 {
			gotPrompt = req.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "the answer"}}]
		}`))
	})

	text, err := gen.Generate(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "the answer" {
		t.Errorf("text: got %q", text)
	}
	if gotModel != "gpt-4o-mini" {
		t.Errorf("model: got %q", gotModel)
	}
	if gotPrompt != "summarize this" {
		t.Errorf("prompt: got %q", gotPrompt)
	}
}

func TestGenerate_APIErrorWrapsUnavailable(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit reached", "type": "requests"}}`))
	})

	_, err := gen.Generate(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, err := gen.Generate(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGenerate_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	gen := NewGenerator(&Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "gpt-4o-mini"})
	srv.Close()

	_, err := gen.Generate(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
