package summarizer_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ollama/ollama/api"

	"newsbrief/internal/summarizer"
)

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream *bool  `json:"stream"`
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newOllama(t *testing.T, endpoint string) *summarizer.OllamaSummarizer {
	t.Helper()

	s, err := summarizer.NewOllamaSummarizer(endpoint, "", time.Second, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return s
}

func TestOllamaSummarizeSendsGenerateRequest(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2:3b","response":"* one\n* two","done":true}`))
	}))
	defer srv.Close()

	s := newOllama(t, srv.URL+"/api/generate")

	summary, err := s.Summarize(context.Background(), summarizer.Input{Text: "Article body"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary != "* one\n* two" {
		t.Fatalf("expected raw response text, got %q", summary)
	}

	if got.Model != summarizer.DefaultOllamaModel {
		t.Fatalf("unexpected model: %q", got.Model)
	}

	if got.Stream == nil || *got.Stream {
		t.Fatalf("expected stream to be explicitly false")
	}

	if !strings.Contains(got.Prompt, "exactly 5 bullet points") || !strings.Contains(got.Prompt, "---\nArticle body\n---") {
		t.Fatalf("unexpected prompt: %q", got.Prompt)
	}
}

func TestOllamaSummarizeMissingResponseField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"done":true}`))
	}))
	defer srv.Close()

	s := newOllama(t, srv.URL)

	summary, err := s.Summarize(context.Background(), summarizer.Input{Text: "Article body"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary != "Ollama failed to generate a summary." {
		t.Fatalf("unexpected summary: %q", summary)
	}
}

func TestOllamaSummarizeNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"model 'llama3.2:3b' not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	s := newOllama(t, srv.URL)

	_, err := s.Summarize(context.Background(), summarizer.Input{Text: "Article body"})
	if err == nil {
		t.Fatalf("expected an error for a 404 answer")
	}

	var statusErr api.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected api.StatusError with 404, got %#v", err)
	}

	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected status and body in error, got %q", err)
	}
}

func TestOllamaSummarizeKeepsEndpointPrefix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"response":"* one","done":true}`))
	}))
	defer srv.Close()

	s := newOllama(t, srv.URL+"/ollama/api/generate/")

	if _, err := s.Summarize(context.Background(), summarizer.Input{Text: "Article body"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/ollama/api/generate" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
}

func TestNewOllamaSummarizerRejectsRelativeURL(t *testing.T) {
	if _, err := summarizer.NewOllamaSummarizer("localhost-11434", "", time.Second, discardLogger()); err == nil {
		t.Fatalf("expected an error for a URL without scheme and host")
	}
}

func TestPromptDemandsFiveAsteriskBullets(t *testing.T) {
	prompt := summarizer.BuildPrompt("Body")

	for _, want := range []string{
		"exactly 5 bullet points",
		"asterisk (*)",
		"no introductory phrases",
		"Text to summarize:\n---\nBody\n---",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}
}
