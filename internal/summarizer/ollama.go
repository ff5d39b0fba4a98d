package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultOllamaURL   = "http://localhost:11434/api/generate"
	DefaultOllamaModel = "llama3.2:3b"

	ollamaName          = "Ollama"
	ollamaClientTimeout = 2 * time.Minute
	ollamaGeneratePath  = "/api/generate"

	missingResponseText = "Ollama failed to generate a summary."
)

// OllamaSummarizer calls a local Ollama instance through its generate API.
type OllamaSummarizer struct {
	url    string
	model  string
	client *api.Client
	log    *slog.Logger
}

// NewOllamaSummarizer builds a summarizer for the given endpoint and model.
// Empty values fall back to the local defaults. The endpoint may be either
// the server root or the full generate URL.
func NewOllamaSummarizer(
	endpointURL string,
	model string,
	timeout time.Duration,
	log *slog.Logger,
) (*OllamaSummarizer, error) {
	endpointURL = strings.TrimSpace(endpointURL)
	if endpointURL == "" {
		endpointURL = DefaultOllamaURL
	}

	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultOllamaModel
	}

	if timeout <= 0 {
		timeout = ollamaClientTimeout
	}

	base, err := ollamaBaseURL(endpointURL)
	if err != nil {
		return nil, err
	}

	return &OllamaSummarizer{
		url:    endpointURL,
		model:  model,
		client: api.NewClient(base, &http.Client{Timeout: timeout}),
		log:    log,
	}, nil
}

func (s *OllamaSummarizer) Name() string {
	return ollamaName
}

func (s *OllamaSummarizer) Model() string {
	return s.model
}

// Summarize sends one non-streamed generate request and returns the raw
// response text. Non-2xx answers come back as api.StatusError.
func (s *OllamaSummarizer) Summarize(
	ctx context.Context,
	input Input,
) (string, error) {
	stream := false

	var summary strings.Builder
	err := s.client.Generate(ctx, &api.GenerateRequest{
		Model:  s.model,
		Prompt: BuildPrompt(input.Text),
		Stream: &stream,
	}, func(resp api.GenerateResponse) error {
		summary.WriteString(resp.Response)

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if summary.Len() == 0 {
		s.log.WarnContext(ctx, "Generate response has no text",
			"url", s.url,
			"model", s.model)

		return missingResponseText, nil
	}

	return summary.String(), nil
}

func ollamaBaseURL(endpointURL string) (*url.URL, error) {
	u, err := url.Parse(endpointURL)
	if err != nil {
		return nil, fmt.Errorf("parse Ollama URL: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse Ollama URL: %q has no scheme or host", endpointURL)
	}

	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), ollamaGeneratePath)
	u.RawPath = ""
	u.RawQuery = ""

	return u, nil
}
