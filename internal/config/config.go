package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

type Config struct {
	BindAddr string `env:"BIND_ADDR" envDefault:":8501"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	NewsBaseURL      string        `env:"NEWS_BASE_URL"      envDefault:"https://news.google.com/rss"`
	NewsLanguage     string        `env:"NEWS_LANGUAGE"      envDefault:"en"`
	NewsCountry      string        `env:"NEWS_COUNTRY"       envDefault:"IN"`
	NewsArticleCount int           `env:"NEWS_ARTICLE_COUNT" envDefault:"5"`
	NewsCacheTTL     time.Duration `env:"NEWS_CACHE_TTL"     envDefault:"1h"`
	NewsTimeout      time.Duration `env:"NEWS_TIMEOUT"       envDefault:"20s"`

	SummarizerProvider string        `env:"SUMMARIZER_PROVIDER" envDefault:"ollama"`
	OllamaURL          string        `env:"OLLAMA_API_URL"      envDefault:"http://localhost:11434/api/generate"`
	OllamaModel        string        `env:"OLLAMA_MODEL"        envDefault:"llama3.2:3b"`
	OllamaTimeout      time.Duration `env:"OLLAMA_TIMEOUT"      envDefault:"2m"`
	OpenAIAPIKey       string        `env:"OPENAI_API_KEY"`
	OpenAIModel        string        `env:"OPENAI_MODEL"        envDefault:"gpt-5-mini"`
	SummaryCacheTTL    time.Duration `env:"SUMMARY_CACHE_TTL"   envDefault:"1h"`
	SummaryDelay       time.Duration `env:"SUMMARY_DELAY"       envDefault:"500ms"`

	CacheMaxEntries int `env:"CACHE_MAX_ENTRIES" envDefault:"1024"`
}

func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.SummarizerProvider = strings.ToLower(strings.TrimSpace(cfg.SummarizerProvider))
	cfg.OpenAIAPIKey = strings.TrimSpace(cfg.OpenAIAPIKey)

	if err = cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	var errs []error

	if c.NewsArticleCount <= 0 {
		errs = append(errs, errors.New("NEWS_ARTICLE_COUNT must be positive"))
	}
	if strings.TrimSpace(c.NewsBaseURL) == "" {
		errs = append(errs, errors.New("NEWS_BASE_URL is required"))
	}
	if c.NewsCacheTTL < 0 || c.SummaryCacheTTL < 0 {
		errs = append(errs, errors.New("cache TTLs cannot be negative"))
	}
	if c.SummaryDelay < 0 {
		errs = append(errs, errors.New("SUMMARY_DELAY cannot be negative"))
	}

	switch c.SummarizerProvider {
	case ProviderOllama:
		if strings.TrimSpace(c.OllamaURL) == "" {
			errs = append(errs, errors.New("OLLAMA_API_URL is required"))
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SUMMARIZER_PROVIDER %q", c.SummarizerProvider))
	}

	return errors.Join(errs...)
}
