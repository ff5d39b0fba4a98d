package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newsbrief/internal/config"
)

var configKeys = []string{
	"BIND_ADDR", "LOG_LEVEL",
	"NEWS_BASE_URL", "NEWS_LANGUAGE", "NEWS_COUNTRY", "NEWS_ARTICLE_COUNT", "NEWS_CACHE_TTL", "NEWS_TIMEOUT",
	"SUMMARIZER_PROVIDER", "OLLAMA_API_URL", "OLLAMA_MODEL", "OLLAMA_TIMEOUT",
	"OPENAI_API_KEY", "OPENAI_MODEL", "SUMMARY_CACHE_TTL", "SUMMARY_DELAY",
	"CACHE_MAX_ENTRIES",
}

// unsetConfigEnv removes every config variable for the duration of the test.
func unsetConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetConfigEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, ":8501", cfg.BindAddr)
	require.Equal(t, "https://news.google.com/rss", cfg.NewsBaseURL)
	require.Equal(t, "en", cfg.NewsLanguage)
	require.Equal(t, "IN", cfg.NewsCountry)
	require.Equal(t, 5, cfg.NewsArticleCount)
	require.Equal(t, time.Hour, cfg.NewsCacheTTL)
	require.Equal(t, config.ProviderOllama, cfg.SummarizerProvider)
	require.Equal(t, "http://localhost:11434/api/generate", cfg.OllamaURL)
	require.Equal(t, "llama3.2:3b", cfg.OllamaModel)
	require.Equal(t, time.Hour, cfg.SummaryCacheTTL)
	require.Equal(t, 500*time.Millisecond, cfg.SummaryDelay)
}

func TestLoadOverrides(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("BIND_ADDR", ":9090")
	t.Setenv("NEWS_COUNTRY", "GB")
	t.Setenv("NEWS_ARTICLE_COUNT", "3")
	t.Setenv("NEWS_CACHE_TTL", "30m")
	t.Setenv("SUMMARIZER_PROVIDER", " OpenAI ")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SUMMARY_DELAY", "0s")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.BindAddr)
	require.Equal(t, "GB", cfg.NewsCountry)
	require.Equal(t, 3, cfg.NewsArticleCount)
	require.Equal(t, 30*time.Minute, cfg.NewsCacheTTL)
	require.Equal(t, config.ProviderOpenAI, cfg.SummarizerProvider)
	require.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	require.Zero(t, cfg.SummaryDelay)
}

func TestLoadRejectsOpenAIWithoutKey(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("SUMMARIZER_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "  ")

	_, err := config.Load()
	require.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("SUMMARIZER_PROVIDER", "llamafile")

	_, err := config.Load()
	require.ErrorContains(t, err, "unknown SUMMARIZER_PROVIDER")
}

func TestLoadRejectsNonPositiveArticleCount(t *testing.T) {
	unsetConfigEnv(t)
	t.Setenv("NEWS_ARTICLE_COUNT", "0")

	_, err := config.Load()
	require.ErrorContains(t, err, "NEWS_ARTICLE_COUNT")
}
