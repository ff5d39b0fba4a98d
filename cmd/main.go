package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"newsbrief/internal/config"
	"newsbrief/internal/digest"
	"newsbrief/internal/logger"
	"newsbrief/internal/news"
	"newsbrief/internal/summarizer"
	"newsbrief/internal/web"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	// One submission summarizes every article sequentially.
	writeTimeout    = 15 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	bootLog := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		bootLog.Error("Failed to load .env file",
			"error", err)

		return
	}

	cfg, err := config.Load()
	if err != nil {
		bootLog.Error("Failed to load config",
			"error", err)

		return
	}

	log := logger.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(log)

	start := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := news.NewFetcher(news.Config{
		BaseURL:         cfg.NewsBaseURL,
		Language:        cfg.NewsLanguage,
		Country:         cfg.NewsCountry,
		ArticleCount:    cfg.NewsArticleCount,
		CacheTTL:        cfg.NewsCacheTTL,
		CacheMaxEntries: cfg.CacheMaxEntries,
		Timeout:         cfg.NewsTimeout,
	}, log)
	log.InfoContext(ctx, "News fetcher is initialized",
		"baseURL", cfg.NewsBaseURL,
		"language", cfg.NewsLanguage,
		"country", cfg.NewsCountry,
		"cacheTTL", cfg.NewsCacheTTL.String())

	backend, err := initSummarizer(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize summarizer",
			"error", err,
			"provider", cfg.SummarizerProvider)

		return
	}

	svc := summarizer.NewService(backend, summarizer.ServiceConfig{
		CacheTTL:        cfg.SummaryCacheTTL,
		CacheMaxEntries: cfg.CacheMaxEntries,
		Delay:           cfg.SummaryDelay,
	}, log)

	controller := digest.New(fetcher, svc, digest.Options{
		ArticleCount: cfg.NewsArticleCount,
		CacheWindow:  cfg.NewsCacheTTL,
	}, log)

	srv, err := web.New(controller, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize web server",
			"error", err)

		return
	}

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()
	log.InfoContext(ctx, "Web server is started",
		"addr", cfg.BindAddr)

	select {
	case err = <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "Web server is stopped unexpectedly",
				"error", err,
				"addr", cfg.BindAddr)
		}

		return
	case <-ctx.Done():
	}

	log.InfoContext(ctx, "Shutdown signal is received",
		"uptimeSeconds", time.Since(start).Seconds())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(shutdownCtx, "Failed to shut down web server",
			"error", err)
	}

	log.InfoContext(shutdownCtx, "Web server is stopped",
		"uptimeSeconds", time.Since(start).Seconds())
}

func initSummarizer(
	ctx context.Context,
	cfg config.Config,
	log *slog.Logger,
) (summarizer.Summarizer, error) {
	switch cfg.SummarizerProvider {
	case config.ProviderOpenAI:
		s, err := summarizer.NewOpenAISummarizer(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, err
		}

		log.InfoContext(ctx, "OpenAI summarizer is initialized",
			"provider", cfg.SummarizerProvider,
			"model", s.Model())

		return s, nil
	default:
		s, err := summarizer.NewOllamaSummarizer(cfg.OllamaURL, cfg.OllamaModel, cfg.OllamaTimeout, log)
		if err != nil {
			return nil, err
		}

		log.InfoContext(ctx, "Ollama summarizer is initialized",
			"provider", cfg.SummarizerProvider,
			"url", cfg.OllamaURL,
			"model", s.Model())

		return s, nil
	}
}
