package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"newsbrief/internal/domain"
	"newsbrief/internal/summarizer"
)

const (
	PageTitle = "Daily Indian News Summarizer"

	defaultRegion      = "India"
	defaultCacheWindow = time.Hour
)

type Fetcher interface {
	Fetch(ctx context.Context, topic string, count int) (domain.FetchResult, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) summarizer.Result
	Name() string
}

type Options struct {
	ArticleCount int
	// Region names the provider locale in user messages.
	Region string
	// CacheWindow is the news cache TTL as announced to the user.
	CacheWindow time.Duration
}

// Controller turns one topic submission into a Page. It owns no business
// logic and keeps no UI state between submissions.
type Controller struct {
	mu          sync.Mutex
	fetcher     Fetcher
	summarizer  Summarizer
	count       int
	region      string
	cacheWindow time.Duration
	log         *slog.Logger
}

func New(fetcher Fetcher, s Summarizer, opts Options, log *slog.Logger) *Controller {
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = defaultRegion
	}

	cacheWindow := opts.CacheWindow
	if cacheWindow <= 0 {
		cacheWindow = defaultCacheWindow
	}

	return &Controller{
		fetcher:     fetcher,
		summarizer:  s,
		count:       opts.ArticleCount,
		region:      region,
		cacheWindow: cacheWindow,
		log:         log,
	}
}

// EmptyPage is the page shown before anything is submitted.
func (c *Controller) EmptyPage() Page {
	return Page{
		Title:   PageTitle,
		Backend: c.summarizer.Name(),
	}
}

// Submit runs fetch, then one summary per article in order. Provider failures
// are returned; summary failures are rendered inline. Submissions never
// overlap.
func (c *Controller) Submit(ctx context.Context, topic string) (Page, error) {
	page := c.EmptyPage()

	topic = strings.TrimSpace(topic)
	page.Topic = topic

	if topic == "" {
		page.addStatus(LevelError, "Please enter a news topic to search.")

		return page, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()

	result, err := c.fetcher.Fetch(ctx, topic, c.count)
	if err != nil {
		return page, fmt.Errorf("fetch news: %w", err)
	}

	if !result.Cached {
		page.addStatus(LevelInfo, fmt.Sprintf(
			"Fetching NEW data for '%s' (Cached for %s)...",
			topic, humanizeWindow(c.cacheWindow),
		))
	}

	if len(result.Articles) == 0 {
		page.addStatus(LevelWarning, fmt.Sprintf(
			"No recent news found for '%s' in %s. Try a different keyword.",
			topic, c.region,
		))

		c.log.InfoContext(ctx, "No usable news found",
			"topic", topic,
			"cached", result.Cached)

		return page, nil
	}

	page.Heading = "Top Summaries for: " + strings.ToUpper(topic)
	page.Sections = make([]Section, 0, len(result.Articles))

	failed := 0
	for i, article := range result.Articles {
		summary := c.summarizer.Summarize(ctx, article.Text)
		if summary.Failed() {
			failed++
		}

		page.Sections = append(page.Sections, Section{
			Index:   i + 1,
			Title:   article.Title,
			Summary: summary.Display(),
			URL:     article.URL,
			Failed:  summary.Failed(),
		})
	}

	page.addStatus(LevelSuccess, "Summarization Complete!")

	c.log.InfoContext(ctx, "Topic is summarized",
		"topic", topic,
		"cached", result.Cached,
		"articleCount", len(page.Sections),
		"failedCount", failed,
		"durationSeconds", time.Since(start).Seconds())

	return page, nil
}

func humanizeWindow(d time.Duration) string {
	switch {
	case d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}

	return fmt.Sprintf("%d %ss", n, unit)
}
