package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"

	"newsbrief/internal/cache"
	"newsbrief/internal/domain"
)

const (
	DefaultArticleCount = 5

	defaultClientTimeout = 20 * time.Second
	defaultCacheTTL      = time.Hour

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"
)

type Config struct {
	BaseURL         string
	Language        string
	Country         string
	ArticleCount    int
	CacheTTL        time.Duration
	CacheMaxEntries int
	Timeout         time.Duration
	// Now overrides the cache clock in tests.
	Now func() time.Time
}

// Fetcher searches the news provider for a topic and keeps only entries with a
// usable snippet.
type Fetcher struct {
	baseURL      string
	language     string
	country      string
	articleCount int
	libParser    *gofeed.Parser
	cache        *cache.Cache[[]domain.Article]
	log          *slog.Logger
}

func NewFetcher(cfg Config, log *slog.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	articleCount := cfg.ArticleCount
	if articleCount <= 0 {
		articleCount = DefaultArticleCount
	}

	libParser := gofeed.NewParser()
	libParser.UserAgent = userAgent
	libParser.Client = &http.Client{Timeout: timeout}

	return &Fetcher{
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		language:     strings.TrimSpace(cfg.Language),
		country:      strings.TrimSpace(cfg.Country),
		articleCount: articleCount,
		libParser:    libParser,
		cache:        cache.New[[]domain.Article](ttl, cfg.CacheMaxEntries, cfg.Now),
		log:          log,
	}
}

// Fetch returns up to count articles for topic in provider order. A count of
// zero or less uses the configured default. Results are cached per topic;
// provider failures are returned and never cached.
func (f *Fetcher) Fetch(
	ctx context.Context,
	topic string,
	count int,
) (domain.FetchResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.FetchResult{}, errors.New("topic is empty")
	}

	if count <= 0 {
		count = f.articleCount
	}

	articles, cached, err := f.cache.GetOrCompute(
		fetchCacheKey(topic, count),
		func() ([]domain.Article, error) {
			return f.search(ctx, topic, count)
		},
	)
	if err != nil {
		return domain.FetchResult{}, err
	}

	if cached {
		f.log.DebugContext(ctx, "News are served from cache",
			"topic", topic,
			"articleCount", len(articles))
	}

	return domain.FetchResult{
		Articles: slices.Clone(articles),
		Cached:   cached,
	}, nil
}

func (f *Fetcher) search(
	ctx context.Context,
	topic string,
	count int,
) ([]domain.Article, error) {
	searchURL, err := SearchURL(f.baseURL, topic, f.language, f.country)
	if err != nil {
		return nil, fmt.Errorf("build search URL: %w", err)
	}

	parsed, err := f.libParser.ParseURLWithContext(searchURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed (topic = %s): %w", topic, err)
	}

	items := parsed.Items
	if len(items) > count {
		items = items[:count]
	}

	articles := make([]domain.Article, 0, len(items))
	for _, item := range items {
		article, ok := f.parseItem(ctx, topic, item)
		if !ok {
			continue
		}

		articles = append(articles, article)
	}

	f.log.InfoContext(ctx, "News are fetched",
		"topic", topic,
		"entryCount", len(parsed.Items),
		"articleCount", len(articles))

	return articles, nil
}

func (f *Fetcher) parseItem(
	ctx context.Context,
	topic string,
	item *gofeed.Item,
) (domain.Article, bool) {
	if item == nil {
		return domain.Article{}, false
	}

	rawSummary := strings.TrimSpace(item.Description)
	if rawSummary == "" {
		rawSummary = strings.TrimSpace(item.Content)
	}

	// The length rule applies to the summary field as served, markup included.
	if !UsableText(rawSummary) {
		f.log.DebugContext(ctx, "Skipping news entry without usable summary",
			"topic", topic,
			"title", item.Title,
			"summaryLen", utf8.RuneCountInString(rawSummary))

		return domain.Article{}, false
	}

	text := SnippetText(rawSummary)
	if text == "" {
		text = rawSummary
	}

	articleURL := strings.TrimSpace(item.Link)
	if articleURL == "" {
		articleURL = firstHTTPSURL(rawSummary)
	}

	title := strings.TrimSpace(item.Title)

	if articleURL == "" {
		f.log.WarnContext(ctx, "Skipping news entry with empty URL",
			"topic", topic,
			"title", title)

		return domain.Article{}, false
	}

	if title == "" {
		title = articleURL
	}

	return domain.Article{
		Title: title,
		Text:  text,
		URL:   articleURL,
	}, true
}

func fetchCacheKey(topic string, count int) string {
	return fmt.Sprintf("%d|%s", count, topic)
}
