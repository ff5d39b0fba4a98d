package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"syscall"
	"time"

	"newsbrief/internal/cache"
)

const (
	DefaultDelay    = 500 * time.Millisecond
	defaultCacheTTL = time.Hour
)

type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindUnavailable means the inference endpoint refused the connection.
	KindUnavailable
	KindFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnavailable:
		return "unavailable"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Result is either a summary or a failure already mapped to display text.
type Result struct {
	Text string
	Kind ErrorKind
	Err  error
}

func (r Result) Failed() bool {
	return r.Kind != KindNone
}

// Display is the text shown to the user whether or not the call succeeded.
func (r Result) Display() string {
	return r.Text
}

type ServiceConfig struct {
	CacheTTL        time.Duration
	CacheMaxEntries int
	// Delay is a cosmetic pause after every successful backend call.
	Delay time.Duration
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration)
}

// Service wraps a backend with caching and turns every failure into display
// text so one bad summary never aborts a batch.
type Service struct {
	backend Summarizer
	model   string
	cache   *cache.Cache[string]
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration)
	log     *slog.Logger
}

type modelNamer interface {
	Model() string
}

func NewService(backend Summarizer, cfg ServiceConfig, log *slog.Logger) *Service {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var model string
	if m, ok := backend.(modelNamer); ok {
		model = m.Model()
	}

	return &Service{
		backend: backend,
		model:   model,
		cache:   cache.New[string](ttl, cfg.CacheMaxEntries, cfg.Now),
		delay:   max(cfg.Delay, 0),
		sleep:   sleep,
		log:     log,
	}
}

func (s *Service) Name() string {
	return s.backend.Name()
}

// Summarize never returns an error: failures come back as a Result whose
// Text explains what went wrong.
func (s *Service) Summarize(ctx context.Context, text string) Result {
	key := s.cacheKey(text)

	if summary, ok := s.cache.Get(key); ok {
		return Result{Text: summary}
	}

	summary, err := s.backend.Summarize(ctx, Input{Text: text})
	if err != nil {
		result := s.failure(err)

		s.log.ErrorContext(ctx, "Failed to summarize article",
			"error", err,
			"backend", s.backend.Name(),
			"model", s.model,
			"kind", result.Kind.String(),
			"textLen", len(text))

		return result
	}

	s.sleep(ctx, s.delay)

	s.cache.Set(key, summary)

	return Result{Text: summary}
}

func (s *Service) failure(err error) Result {
	name := s.backend.Name()

	if IsUnreachable(err) {
		return Result{
			Text: fmt.Sprintf("%[1]s Error: %[1]s is not running. Please ensure the %[1]s app is open.", name),
			Kind: KindUnavailable,
			Err:  err,
		}
	}

	return Result{
		Text: fmt.Sprintf("%s Error: %v", name, err),
		Kind: KindFailed,
		Err:  err,
	}
}

func (s *Service) cacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))

	return strings.Join([]string{s.backend.Name(), s.model, hex.EncodeToString(hash[:])}, "|")
}

// IsUnreachable reports whether err means nothing is listening at the
// endpoint, judged by error type rather than message text. Name resolution
// failures are configuration errors, not a stopped server.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	return false
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
