package news

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"mvdan.cc/xurls/v2"

	"newsbrief/internal/domain"
)

// SearchURL builds the provider search URL for a topic in the given locale.
func SearchURL(baseURL, topic, language, country string) (string, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return "", errors.New("base URL is empty")
	}

	searchURL, err := url.JoinPath(baseURL, "search")
	if err != nil {
		return "", fmt.Errorf("join path: %w", err)
	}

	u, err := url.Parse(searchURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}

	q := url.Values{}
	q.Set("q", strings.TrimSpace(topic))
	if language != "" {
		q.Set("hl", language)
	}
	if country != "" {
		q.Set("gl", country)
	}
	if language != "" && country != "" {
		q.Set("ceid", country+":"+language)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// SnippetText strips markup from a feed summary and collapses whitespace.
func SnippetText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.Join(strings.Fields(raw), " ")
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}

// UsableText reports whether a raw feed summary is long enough to summarize.
func UsableText(text string) bool {
	return utf8.RuneCountInString(text) > domain.MinArticleTextLength
}

func firstHTTPSURL(raw string) string {
	httpsURLRe, err := xurls.StrictMatchingScheme("https://")
	if err != nil {
		return ""
	}

	return strings.TrimSpace(httpsURLRe.FindString(raw))
}
