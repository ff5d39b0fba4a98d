package domain

// MinArticleTextLength is the rune count an article snippet must exceed to be
// worth summarizing.
const MinArticleTextLength = 50

type Article struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

type FetchResult struct {
	Articles []Article
	Cached   bool
}
