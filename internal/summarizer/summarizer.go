package summarizer

import (
	"context"
)

// Input describes the payload for a summary request.
type Input struct {
	// Text contains the article snippet to summarise.
	Text string
}

// Summarizer is one inference backend. Name is shown to users in progress and
// error messages.
type Summarizer interface {
	Summarize(ctx context.Context, input Input) (string, error)
	Name() string
}
