// Package summarize defines the page-summary collaborator interface and its
// implementations. The builder treats any failure here as degradable: callers
// substitute a fallback string and never abort a build.
package summarize

import (
	"context"
	"fmt"
)

// Summarizer produces a short synopsis of one page's content.
type Summarizer interface {
	SummarizePage(ctx context.Context, content string, pageNo int) (string, error)
}

// Disabled is the no-op summarizer used when no API key is configured. It
// always signals failure so callers fall back to the generic placeholder.
type Disabled struct{}

func (Disabled) SummarizePage(ctx context.Context, content string, pageNo int) (string, error) {
	return "", fmt.Errorf("summarizer disabled")
}
