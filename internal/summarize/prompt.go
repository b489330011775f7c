package summarize

import (
	"fmt"
	"strings"
)

// maxSummaryWords bounds the synopsis length requested from the model and
// enforced on its reply.
const maxSummaryWords = 15

// maxPromptChars caps how much page content goes into one prompt.
const maxPromptChars = 6000

// BuildPagePrompt creates the summarization prompt for one page's merged
// chunk content.
func BuildPagePrompt(content string, pageNo int) string {
	if len(content) > maxPromptChars {
		content = content[:maxPromptChars]
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Summarize the following document page in at most %d words.\n", maxSummaryWords)
	sb.WriteString("State the main topic directly, no preamble, no quotes.\n\n")
	fmt.Fprintf(&sb, "--- Page %d ---\n", pageNo)
	sb.WriteString(content)
	return sb.String()
}
