package narrator

import (
	"fmt"
	"strings"

	"github.com/BaSui01/voiceflow/types"
)

// Fixed phrases produced when the completion backend is unavailable.
const (
	FallbackCriticalUtterance = "Something important came up."
	FallbackHighUtterance     = "Found something."

	// SummaryIdle is returned for summaries over an empty buffer.
	SummaryIdle = "Nothing much happening right now."
)

// fallbackHighlights caps how many finding/error snippets a degraded
// summary quotes.
const fallbackHighlights = 3

// FallbackPolicy is the deterministic decision table used whenever the
// backend is unavailable or a call fails. It is identical for every
// provider variant.
type FallbackPolicy struct{}

// Decide maps priority straight to a decision: critical and high vocalize
// fixed phrases, everything else stays silent.
func (FallbackPolicy) Decide(p types.Priority) ParseResult {
	switch p {
	case types.PriorityCritical:
		return ParseResult{Vocalize: true, Utterance: FallbackCriticalUtterance}
	case types.PriorityHigh:
		return ParseResult{Vocalize: true, Utterance: FallbackHighUtterance}
	default:
		return ParseResult{}
	}
}

// Summarize produces a degraded but usable summary from the buffer alone:
// the last few findings/errors joined with commas and prefixed with a
// count, or a generic progress line when none qualify.
func (FallbackPolicy) Summarize(buffered []types.Snippet) string {
	if len(buffered) == 0 {
		return SummaryIdle
	}

	var highlights []string
	for i := len(buffered) - 1; i >= 0 && len(highlights) < fallbackHighlights; i-- {
		s := buffered[i]
		if s.Type == types.TypeFinding || s.Type == types.TypeError {
			highlights = append(highlights, s.Content)
		}
	}
	if len(highlights) == 0 {
		return fmt.Sprintf("Working on %d things.", len(buffered))
	}

	// Restore chronological order.
	for i, j := 0, len(highlights)-1; i < j; i, j = i+1, j-1 {
		highlights[i], highlights[j] = highlights[j], highlights[i]
	}
	return fmt.Sprintf("%d notable updates: %s", len(highlights), strings.Join(highlights, ", "))
}
