package narrator

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/voiceflow/llm/tokenizer"
	"github.com/BaSui01/voiceflow/types"
)

const evaluateSystemPrompt = `You narrate a working AI agent's activity to its user over voice.
You receive one new activity snippet plus recent context. Decide whether it
is worth saying out loud. Most activity is not: do not narrate every step,
only meaningful findings, errors, decisions, and completions.

Reply with exactly one of:
SILENT
VOCALIZE: <one short spoken sentence>

Keep utterances conversational and under %d characters. Never repeat the
last spoken utterance.`

const summarySystemPrompt = `You narrate a working AI agent's activity to its user over voice.
Summarize the recent activity below in one or two short spoken sentences.
Plain conversational language, no lists, no markup.`

// promptBuilder formats snippets into completion prompts, keeping the
// history portion inside a token budget.
type promptBuilder struct {
	counter tokenizer.Tokenizer
	logger  *zap.Logger
}

func newPromptBuilder(counter tokenizer.Tokenizer, logger *zap.Logger) *promptBuilder {
	if counter == nil {
		counter = tokenizer.NewEstimatorTokenizer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &promptBuilder{counter: counter, logger: logger}
}

// EvaluationPrompt builds the system and user prompts for one snippet.
func (pb *promptBuilder) EvaluationPrompt(s types.Snippet, history []types.Snippet, lastUtterance string, maxContextTokens, maxUtteranceLength int) (string, string) {
	var b strings.Builder
	b.WriteString("New activity:\n")
	b.WriteString(formatSnippet(s))
	b.WriteString("\n")

	if ctx := pb.historyText(history, maxContextTokens); ctx != "" {
		b.WriteString("\nRecent activity:\n")
		b.WriteString(ctx)
	}
	if lastUtterance != "" {
		b.WriteString("\nLast spoken utterance: ")
		b.WriteString(lastUtterance)
		b.WriteString("\n")
	}

	return fmt.Sprintf(evaluateSystemPrompt, maxUtteranceLength), b.String()
}

// SummaryPrompt builds the prompts for an on-demand summary.
func (pb *promptBuilder) SummaryPrompt(history []types.Snippet, maxContextTokens int) (string, string) {
	return summarySystemPrompt, pb.historyText(history, maxContextTokens)
}

// historyText renders history newest-last, dropping the oldest lines first
// when the token budget is exceeded.
func (pb *promptBuilder) historyText(history []types.Snippet, maxContextTokens int) string {
	if len(history) == 0 {
		return ""
	}

	lines := make([]string, 0, len(history))
	used := 0
	for i := len(history) - 1; i >= 0; i-- {
		line := formatSnippet(history[i])
		cost := pb.countTokens(line)
		if maxContextTokens > 0 && used+cost > maxContextTokens && len(lines) > 0 {
			break
		}
		lines = append(lines, line)
		used += cost
	}

	// Collected newest-first; restore chronological order.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n")
}

func (pb *promptBuilder) countTokens(text string) int {
	n, err := pb.counter.CountTokens(text)
	if err != nil {
		pb.logger.Warn("token count failed, falling back to estimate", zap.Error(err))
		return len(text) / 4
	}
	return n
}

func formatSnippet(s types.Snippet) string {
	return fmt.Sprintf("[%s/%s/%s] %s", s.Source, s.Type, s.Priority, s.Content)
}
