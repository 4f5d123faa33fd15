package narrator

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Ellipsis is appended when an utterance is truncated to the configured
// maximum length.
const Ellipsis = "..."

var (
	vocalizeLineRe = regexp.MustCompile(`(?i)^vocalize\s*:\s*(.*)$`)
	vocalizeScanRe = regexp.MustCompile(`(?i)vocalize\s*:\s*([^\n]*)`)
)

// ParseResult is the structured outcome of parsing raw backend text.
type ParseResult struct {
	Vocalize  bool
	Utterance string
}

// ResponseParser turns free-form backend output into a decision. Backend
// formatting is never trusted: parsing is an ordered rule list with a
// fail-safe default of silence.
type ResponseParser struct {
	logger *zap.Logger
}

// NewResponseParser creates a parser.
func NewResponseParser(logger *zap.Logger) *ResponseParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseParser{logger: logger.With(zap.String("component", "parser"))}
}

// Parse applies the rule list in order:
//
//  1. only the first non-empty line counts; trailing reasoning is discarded
//  2. a SILENT prefix (case-insensitive) means silent
//  3. a VOCALIZE: directive on that line captures the utterance
//  4. otherwise the whole response is rescanned for VOCALIZE: anywhere,
//     for backends that preface the directive with commentary
//  5. anything else defaults to silent
//
// Utterances have one layer of wrapping double quotes stripped, are
// trimmed, and are truncated to maxUtteranceLength with an ellipsis.
func (p *ResponseParser) Parse(raw string, maxUtteranceLength int) ParseResult {
	firstLine := firstNonEmptyLine(raw)

	if firstLine != "" {
		if strings.HasPrefix(strings.ToUpper(firstLine), "SILENT") {
			return ParseResult{}
		}
		if m := vocalizeLineRe.FindStringSubmatch(firstLine); m != nil {
			return p.vocalize(m[1], maxUtteranceLength)
		}
	}

	if m := vocalizeScanRe.FindStringSubmatch(raw); m != nil {
		return p.vocalize(m[1], maxUtteranceLength)
	}

	p.logger.Debug("unparseable backend response, defaulting to silent",
		zap.String("raw", raw),
	)
	return ParseResult{}
}

func (p *ResponseParser) vocalize(rest string, maxUtteranceLength int) ParseResult {
	utterance := truncate(cleanUtterance(rest), maxUtteranceLength)
	if utterance == "" {
		p.logger.Debug("vocalize directive with empty utterance, defaulting to silent")
		return ParseResult{}
	}
	return ParseResult{Vocalize: true, Utterance: utterance}
}

// ParseSummary is deliberately lenient: it strips an accidental VOCALIZE:
// prefix and wrapping quotes, then returns the trimmed text verbatim.
func (p *ResponseParser) ParseSummary(raw string) string {
	text := strings.TrimSpace(raw)
	if m := vocalizeLineRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	return cleanUtterance(text)
}

func firstNonEmptyLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// cleanUtterance trims space and removes one layer of wrapping double quotes.
func cleanUtterance(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// truncate caps the utterance at maxLen characters, ellipsis included.
// maxLen <= 0 disables truncation.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	keep := maxLen - len(Ellipsis)
	if keep <= 0 {
		// No room for the ellipsis, hard cut.
		return string(runes[:maxLen])
	}
	return string(runes[:keep]) + Ellipsis
}
