package types

// Verbosity is the single user-facing dial controlling how aggressively
// snippets are pre-filtered before backend evaluation.
type Verbosity string

const (
	VerbositySilent  Verbosity = "silent"
	VerbosityMinimal Verbosity = "minimal"
	VerbosityNormal  Verbosity = "normal"
	VerbosityVerbose Verbosity = "verbose"
)

// Valid reports whether the verbosity is one of the known levels.
func (v Verbosity) Valid() bool {
	switch v {
	case VerbositySilent, VerbosityMinimal, VerbosityNormal, VerbosityVerbose:
		return true
	}
	return false
}

// NarratorConfig holds the per-session tunables of a narrator engine.
// It is mutated in place via shallow merges and is independent per instance.
type NarratorConfig struct {
	Verbosity          Verbosity `json:"verbosity" yaml:"verbosity"`
	CooldownMs         int64     `json:"cooldown_ms" yaml:"cooldown_ms"`
	ContextWindowMs    int64     `json:"context_window_ms" yaml:"context_window_ms"`
	MaxUtteranceLength int       `json:"max_utterance_length" yaml:"max_utterance_length"`
	// MaxContextTokens bounds how much buffered history is formatted into
	// evaluation prompts. Zero uses the default budget.
	MaxContextTokens int `json:"max_context_tokens" yaml:"max_context_tokens"`
}

// DefaultNarratorConfig returns the defaults used when fields are unset.
func DefaultNarratorConfig() NarratorConfig {
	return NarratorConfig{
		Verbosity:          VerbosityNormal,
		CooldownMs:         8000,
		ContextWindowMs:    120000,
		MaxUtteranceLength: 160,
		MaxContextTokens:   512,
	}
}

// ConfigPatch is a partial NarratorConfig for shallow merges. Nil fields
// leave the existing value untouched.
type ConfigPatch struct {
	Verbosity          *Verbosity `json:"verbosity,omitempty"`
	CooldownMs         *int64     `json:"cooldown_ms,omitempty"`
	ContextWindowMs    *int64     `json:"context_window_ms,omitempty"`
	MaxUtteranceLength *int       `json:"max_utterance_length,omitempty"`
	MaxContextTokens   *int       `json:"max_context_tokens,omitempty"`
}

// Apply merges the patch into cfg, field by field.
func (p ConfigPatch) Apply(cfg *NarratorConfig) {
	if p.Verbosity != nil {
		cfg.Verbosity = *p.Verbosity
	}
	if p.CooldownMs != nil {
		cfg.CooldownMs = *p.CooldownMs
	}
	if p.ContextWindowMs != nil {
		cfg.ContextWindowMs = *p.ContextWindowMs
	}
	if p.MaxUtteranceLength != nil {
		cfg.MaxUtteranceLength = *p.MaxUtteranceLength
	}
	if p.MaxContextTokens != nil {
		cfg.MaxContextTokens = *p.MaxContextTokens
	}
}
