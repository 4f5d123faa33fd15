package narrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/voiceflow/llm"
	"github.com/BaSui01/voiceflow/llm/tokenizer"
	"github.com/BaSui01/voiceflow/types"
)

// Completion parameters for the two prompt kinds. Utterances are a
// sentence; summaries get more room.
const (
	evalMaxTokens      = 80
	evalTemperature    = 0.4
	summaryMaxTokens   = 200
	summaryTemperature = 0.5
)

// Engine is the per-session decision engine. It owns the context buffer,
// cooldown tracker, and last-utterance state for one conversational
// session.
//
// Engine is not internally synchronized: callers serialize Ingest and
// Summarize per session, which a single conversational turn at a time
// yields naturally. Distinct engines share nothing.
type Engine struct {
	cfg       types.NarratorConfig
	buffer    *ContextBuffer
	cooldowns *CooldownTracker
	provider  llm.Provider
	parser    *ResponseParser
	fallback  FallbackPolicy
	prompts   *promptBuilder
	logger    *zap.Logger

	lastUtterance string
	now           func() time.Time
}

// NewEngine creates an engine. Zero-valued config fields are filled from
// DefaultNarratorConfig; the provider is the sole external dependency.
func NewEngine(cfg types.NarratorConfig, provider llm.Provider, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "narrator"))

	def := types.DefaultNarratorConfig()
	if cfg.Verbosity == "" {
		cfg.Verbosity = def.Verbosity
	}
	if cfg.CooldownMs == 0 {
		cfg.CooldownMs = def.CooldownMs
	}
	if cfg.ContextWindowMs == 0 {
		cfg.ContextWindowMs = def.ContextWindowMs
	}
	if cfg.MaxUtteranceLength == 0 {
		cfg.MaxUtteranceLength = def.MaxUtteranceLength
	}
	if cfg.MaxContextTokens == 0 {
		cfg.MaxContextTokens = def.MaxContextTokens
	}

	return &Engine{
		cfg:       cfg,
		buffer:    NewContextBuffer(cfg.ContextWindowMs),
		cooldowns: NewCooldownTracker(),
		provider:  provider,
		parser:    NewResponseParser(logger),
		prompts:   newPromptBuilder(nil, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// WithTokenizer swaps the token counter used for prompt budgeting.
func (e *Engine) WithTokenizer(counter tokenizer.Tokenizer) *Engine {
	e.prompts = newPromptBuilder(counter, e.logger)
	return e
}

// WithClock overrides the time source. Intended for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Ingest runs one snippet through the decision pipeline and never fails:
// every error mode resolves to a valid Decision.
//
// The snippet is buffered unconditionally, then cheap gates run before the
// backend is consulted: silent verbosity, per-type cooldown, verbosity
// filter. Cooldown and last-utterance state advance only when a live
// backend call succeeds and parses as a vocalization.
func (e *Engine) Ingest(ctx context.Context, s types.Snippet) types.Decision {
	start := e.now()
	nowMs := start.UnixMilli()
	if s.Timestamp == 0 {
		s.Timestamp = nowMs
	}

	e.buffer.Add(s, nowMs)

	if e.cfg.Verbosity == types.VerbositySilent {
		return types.Silent(e.latencyMs(start))
	}
	if e.cooldowns.IsOnCooldown(s.Type, nowMs, e.cfg.CooldownMs) {
		e.logger.Debug("suppressed by cooldown",
			zap.String("type", string(s.Type)),
		)
		return types.Silent(e.latencyMs(start))
	}
	if !ShouldVocalize(s.Priority, s.Type, e.cfg.Verbosity) {
		return types.Silent(e.latencyMs(start))
	}

	result, live := e.evaluate(ctx, s)
	if !result.Vocalize {
		return types.Silent(e.latencyMs(start))
	}
	if live {
		e.cooldowns.MarkVocalized(s.Type, e.now().UnixMilli())
		e.lastUtterance = result.Utterance
	}
	return types.Vocalize(result.Utterance, e.latencyMs(start))
}

// evaluate consults the backend. live reports whether the result came from
// a successful call, as opposed to the fallback table; fallback outcomes
// must never advance cooldown or last-utterance state.
func (e *Engine) evaluate(ctx context.Context, s types.Snippet) (ParseResult, bool) {
	system, user := e.prompts.EvaluationPrompt(s, e.buffer.Snapshot(), e.lastUtterance, e.cfg.MaxContextTokens, e.cfg.MaxUtteranceLength)

	resp, err := e.provider.Complete(ctx, &llm.CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   evalMaxTokens,
		Temperature: evalTemperature,
	})
	if err != nil {
		e.logger.Warn("provider call failed, using fallback policy",
			zap.String("provider", e.provider.Name()),
			zap.Bool("unavailable", llm.IsUnavailable(err)),
			zap.Error(err),
		)
		return e.fallback.Decide(s.Priority), false
	}

	return e.parser.Parse(resp.Text, e.cfg.MaxUtteranceLength), true
}

// Summarize produces a spoken summary of recent activity. It never fails:
// an empty buffer yields a fixed idle sentence and backend failures degrade
// to a deterministic summary built from the buffer alone.
func (e *Engine) Summarize(ctx context.Context) string {
	snapshot := e.buffer.Snapshot()
	if len(snapshot) == 0 {
		return SummaryIdle
	}

	system, user := e.prompts.SummaryPrompt(snapshot, e.cfg.MaxContextTokens)
	resp, err := e.provider.Complete(ctx, &llm.CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
	if err != nil {
		e.logger.Warn("summary call failed, using fallback summary",
			zap.String("provider", e.provider.Name()),
			zap.Error(err),
		)
		return e.fallback.Summarize(snapshot)
	}

	if summary := e.parser.ParseSummary(resp.Text); summary != "" {
		return summary
	}
	return e.fallback.Summarize(snapshot)
}

// Warmup probes the backend once, typically at session start, so the first
// real snippet does not pay cold-start latency. Failure is reported but
// harmless: the engine degrades per the fallback policy either way.
func (e *Engine) Warmup(ctx context.Context) error {
	status, err := e.provider.HealthCheck(ctx)
	if err != nil {
		return err
	}
	e.logger.Info("provider warmup complete",
		zap.String("provider", e.provider.Name()),
		zap.Bool("healthy", status.Healthy),
		zap.Duration("latency", status.Latency),
	)
	return nil
}

// Configure shallow-merges the patch into the current config. It never
// resets buffer or cooldown state. An invalid verbosity is kept out of the
// config and logged instead of raised.
func (e *Engine) Configure(patch types.ConfigPatch) {
	if patch.Verbosity != nil && !patch.Verbosity.Valid() {
		e.logger.Warn("ignoring unknown verbosity", zap.String("verbosity", string(*patch.Verbosity)))
		patch.Verbosity = nil
	}
	patch.Apply(&e.cfg)
	e.buffer.SetWindow(e.cfg.ContextWindowMs)
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() types.NarratorConfig { return e.cfg }

// SetVerbosity updates just the verbosity level.
func (e *Engine) SetVerbosity(v types.Verbosity) {
	e.Configure(types.ConfigPatch{Verbosity: &v})
}

// BufferSize returns the number of snippets currently retained.
func (e *Engine) BufferSize() int { return e.buffer.Size() }

// ClearBuffer drops buffered history; the explicit reset for session
// boundaries. Cooldown state is kept, matching Configure semantics.
func (e *Engine) ClearBuffer() { e.buffer.Clear() }

// LastUtterance returns the most recently vocalized string.
func (e *Engine) LastUtterance() string { return e.lastUtterance }

func (e *Engine) latencyMs(start time.Time) int64 {
	return e.now().Sub(start).Milliseconds()
}
