// Package voiceflow provides a top-level convenience entry point for
// creating narrator engines with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/voiceflow"
//
//	n, err := voiceflow.New(voiceflow.WithLocal("llama3.2"))
//	n, err := voiceflow.New(voiceflow.WithOpenAI("gpt-4o-mini"))
//	n, err := voiceflow.New(voiceflow.WithProvider(myProvider))
package voiceflow

import (
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/BaSui01/voiceflow/llm"
	"github.com/BaSui01/voiceflow/llm/providers"
	"github.com/BaSui01/voiceflow/llm/providers/local"
	"github.com/BaSui01/voiceflow/llm/providers/openai"
	"github.com/BaSui01/voiceflow/narrator"
	"github.com/BaSui01/voiceflow/types"
)

// Option configures the engine created by [New].
type Option func(*builder)

type builder struct {
	// newProvider is deferred so the final logger applies regardless of
	// option order.
	newProvider func(logger *zap.Logger) llm.Provider
	cfg         types.NarratorConfig
	logger      *zap.Logger
}

// New creates a narrator engine. At minimum a provider must be specified
// via [WithLocal], [WithOpenAI], or [WithProvider].
func New(opts ...Option) (*narrator.Engine, error) {
	b := &builder{cfg: types.DefaultNarratorConfig()}
	for _, opt := range opts {
		opt(b)
	}
	if b.newProvider == nil {
		return nil, errors.New("voiceflow: a provider is required (WithLocal, WithOpenAI, or WithProvider)")
	}
	return narrator.NewEngine(b.cfg, b.newProvider(b.logger), b.logger), nil
}

// WithProvider sets a pre-built completion provider.
func WithProvider(p llm.Provider) Option {
	return func(b *builder) {
		b.newProvider = func(*zap.Logger) llm.Provider { return p }
	}
}

// WithLocal creates a local Ollama-compatible provider for the model.
func WithLocal(model string) Option {
	return func(b *builder) {
		b.newProvider = func(logger *zap.Logger) llm.Provider {
			cfg := providers.LocalConfig{}
			cfg.Model = model
			return local.NewLocalProvider(cfg, logger)
		}
	}
}

// WithOpenAI creates a remote OpenAI provider for the model. The API key
// comes from OPENAI_API_KEY.
func WithOpenAI(model string) Option {
	return func(b *builder) {
		b.newProvider = func(logger *zap.Logger) llm.Provider {
			cfg := providers.OpenAIConfig{}
			cfg.Model = model
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
			return openai.NewOpenAIProvider(cfg, logger)
		}
	}
}

// WithConfig replaces the whole narrator configuration.
func WithConfig(cfg types.NarratorConfig) Option {
	return func(b *builder) { b.cfg = cfg }
}

// WithVerbosity sets just the verbosity level.
func WithVerbosity(v types.Verbosity) Option {
	return func(b *builder) { b.cfg.Verbosity = v }
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *builder) { b.logger = logger }
}
