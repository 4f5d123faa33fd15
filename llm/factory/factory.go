// Package factory maps configuration to completion provider constructors.
// It imports all provider sub-packages so that the llm package itself
// stays free of concrete backend dependencies.
package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/voiceflow/config"
	"github.com/BaSui01/voiceflow/llm"
	"github.com/BaSui01/voiceflow/llm/providers/local"
	"github.com/BaSui01/voiceflow/llm/providers/openai"
)

// NewProviderFromConfig creates the completion backend selected by cfg.
//
// Supported providers: local, openai, comparison. Comparison builds both
// backends and fans completions out to the pair, with cfg.ComparisonPrimary
// deciding which result is authoritative.
func NewProviderFromConfig(cfg config.LLMConfig, logger *zap.Logger) (llm.Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Provider {
	case "local":
		return local.NewLocalProvider(cfg.Local, logger), nil

	case "openai":
		return openai.NewOpenAIProvider(cfg.OpenAI, logger), nil

	case "comparison":
		lp := local.NewLocalProvider(cfg.Local, logger)
		rp := openai.NewOpenAIProvider(cfg.OpenAI, logger)
		if cfg.ComparisonPrimary == "openai" {
			return llm.NewComparisonProvider(rp, lp, logger), nil
		}
		return llm.NewComparisonProvider(lp, rp, logger), nil

	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
