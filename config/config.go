package config

import (
	"fmt"
	"time"

	"github.com/BaSui01/voiceflow/llm/providers"
	"github.com/BaSui01/voiceflow/types"
)

// Config is the complete voiceflow service configuration.
type Config struct {
	Server    ServerConfig          `yaml:"server"`
	Narrator  types.NarratorConfig  `yaml:"narrator"`
	LLM       LLMConfig             `yaml:"llm"`
	Log       LogConfig             `yaml:"log"`
	Telemetry TelemetryConfig       `yaml:"telemetry"`
}

// ServerConfig configures the ingest server.
type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// IngestRate/IngestBurst bound per-session snippet throughput so a
	// runaway source cannot starve the engine.
	IngestRate  float64 `yaml:"ingest_rate"`
	IngestBurst int     `yaml:"ingest_burst"`
}

// LLMConfig selects and configures the completion backend.
type LLMConfig struct {
	// Provider is one of: local, openai, comparison.
	Provider string `yaml:"provider"`

	Local  providers.LocalConfig  `yaml:"local"`
	OpenAI providers.OpenAIConfig `yaml:"openai"`

	// ComparisonPrimary picks the authoritative side when Provider is
	// "comparison": "local" or "openai".
	ComparisonPrimary string `yaml:"comparison_primary"`

	// TokenizerModel selects the tiktoken encoding for prompt budgeting.
	// Empty falls back to the CJK-aware estimator.
	TokenizerModel string `yaml:"tokenizer_model"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// TelemetryConfig configures optional OTLP trace export.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	ServiceName  string  `yaml:"service_name"`
	SampleRate   float64 `yaml:"sample_rate"`
}

// Default returns the full default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:      ":8090",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			IngestRate:      50,
			IngestBurst:     100,
		},
		Narrator: types.DefaultNarratorConfig(),
		LLM: LLMConfig{
			Provider:          "local",
			ComparisonPrimary: "local",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			ServiceName:  "voiceflow",
			SampleRate:   1.0,
		},
	}
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "local", "openai", "comparison":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.Provider == "comparison" {
		switch c.LLM.ComparisonPrimary {
		case "local", "openai":
		default:
			return fmt.Errorf("comparison_primary must be local or openai, got %q", c.LLM.ComparisonPrimary)
		}
	}
	if !c.Narrator.Verbosity.Valid() {
		return fmt.Errorf("unknown verbosity %q", c.Narrator.Verbosity)
	}
	if c.Server.IngestRate <= 0 || c.Server.IngestBurst <= 0 {
		return fmt.Errorf("ingest rate and burst must be positive")
	}
	return nil
}
