package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/voiceflow/types"
)

// Loader builds a Config from defaults, an optional YAML file, and
// environment variable overrides.
//
// Usage:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("voiceflow.yaml").
//	    WithEnvPrefix("VOICEFLOW").
//	    Load()
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a loader with the default env prefix.
func NewLoader() *Loader {
	return &Loader{envPrefix: "VOICEFLOW"}
}

// WithConfigPath sets the YAML file path. Empty skips file loading.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix overrides the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load resolves the configuration. Precedence: defaults, then YAML file,
// then environment variables.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	l.applyEnv(cfg)
	return cfg, nil
}

// applyEnv overrides the fields operators most often set per deployment.
func (l *Loader) applyEnv(cfg *Config) {
	if v, ok := l.env("LISTEN_ADDR"); ok {
		cfg.Server.ListenAddr = v
	}
	if v, ok := l.env("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := l.env("LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	if v, ok := l.env("LLM_PROVIDER"); ok {
		cfg.LLM.Provider = v
	}
	if v, ok := l.env("LOCAL_BASE_URL"); ok {
		cfg.LLM.Local.BaseURL = v
	}
	if v, ok := l.env("LOCAL_MODEL"); ok {
		cfg.LLM.Local.Model = v
	}
	if v, ok := l.env("OPENAI_API_KEY"); ok {
		cfg.LLM.OpenAI.APIKey = v
	}
	if v, ok := l.env("OPENAI_BASE_URL"); ok {
		cfg.LLM.OpenAI.BaseURL = v
	}
	if v, ok := l.env("OPENAI_MODEL"); ok {
		cfg.LLM.OpenAI.Model = v
	}
	if v, ok := l.env("NARRATOR_VERBOSITY"); ok {
		cfg.Narrator.Verbosity = types.Verbosity(v)
	}
	if v, ok := l.env("NARRATOR_COOLDOWN_MS"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Narrator.CooldownMs = n
		}
	}
	if v, ok := l.env("NARRATOR_CONTEXT_WINDOW_MS"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Narrator.ContextWindowMs = n
		}
	}
	if v, ok := l.env("TELEMETRY_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Telemetry.Enabled = b
		}
	}
	if v, ok := l.env("OTLP_ENDPOINT"); ok {
		cfg.Telemetry.OTLPEndpoint = v
	}
}

func (l *Loader) env(key string) (string, bool) {
	return os.LookupEnv(l.envPrefix + "_" + key)
}
