// Package providers holds shared configuration for the concrete
// completion backends under llm/providers.
package providers

import "time"

// BaseProviderConfig is embedded by every provider configuration.
type BaseProviderConfig struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Model   string        `json:"model" yaml:"model"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// LocalConfig configures the local (Ollama-compatible) provider.
type LocalConfig struct {
	BaseProviderConfig `yaml:",inline"`

	// KeepAlive controls how long the local runtime keeps the model
	// loaded between calls (Ollama "keep_alive" syntax, e.g. "5m").
	KeepAlive string `json:"keep_alive,omitempty" yaml:"keep_alive,omitempty"`
}

// OpenAIConfig configures the remote OpenAI-compatible provider.
type OpenAIConfig struct {
	BaseProviderConfig `yaml:",inline"`

	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`
}
