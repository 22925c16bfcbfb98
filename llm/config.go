package llm

import (
	"fmt"
	"time"
)

// DefaultBackend is used when Config.Backend is empty.
const DefaultBackend = "gemini"

// Config selects and configures a backend.
type Config struct {
	// Backend names a registered backend ("gemini", "openai").
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Model is the default model. Each backend has its own default.
	Model string `yaml:"model" mapstructure:"model"`
	// APIKey is the downstream credential.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// BaseURL overrides the provider endpoint (proxies, tests).
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Timeout bounds each call. Defaults to 120s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
}

// Validate checks that the backend is registered. The API key is checked by
// the summarizer so the error carries the right user-facing message.
func (c *Config) Validate() error {
	if !Registered(c.Backend) {
		return fmt.Errorf("llm: unknown backend %q (registered: %v)", c.Backend, Backends())
	}
	if c.Timeout < 0 {
		return fmt.Errorf("llm: timeout must not be negative")
	}
	return nil
}
