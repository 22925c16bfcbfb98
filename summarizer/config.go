package summarizer

import (
	"fmt"
	"time"
)

// Defaults for overload retry.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 2000 * time.Millisecond
)

// Config controls overload retry.
type Config struct {
	// MaxAttempts counts the first call.
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	RetryDelay  time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
}

// Validate checks the retry settings.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("summarizer: max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("summarizer: retry_delay must not be negative")
	}
	return nil
}
