package main

import (
	"fmt"
	"os"

	"github.com/kbukum/medsum/config"
	"github.com/kbukum/medsum/llm"
	"github.com/kbukum/medsum/observability"
	"github.com/kbukum/medsum/server"
	"github.com/kbukum/medsum/summarizer"
	"github.com/kbukum/medsum/util"
	"github.com/kbukum/medsum/version"
)

const serviceName = "medsum-relay"

// Config is the relay configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server     server.Config        `yaml:"server" mapstructure:"server"`
	LLM        llm.Config           `yaml:"llm" mapstructure:"llm"`
	Summarizer summarizer.Config    `yaml:"summarizer" mapstructure:"summarizer"`
	Telemetry  observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Version
	}
	c.Server.ApplyDefaults()
	c.LLM.ApplyDefaults()
	c.Summarizer.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Summarizer.Validate(); err != nil {
		return err
	}
	return nil
}

var envAliases = map[string]string{
	"PORT":          "server.port",
	"FRONTEND_URL":  "server.frontend_url",
	"LLM_BACKEND":   "llm.backend",
	"OTEL_ENDPOINT": "telemetry.endpoint",
	"LOG_LEVEL":     "logging.level",
	"LOG_FORMAT":    "logging.format",
}

// loadConfig reads config.yml, .env and the environment. configFile may be
// empty to use the search paths.
func loadConfig(cfg *Config, configFile string, getenv func(string) string) error {
	opts := []config.LoaderOption{config.WithEnvAliases(envAliases)}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return err
	}
	resolveAPIKey(&cfg.LLM, getenv)
	return nil
}

// resolveAPIKey picks the provider key variable matching the backend when
// llm.api_key is not set directly.
func resolveAPIKey(cfg *llm.Config, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if !util.IsBlank(cfg.APIKey) {
		return
	}
	switch util.Coalesce(cfg.Backend, llm.DefaultBackend) {
	case "openai":
		cfg.APIKey = getenv("OPENAI_API_KEY")
	default:
		cfg.APIKey = getenv("GEMINI_API_KEY")
	}
}
