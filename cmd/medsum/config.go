package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kbukum/medsum/capture"
	"github.com/kbukum/medsum/capture/deepgram"
	"github.com/kbukum/medsum/config"
	"github.com/kbukum/medsum/llm"
	"github.com/kbukum/medsum/relayclient"
	"github.com/kbukum/medsum/summarizer"
	"github.com/kbukum/medsum/util"
)

const serviceName = "medsum"

// Transport selects how summaries are produced.
const (
	TransportRelay  = "relay"
	TransportDirect = "direct"
)

// CaptureConfig tunes record mode.
type CaptureConfig struct {
	FinalizeDelay time.Duration `yaml:"finalize_delay" mapstructure:"finalize_delay"`
	RestartDelay  time.Duration `yaml:"restart_delay" mapstructure:"restart_delay"`
	// RecordCommand produces raw PCM on stdout.
	RecordCommand string `yaml:"record_command" mapstructure:"record_command"`
}

// Config is the terminal client configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Transport  string             `yaml:"transport" mapstructure:"transport"`
	Relay      relayclient.Config `yaml:"relay" mapstructure:"relay"`
	LLM        llm.Config         `yaml:"llm" mapstructure:"llm"`
	Summarizer summarizer.Config  `yaml:"summarizer" mapstructure:"summarizer"`
	Capture    CaptureConfig      `yaml:"capture" mapstructure:"capture"`
	Deepgram   deepgram.Config    `yaml:"deepgram" mapstructure:"deepgram"`
}

func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Transport == "" {
		c.Transport = TransportRelay
	}
	c.Relay.ApplyDefaults()
	c.LLM.ApplyDefaults()
	c.Summarizer.ApplyDefaults()
	c.Deepgram.ApplyDefaults()
	if c.Capture.FinalizeDelay == 0 {
		c.Capture.FinalizeDelay = capture.DefaultFinalizeDelay
	}
	if c.Capture.RestartDelay == 0 {
		c.Capture.RestartDelay = capture.DefaultRestartDelay
	}
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	switch c.Transport {
	case TransportRelay, TransportDirect:
	default:
		return fmt.Errorf("transport must be %q or %q (got: %s)", TransportRelay, TransportDirect, c.Transport)
	}
	if c.Transport == TransportDirect {
		if err := c.LLM.Validate(); err != nil {
			return err
		}
	}
	return c.Summarizer.Validate()
}

// recordCommand splits Capture.RecordCommand into a deepgram source.
func (c *Config) recordCommand() (deepgram.CommandSource, error) {
	fields := strings.Fields(c.Capture.RecordCommand)
	if len(fields) == 0 {
		return deepgram.CommandSource{}, fmt.Errorf("capture.record_command is empty")
	}
	return deepgram.CommandSource{Name: fields[0], Args: fields[1:]}, nil
}

var envAliases = map[string]string{
	"MEDSUM_TRANSPORT": "transport",
	"LLM_BACKEND":      "llm.backend",
	"DEEPGRAM_API_KEY": "deepgram.api_key",
	"LOG_LEVEL":        "logging.level",
	"LOG_FORMAT":       "logging.format",
}

func loadConfig(cfg *Config, configFile string, getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	opts := []config.LoaderOption{config.WithEnvAliases(envAliases)}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return err
	}
	if util.IsBlank(cfg.Relay.BaseURL) {
		cfg.Relay.BaseURL = util.Coalesce(getenv("MEDSUM_API_URL"), getenv("VITE_API_URL"))
	}
	if util.IsBlank(cfg.LLM.APIKey) {
		key := "GEMINI_API_KEY"
		if cfg.LLM.Backend == "openai" {
			key = "OPENAI_API_KEY"
		}
		cfg.LLM.APIKey = getenv(key)
	}
	return nil
}
