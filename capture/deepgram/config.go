package deepgram

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// DefaultURL is Deepgram's live transcription endpoint.
const DefaultURL = "wss://api.deepgram.com/v1/listen"

// Config holds Deepgram connection settings.
type Config struct {
	APIKey           string        `yaml:"api_key" mapstructure:"api_key"`
	URL              string        `yaml:"url" mapstructure:"url"`
	Model            string        `yaml:"model" mapstructure:"model"`
	Encoding         string        `yaml:"encoding" mapstructure:"encoding"`
	SampleRate       int           `yaml:"sample_rate" mapstructure:"sample_rate"`
	Channels         int           `yaml:"channels" mapstructure:"channels"`
	ChunkSize        int           `yaml:"chunk_size" mapstructure:"chunk_size"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout" mapstructure:"handshake_timeout"`
}

// ApplyDefaults fills unset fields with values suited to 16 kHz mono PCM.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Model == "" {
		c.Model = "nova-2"
	}
	if c.Encoding == "" {
		c.Encoding = "linear16"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 16000
	}
	if c.Channels == 0 {
		c.Channels = 1
	}
	if c.ChunkSize == 0 {
		// 100 ms of 16-bit mono audio at 16 kHz
		c.ChunkSize = 3200
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("deepgram: api_key is required")
	}
	if _, err := url.Parse(c.URL); err != nil {
		return fmt.Errorf("deepgram: invalid url: %w", err)
	}
	return nil
}

// listenURL builds the websocket URL for a locale.
func (c *Config) listenURL(locale string) (string, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("encoding", c.Encoding)
	q.Set("sample_rate", strconv.Itoa(c.SampleRate))
	q.Set("channels", strconv.Itoa(c.Channels))
	q.Set("model", c.Model)
	q.Set("language", locale)
	q.Set("punctuate", "true")
	q.Set("interim_results", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
