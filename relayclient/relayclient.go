// Package relayclient talks to the summarize relay over HTTP. It implements
// summarizer.Summarizer so callers can switch between the direct and relay
// topologies without any other change.
package relayclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/httpclient"
	"github.com/kbukum/medsum/logger"
	"github.com/kbukum/medsum/normalize"
	"github.com/kbukum/medsum/summarizer"
	"github.com/kbukum/medsum/summary"
	"github.com/kbukum/medsum/util"
	"github.com/kbukum/medsum/version"
)

// DefaultBaseURL is the hosted relay.
const DefaultBaseURL = "https://medical-interview-summarizer-production.up.railway.app/api"

// MsgInvalidResponse is reported for a 2xx reply without a summary.
const MsgInvalidResponse = "Invalid response format from server"

// audioFileName is the name the relay sees for uploads.
const audioFileName = "audio.mp3"

// BaseURLFromEnv returns MEDSUM_API_URL, then VITE_API_URL, then the
// hosted default.
func BaseURLFromEnv() string {
	return util.Coalesce(os.Getenv("MEDSUM_API_URL"), os.Getenv("VITE_API_URL"), DefaultBaseURL)
}

// Config configures the relay client.
type Config struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults sets default values for unset fields. Audio uploads and
// model retries take a while, so the timeout is generous.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = BaseURLFromEnv()
	}
	if c.Timeout == 0 {
		c.Timeout = 3 * time.Minute
	}
}

// Client calls the relay.
type Client struct {
	http *httpclient.Client
	log  *logger.Logger
}

var _ summarizer.Summarizer = (*Client)(nil)

// New creates a relay client. log may be nil.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	hc, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{"User-Agent": version.UserAgent("medsum")},
	})
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{http: hc, log: log.WithComponent("relayclient")}, nil
}

type transcriptBody struct {
	Transcript string `json:"transcript"`
	Language   string `json:"language"`
}

type successBody struct {
	Success bool            `json:"success"`
	Summary json.RawMessage `json:"summary"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Summarize posts req to the matching relay endpoint and parses the reply.
func (c *Client) Summarize(ctx context.Context, req normalize.CanonicalRequest) (summary.Summary, error) {
	if err := req.Validate(); err != nil {
		return summary.Summary{}, err
	}

	hreq, err := buildRequest(req)
	if err != nil {
		return summary.Summary{}, err
	}

	resp, err := c.http.Do(ctx, hreq)
	if err != nil {
		return summary.Summary{}, c.classify(resp, err)
	}

	var body successBody
	if err := resp.DecodeJSON(&body); err != nil || !body.Success || len(body.Summary) == 0 || string(body.Summary) == "null" {
		return summary.Summary{}, errors.TransportFailure(MsgInvalidResponse, err)
	}
	return summary.Parse(string(body.Summary))
}

func buildRequest(req normalize.CanonicalRequest) (httpclient.Request, error) {
	if req.Kind == normalize.KindText {
		return httpclient.Request{
			Method: http.MethodPost,
			Path:   "/summarize-transcript",
			Body:   transcriptBody{Transcript: req.Content, Language: req.Language},
		}, nil
	}

	data, err := req.AudioBytes()
	if err != nil {
		return httpclient.Request{}, errors.InputMissing(errors.MsgAudioFieldsMissing).WithCause(err)
	}
	return httpclient.Request{
		Method: http.MethodPost,
		Path:   "/summarize-audio",
		Body: &httpclient.MultipartBody{
			Fields: map[string]string{"language": req.Language},
			Files: []httpclient.FileField{{
				FieldName:   "audio",
				FileName:    audioFileName,
				ContentType: util.Coalesce(req.MIMEType, normalize.MIMETypeMP3),
				Data:        data,
			}},
		},
	}, nil
}

// classify maps relay failures onto the error taxonomy, keeping the relay's
// own error message when it sent one.
func (c *Client) classify(resp *httpclient.Response, err error) error {
	status := httpclient.StatusCode(err)
	if status == 0 || resp == nil {
		c.log.Warn("relay unreachable", logger.Fields(
			logger.FieldError, err.Error(),
			"timeout", httpclient.IsTimeout(err),
			"connection", httpclient.IsConnection(err),
		))
		return errors.TransportFailure("", err)
	}

	var body errorBody
	_ = json.Unmarshal(resp.Body, &body)
	msg := strings.TrimSpace(body.Error)
	if msg == "" {
		msg = fmt.Sprintf("Server error: %d", status)
	}

	c.log.Warn("relay returned an error", logger.Fields(logger.FieldStatus, status, logger.FieldError, msg))
	switch {
	case status == http.StatusServiceUnavailable:
		return errors.New(errors.ErrCodeServiceOverloaded, msg, status).WithCause(err)
	case status == http.StatusBadRequest:
		return errors.InputMissing(msg).WithCause(err)
	case status == http.StatusRequestEntityTooLarge:
		return errors.New(errors.ErrCodePayloadTooLarge, msg, status).WithCause(err)
	case status == http.StatusTooManyRequests:
		return errors.New(errors.ErrCodeRateLimited, msg, status).WithCause(err)
	default:
		return errors.TransportFailure(msg, err).WithDetail("status", status)
	}
}
