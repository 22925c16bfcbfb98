package summarizer

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/llm"
	"github.com/kbukum/medsum/logger"
	"github.com/kbukum/medsum/normalize"
	"github.com/kbukum/medsum/observability"
	"github.com/kbukum/medsum/resilience"
	"github.com/kbukum/medsum/summary"
	"github.com/kbukum/medsum/util"
)

const spanName = "summarizer.Summarize"

// Summarizer produces a summary for a canonical request.
type Summarizer interface {
	Summarize(ctx context.Context, req normalize.CanonicalRequest) (summary.Summary, error)
}

// CredentialSource says where the downstream API key comes from. It only
// changes the message reported when the key is missing.
type CredentialSource int

const (
	// CredentialCallerSupplied is a key handed in by the end user.
	CredentialCallerSupplied CredentialSource = iota
	// CredentialServerHeld is a key from relay configuration.
	CredentialServerHeld
)

func (s CredentialSource) String() string {
	if s == CredentialServerHeld {
		return "server"
	}
	return "caller"
}

func (s CredentialSource) missing() *errors.AppError {
	if s == CredentialServerHeld {
		return errors.CredentialMissing(errors.MsgServerKeyMissing)
	}
	return errors.CredentialMissing(errors.MsgCallerKeyMissing)
}

// Credential is the downstream API key and where it came from.
type Credential struct {
	Source CredentialSource
	Key    string
}

// Option configures a Client.
type Option func(*Client)

// WithConfig sets the retry config.
func WithConfig(cfg Config) Option { return func(c *Client) { c.cfg = cfg } }

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option { return func(c *Client) { c.log = l } }

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.Metrics) Option { return func(c *Client) { c.metrics = m } }

// WithBackendName labels spans and logs with the backend name.
func WithBackendName(name string) Option { return func(c *Client) { c.backend = name } }

// WithSleep replaces the wait between retries. Tests use it to record
// delays instead of sleeping.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = fn }
}

// Client calls a Generator directly.
type Client struct {
	gen     llm.Generator
	cred    Credential
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics
	backend string
	sleep   func(ctx context.Context, d time.Duration) error
}

var _ Summarizer = (*Client)(nil)

// New creates a client. gen may be nil when cred has no key; every call
// then fails with CREDENTIAL_MISSING.
func New(gen llm.Generator, cred Credential, opts ...Option) *Client {
	c := &Client{gen: gen, cred: cred}
	for _, opt := range opts {
		opt(c)
	}
	c.cfg.ApplyDefaults()
	if c.log == nil {
		c.log = logger.Nop()
	}
	c.log = c.log.WithComponent("summarizer")
	return c
}

// Open builds the configured backend and a client around it. A missing key
// is not an error here: the client is returned without a backend and
// reports CREDENTIAL_MISSING on use.
func Open(ctx context.Context, cfg llm.Config, source CredentialSource, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	cred := Credential{Source: source, Key: cfg.APIKey}
	opts = append([]Option{WithBackendName(cfg.Backend)}, opts...)
	if util.IsBlank(cfg.APIKey) {
		return New(nil, cred, opts...), nil
	}
	gen, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(gen, cred, opts...), nil
}

// Summarize validates req, calls the backend with overload retry and parses
// the response.
func (c *Client) Summarize(ctx context.Context, req normalize.CanonicalRequest) (summary.Summary, error) {
	if err := req.Validate(); err != nil {
		return summary.Summary{}, err
	}
	if util.IsBlank(c.cred.Key) || c.gen == nil {
		return summary.Summary{}, c.cred.Source.missing()
	}

	greq, err := BuildRequest(req)
	if err != nil {
		return summary.Summary{}, err
	}

	ctx, op := observability.StartOperation(ctx, spanName, string(req.Kind), c.metrics,
		attribute.String(observability.AttrLanguage, req.Language),
		attribute.String(observability.AttrBackend, c.backend),
	)
	log := c.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldKind, string(req.Kind),
		logger.FieldLanguage, req.Language,
	))

	var out summary.Summary
	text, err := c.generate(ctx, greq, op, log)
	if err == nil {
		out, err = summary.Parse(text)
	}
	status := statusOf(err)
	op.End(status, err)

	if err != nil {
		log.Warn("summarize failed", logger.Fields(
			logger.FieldStatus, status,
			logger.FieldError, err.Error(),
			logger.FieldDuration, op.Duration().Milliseconds(),
		))
		return summary.Summary{}, err
	}
	log.Info("summarize completed", logger.Fields(
		logger.FieldDuration, op.Duration().Milliseconds(),
	))
	return out, nil
}

func (c *Client) generate(ctx context.Context, req llm.Request, op *observability.Operation, log *logger.Logger) (string, error) {
	rc := resilience.FixedRetryConfig(c.cfg.MaxAttempts, c.cfg.RetryDelay, isOverloaded)
	rc.Sleep = c.sleep
	rc.OnRetry = func(attempt int, err error, backoff time.Duration) {
		op.Retry(attempt, err)
		log.Warn("model overloaded, retrying", logger.Fields(
			logger.FieldAttempt, attempt,
			"backoff_ms", backoff.Milliseconds(),
		))
	}

	text, err := resilience.Retry(ctx, rc, func() (string, error) {
		out, err := c.gen.Generate(ctx, req)
		if err != nil {
			return "", llm.ClassifyError(err, 0)
		}
		return out, nil
	})
	if err == nil {
		return text, nil
	}

	var exhausted *resilience.ExhaustedError
	if stderrors.As(err, &exhausted) {
		last, ok := errors.AsAppError(exhausted.Err)
		if !ok {
			last = errors.ServiceOverloaded(exhausted.Err)
		}
		return "", last.WithDetail("attempts", exhausted.Attempts)
	}
	if errors.IsAppError(err) {
		return "", err
	}
	return "", errors.TransportFailure("", err)
}

func isOverloaded(err error) bool {
	return errors.IsCode(err, errors.ErrCodeServiceOverloaded)
}

func statusOf(err error) string {
	appErr, ok := errors.AsAppError(err)
	switch {
	case err == nil:
		return "ok"
	case !ok:
		return "error"
	case appErr.Code == errors.ErrCodeServiceOverloaded:
		return "overloaded"
	case appErr.Code == errors.ErrCodeMalformedSummary:
		return "malformed"
	default:
		return "error"
	}
}
