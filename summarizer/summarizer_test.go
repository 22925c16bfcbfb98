package summarizer

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/llm"
	"github.com/kbukum/medsum/normalize"
	"github.com/kbukum/medsum/summary"
)

const validJSON = `{"chiefComplaint":"Back pain","historyOfPresentIllness":"Two weeks","currentMedications":"Ibuprofen","impactOnDailyLife":"Cannot work"}`

// scripted returns the given results in order, repeating the last one.
type scripted struct {
	mu       sync.Mutex
	results  []result
	requests []llm.Request
}

type result struct {
	text string
	err  error
}

func (s *scripted) Generate(_ context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	r := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return r.text, r.err
}

func (s *scripted) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func newClient(gen llm.Generator, rec *sleepRecorder) *Client {
	return New(gen, Credential{Source: CredentialCallerSupplied, Key: "key"}, WithSleep(rec.sleep))
}

func TestSummarize_Text(t *testing.T) {
	gen := &scripted{results: []result{{text: validJSON}}}
	c := newClient(gen, &sleepRecorder{})

	got, err := c.Summarize(context.Background(), normalize.NewTextRequest("my back hurts", "English"))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	want := summary.Summary{
		ChiefComplaint:          "Back pain",
		HistoryOfPresentIllness: "Two weeks",
		CurrentMedications:      "Ibuprofen",
		ImpactOnDailyLife:       "Cannot work",
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	req := gen.requests[0]
	if !strings.HasSuffix(req.SystemInstruction, "\n\nIMPORTANT: The final summary output MUST be in English.") {
		t.Errorf("unexpected system instruction suffix: %q", req.SystemInstruction)
	}
	if req.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", req.Temperature)
	}
	if req.ResponseMIMEType != "application/json" {
		t.Errorf("expected JSON response type, got %q", req.ResponseMIMEType)
	}
	if req.Schema == nil || len(req.Schema.Required) != 4 {
		t.Errorf("expected schema with 4 required fields, got %+v", req.Schema)
	}
	if len(req.Parts) != 1 || req.Parts[0].Text != "my back hurts" {
		t.Errorf("expected one text part, got %+v", req.Parts)
	}
}

func TestSummarize_Audio(t *testing.T) {
	gen := &scripted{results: []result{{text: validJSON}}}
	c := newClient(gen, &sleepRecorder{})

	audio := []byte("ID3 mp3 bytes")
	if _, err := c.Summarize(context.Background(), normalize.NewAudioRequest(audio, "audio/mpeg", "Spanish")); err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	parts := gen.requests[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if string(parts[0].Data) != string(audio) || parts[0].MIMEType != "audio/mpeg" {
		t.Errorf("expected inline audio first, got %+v", parts[0])
	}
	if parts[1].Text != summary.AudioInstruction {
		t.Errorf("expected audio instruction second, got %q", parts[1].Text)
	}
}

func TestSummarize_FencedResponse(t *testing.T) {
	gen := &scripted{results: []result{{text: "```json\n" + validJSON + "```"}}}
	got, err := newClient(gen, &sleepRecorder{}).Summarize(context.Background(), normalize.NewTextRequest("t", "English"))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got.ChiefComplaint != "Back pain" {
		t.Errorf("unexpected summary %+v", got)
	}
}

func TestSummarize_RetriesOverload(t *testing.T) {
	overloaded := errors.ServiceOverloaded(stderrors.New("503 UNAVAILABLE"))
	gen := &scripted{results: []result{{err: overloaded}, {err: overloaded}, {text: validJSON}}}
	rec := &sleepRecorder{}

	if _, err := newClient(gen, rec).Summarize(context.Background(), normalize.NewTextRequest("t", "English")); err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if gen.calls() != 3 {
		t.Errorf("expected 3 calls, got %d", gen.calls())
	}
	if len(rec.delays) != 2 || rec.delays[0] != 2000*time.Millisecond || rec.delays[1] != 2000*time.Millisecond {
		t.Errorf("expected two 2000ms waits, got %v", rec.delays)
	}
}

func TestSummarize_OverloadExhausted(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"classified", errors.ServiceOverloaded(nil)},
		{"raw message", stderrors.New("The model is overloaded. Please try again later.")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &scripted{results: []result{{err: tc.err}}}
			rec := &sleepRecorder{}

			_, err := newClient(gen, rec).Summarize(context.Background(), normalize.NewTextRequest("t", "English"))
			if !errors.IsCode(err, errors.ErrCodeServiceOverloaded) {
				t.Fatalf("expected SERVICE_OVERLOADED, got %v", err)
			}
			appErr, _ := errors.AsAppError(err)
			if appErr.Message != errors.MsgServiceOverloaded {
				t.Errorf("unexpected message %q", appErr.Message)
			}
			if gen.calls() != 3 {
				t.Errorf("expected 3 calls, got %d", gen.calls())
			}
			if len(rec.delays) != 2 {
				t.Errorf("expected 2 waits, got %d", len(rec.delays))
			}
			if appErr.Details["attempts"] != 3 {
				t.Errorf("expected attempts detail 3, got %v", appErr.Details["attempts"])
			}
			if n := strings.Count(err.Error(), string(errors.ErrCodeServiceOverloaded)); n != 1 {
				t.Errorf("expected a single overload code in %q, got %d", err.Error(), n)
			}
		})
	}
}

func TestSummarize_ConfiguredRetry(t *testing.T) {
	gen := &scripted{results: []result{{err: errors.ServiceOverloaded(nil)}}}
	rec := &sleepRecorder{}
	c := New(gen, Credential{Key: "key"},
		WithSleep(rec.sleep),
		WithConfig(Config{MaxAttempts: 5, RetryDelay: 10 * time.Millisecond}),
	)

	_, _ = c.Summarize(context.Background(), normalize.NewTextRequest("t", "English"))
	if gen.calls() != 5 {
		t.Errorf("expected 5 calls, got %d", gen.calls())
	}
	for _, d := range rec.delays {
		if d != 10*time.Millisecond {
			t.Errorf("expected fixed 10ms spacing, got %v", d)
		}
	}
}

func TestSummarize_NoRetry(t *testing.T) {
	tests := []struct {
		name string
		res  result
		want errors.ErrorCode
	}{
		{"transport", result{err: stderrors.New("connection refused")}, errors.ErrCodeTransportFailure},
		{"503 inside a request id", result{err: llm.ClassifyError(stderrors.New("status code: 400, message: invalid request id req_8503ab"), 400)}, errors.ErrCodeTransportFailure},
		{"dial error on port 5031", result{err: stderrors.New("dial tcp 10.0.0.7:5031: connect: connection refused")}, errors.ErrCodeTransportFailure},
		{"malformed", result{text: "I cannot help with that."}, errors.ErrCodeMalformedSummary},
		{"missing field", result{text: `{"chiefComplaint":"x"}`}, errors.ErrCodeMalformedSummary},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &scripted{results: []result{tc.res}}
			rec := &sleepRecorder{}

			_, err := newClient(gen, rec).Summarize(context.Background(), normalize.NewTextRequest("t", "English"))
			if !errors.IsCode(err, tc.want) {
				t.Fatalf("expected %s, got %v", tc.want, err)
			}
			if gen.calls() != 1 {
				t.Errorf("expected a single call, got %d", gen.calls())
			}
			if len(rec.delays) != 0 {
				t.Errorf("expected no waits, got %v", rec.delays)
			}
		})
	}
}

func TestSummarize_MissingCredential(t *testing.T) {
	tests := []struct {
		source CredentialSource
		want   string
	}{
		{CredentialCallerSupplied, errors.MsgCallerKeyMissing},
		{CredentialServerHeld, errors.MsgServerKeyMissing},
	}
	for _, tc := range tests {
		t.Run(tc.source.String(), func(t *testing.T) {
			gen := &scripted{results: []result{{text: validJSON}}}
			c := New(gen, Credential{Source: tc.source, Key: "  "})

			_, err := c.Summarize(context.Background(), normalize.NewTextRequest("t", "English"))
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeCredentialMissing {
				t.Fatalf("expected CREDENTIAL_MISSING, got %v", err)
			}
			if appErr.Message != tc.want {
				t.Errorf("expected %q, got %q", tc.want, appErr.Message)
			}
			if gen.calls() != 0 {
				t.Error("generator must not be called without a key")
			}
		})
	}
}

func TestSummarize_InvalidRequest(t *testing.T) {
	gen := &scripted{results: []result{{text: validJSON}}}
	_, err := newClient(gen, &sleepRecorder{}).Summarize(context.Background(), normalize.NewTextRequest("", "English"))
	if !errors.IsCode(err, errors.ErrCodeInputMissing) {
		t.Fatalf("expected INPUT_MISSING, got %v", err)
	}
	if gen.calls() != 0 {
		t.Error("generator must not be called for invalid input")
	}
}

func TestOpen_WithoutKey(t *testing.T) {
	c, err := Open(context.Background(), llm.Config{Backend: "anything"}, CredentialServerHeld)
	if err != nil {
		t.Fatalf("Open without key should not fail: %v", err)
	}
	_, err = c.Summarize(context.Background(), normalize.NewTextRequest("t", "English"))
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Message != errors.MsgServerKeyMissing {
		t.Errorf("expected server key message, got %v", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), llm.Config{Backend: "nope", APIKey: "k"}, CredentialServerHeld)
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.MaxAttempts != 3 || cfg.RetryDelay != 2*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	bad := Config{MaxAttempts: -1}
	if err := bad.Validate(); err == nil {
		t.Error("expected validation error")
	}
}
