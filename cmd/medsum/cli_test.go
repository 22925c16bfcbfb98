package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/medsum/capture/capturetest"
	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/logger"
	"github.com/kbukum/medsum/normalize"
	"github.com/kbukum/medsum/summary"
)

type fakeSummarizer struct {
	mu   sync.Mutex
	reqs []normalize.CanonicalRequest
	err  error
}

func (f *fakeSummarizer) Summarize(_ context.Context, req normalize.CanonicalRequest) (summary.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return summary.Summary{}, f.err
	}
	return summary.Summary{
		ChiefComplaint:          "Lower back pain",
		HistoryOfPresentIllness: "Six months, worse in the morning",
		CurrentMedications:      "Ibuprofen",
		ImpactOnDailyLife:       "Poor sleep",
	}, nil
}

func (f *fakeSummarizer) last(t *testing.T) normalize.CanonicalRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reqs) == 0 {
		t.Fatal("expected a summarize call")
	}
	return f.reqs[len(f.reqs)-1]
}

func newRunner(opts options, svc *fakeSummarizer) (*runner, *bytes.Buffer) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	out := &bytes.Buffer{}
	return &runner{
		opts:          opts,
		cfg:           cfg,
		log:           logger.Nop(),
		svc:           svc,
		stdin:         strings.NewReader(""),
		stdout:        out,
		stderr:        &bytes.Buffer{},
		waitRecording: func(context.Context) error { return nil },
	}, out
}

func TestRun_Text(t *testing.T) {
	svc := &fakeSummarizer{}
	r, out := newRunner(options{Text: "Patient reports headaches", Language: "English"}, svc)

	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	req := svc.last(t)
	if req.Kind != normalize.KindText || req.Content != "Patient reports headaches" || req.Language != "English" {
		t.Errorf("unexpected request %+v", req)
	}
	for _, title := range []string{"## Chief Complaint", "## History of Present Illness", "## Current Medications", "## Impact on Daily Life"} {
		if !strings.Contains(out.String(), title) {
			t.Errorf("expected output to contain %q", title)
		}
	}
}

func TestRun_Example(t *testing.T) {
	svc := &fakeSummarizer{}
	r, _ := newRunner(options{Example: true, Language: "English"}, svc)

	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want, _ := summary.ExampleTranscript("English")
	if got := svc.last(t).Content; got != want {
		t.Errorf("expected the English sample, got %q", got)
	}
}

func TestRun_Stdin(t *testing.T) {
	svc := &fakeSummarizer{}
	r, _ := newRunner(options{Text: "-"}, svc)
	r.stdin = strings.NewReader("from a pipe\n")

	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	req := svc.last(t)
	if req.Content != "from a pipe\n" {
		t.Errorf("unexpected content %q", req.Content)
	}
	if req.Language != summary.DefaultLanguage {
		t.Errorf("expected default language, got %s", req.Language)
	}
}

func TestRun_NothingToSummarize(t *testing.T) {
	svc := &fakeSummarizer{}
	r, _ := newRunner(options{Text: "   "}, svc)

	err := r.run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "nothing to summarize") {
		t.Fatalf("expected empty input error, got %v", err)
	}
	if len(svc.reqs) != 0 {
		t.Error("summarizer should not be called")
	}
}

func TestRun_Upload(t *testing.T) {
	dir := t.TempDir()
	mp3 := filepath.Join(dir, "visit.mp3")
	if err := os.WriteFile(mp3, []byte("ID3 fake audio"), 0o600); err != nil {
		t.Fatal(err)
	}
	wav := filepath.Join(dir, "visit.wav")
	if err := os.WriteFile(wav, []byte("RIFF"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("mp3", func(t *testing.T) {
		svc := &fakeSummarizer{}
		r, _ := newRunner(options{Mode: "upload", File: mp3, Language: "Spanish"}, svc)
		if err := r.run(context.Background()); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		req := svc.last(t)
		if req.Kind != normalize.KindAudio || req.MIMEType != normalize.MIMETypeMP3 {
			t.Errorf("unexpected request kind=%s mime=%s", req.Kind, req.MIMEType)
		}
		data, err := req.AudioBytes()
		if err != nil || string(data) != "ID3 fake audio" {
			t.Errorf("unexpected audio payload %q (%v)", data, err)
		}
	})

	t.Run("not mp3", func(t *testing.T) {
		r, _ := newRunner(options{Mode: "upload", File: wav}, &fakeSummarizer{})
		if err := r.run(context.Background()); !errors.IsCode(err, errors.ErrCodeUnsupportedFileType) {
			t.Errorf("expected unsupported file type, got %v", err)
		}
	})

	t.Run("missing flag", func(t *testing.T) {
		r, _ := newRunner(options{Mode: "upload"}, &fakeSummarizer{})
		if err := r.run(context.Background()); err == nil {
			t.Error("expected an error without --file")
		}
	})
}

func TestRun_Record(t *testing.T) {
	svc := &fakeSummarizer{}
	eng := &capturetest.Engine{}
	r, _ := newRunner(options{Mode: "record", Language: "English"}, svc)
	r.engine = eng
	r.waitRecording = func(context.Context) error {
		eng.Final("Patient has a dry cough")
		eng.Interim("for two weeks")
		return nil
	}

	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if starts := eng.Starts(); len(starts) != 1 || starts[0] != "en-US" {
		t.Errorf("expected one en-US start, got %v", starts)
	}
	if eng.Stops() == 0 {
		t.Error("expected the engine to be stopped when leaving record mode")
	}
	got := svc.last(t).Content
	if !strings.Contains(got, "Patient has a dry cough") || !strings.Contains(got, "for two weeks") {
		t.Errorf("expected recorded transcript, got %q", got)
	}
}

func TestRun_SummarizerError(t *testing.T) {
	svc := &fakeSummarizer{err: errors.ServiceOverloaded(nil)}
	r, out := newRunner(options{Text: "x"}, svc)

	err := r.run(context.Background())
	if !errors.IsCode(err, errors.ErrCodeServiceOverloaded) {
		t.Fatalf("expected overload error, got %v", err)
	}
	if describe(err) != errors.MsgServiceOverloaded {
		t.Errorf("expected user message, got %q", describe(err))
	}
	if out.Len() != 0 {
		t.Error("nothing should be printed on failure")
	}
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	s := summary.Summary{ChiefComplaint: "a", HistoryOfPresentIllness: "b", CurrentMedications: "c", ImpactOnDailyLife: "d"}
	if err := render(&buf, s, true); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["chiefComplaint"] != "a" || got["impactOnDailyLife"] != "d" {
		t.Errorf("unexpected JSON %v", got)
	}
}

func TestWaitForEnter(t *testing.T) {
	t.Run("line", func(t *testing.T) {
		if err := waitForEnter(strings.NewReader("\n"), 0)(context.Background()); err != nil {
			t.Errorf("unexpected error %v", err)
		}
	})
	t.Run("duration", func(t *testing.T) {
		if err := waitForEnter(nil, 10*time.Millisecond)(context.Background()); err != nil {
			t.Errorf("unexpected error %v", err)
		}
	})
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := waitForEnter(nil, 0)(ctx); err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	env := func(key string) string {
		return map[string]string{"MEDSUM_API_URL": "http://localhost:3001/api", "GEMINI_API_KEY": "g-key"}[key]
	}
	var cfg Config
	if err := loadConfig(&cfg, "config.yml", env); err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Transport != TransportRelay {
		t.Errorf("expected relay transport, got %s", cfg.Transport)
	}
	if cfg.Relay.BaseURL != "http://localhost:3001/api" {
		t.Errorf("unexpected relay url %s", cfg.Relay.BaseURL)
	}
	if cfg.LLM.APIKey != "g-key" {
		t.Errorf("expected gemini key from env, got %q", cfg.LLM.APIKey)
	}
	src, err := cfg.recordCommand()
	if err != nil || src.Name != "arecord" {
		t.Errorf("unexpected record command %+v (%v)", src, err)
	}

	cfg.Transport = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown transport to fail")
	}
}
