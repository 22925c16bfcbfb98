// Package normalize reduces the three input modes (typed text, live
// capture, uploaded MP3) to one CanonicalRequest.
package normalize

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"

	"github.com/kbukum/medsum/capture"
	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/logger"
	"github.com/kbukum/medsum/summary"
	"github.com/kbukum/medsum/util"
)

// Mode is the active input mode.
type Mode string

const (
	ModeText   Mode = "text"
	ModeRecord Mode = "record"
	ModeUpload Mode = "upload"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeText || m == ModeRecord || m == ModeUpload
}

// DefaultMaxFileSize bounds uploads read into memory.
const DefaultMaxFileSize = 50 << 20

// ErrEmpty is returned when there is neither text nor a file to summarize.
var ErrEmpty = stderrors.New("normalize: nothing to summarize")

// Result is the outcome of building a request.
type Result struct {
	Request CanonicalRequest
	Err     error
}

// Input holds the user's current selection. Text and file are mutually
// exclusive: setting one clears the other.
type Input struct {
	maxFileSize int64
	log         *logger.Logger

	mu       sync.Mutex
	mode     Mode
	text     string
	file     *File
	language string
	session  *capture.Session
}

// InputOption configures an Input.
type InputOption func(*Input)

// WithMaxFileSize caps the size of uploaded files.
func WithMaxFileSize(n int64) InputOption { return func(in *Input) { in.maxFileSize = n } }

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) InputOption { return func(in *Input) { in.log = l } }

// NewInput returns an Input in text mode. An empty language selects the
// default output language.
func NewInput(language string, opts ...InputOption) *Input {
	in := &Input{
		mode:        ModeText,
		language:    util.Coalesce(language, summary.DefaultLanguage),
		maxFileSize: DefaultMaxFileSize,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.log = in.log.WithComponent("normalize")
	return in
}

// Mode returns the active mode.
func (in *Input) Mode() Mode {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.mode
}

// SetMode switches modes. Leaving record mode stops the attached capture
// session.
func (in *Input) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("normalize: unknown mode %q", m)
	}
	in.mu.Lock()
	prev := in.mode
	in.mode = m
	session := in.session
	in.mu.Unlock()

	// Stop outside the lock: the session publishes into SetText.
	if prev == ModeRecord && m != ModeRecord && session != nil {
		session.Stop()
		in.log.Debug("capture stopped on mode switch", logger.Fields(logger.FieldMode, string(m)))
	}
	return nil
}

// Text returns the current transcript text.
func (in *Input) Text() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.text
}

// SetText replaces the transcript. A non-empty value clears the selected file.
func (in *Input) SetText(v string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.text = v
	if v != "" {
		in.file = nil
	}
}

// File returns the selected file, or nil.
func (in *Input) File() *File {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.file
}

// SetFile selects f. Only MP3 files are accepted; on rejection the previous
// selection is kept. A non-nil file clears the text; nil clears the file.
func (in *Input) SetFile(f *File) error {
	if f != nil && f.MIMEType != MIMETypeMP3 {
		return errors.UnsupportedFileType(f.MIMEType)
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.file = f
	if f != nil {
		in.text = ""
	}
	return nil
}

// Language returns the output language.
func (in *Input) Language() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.language
}

// SetLanguage sets the output language.
func (in *Input) SetLanguage(language string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.language = language
}

// AttachCapture associates a capture session with record mode.
func (in *Input) AttachCapture(s *capture.Session) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.session = s
}

// Publisher returns a capture publisher that writes into the text.
func (in *Input) Publisher() capture.Publisher {
	return in.SetText
}

// LoadExample replaces the text with the sample interview for the current
// language and clears the file.
func (in *Input) LoadExample() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.text, _ = summary.ExampleTranscript(in.language)
	in.file = nil
}

// LoadAsync builds the request without blocking the caller. File content
// is read and encoded on a separate goroutine. The channel yields exactly
// one Result.
func (in *Input) LoadAsync(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)

	in.mu.Lock()
	text, file, language := in.text, in.file, in.language
	in.mu.Unlock()

	switch {
	case file != nil:
		go func() {
			req, err := in.readFile(ctx, file, language)
			out <- Result{Request: req, Err: err}
		}()
	case util.IsBlank(text):
		out <- Result{Err: ErrEmpty}
	default:
		out <- Result{Request: NewTextRequest(text, language)}
	}
	return out
}

// Normalize blocks until the request is built or ctx is done.
func (in *Input) Normalize(ctx context.Context) (CanonicalRequest, error) {
	select {
	case res := <-in.LoadAsync(ctx):
		return res.Request, res.Err
	case <-ctx.Done():
		return CanonicalRequest{}, ctx.Err()
	}
}

func (in *Input) readFile(ctx context.Context, f *File, language string) (CanonicalRequest, error) {
	rc, err := f.Open()
	if err != nil {
		return CanonicalRequest{}, fmt.Errorf("normalize: open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, in.maxFileSize+1))
	if err != nil {
		return CanonicalRequest{}, fmt.Errorf("normalize: read %s: %w", f.Name, err)
	}
	if int64(len(data)) > in.maxFileSize {
		return CanonicalRequest{}, errors.PayloadTooLarge(in.maxFileSize)
	}
	if err := ctx.Err(); err != nil {
		return CanonicalRequest{}, err
	}
	in.log.Debug("audio file loaded", logger.Fields("file", f.Name, "bytes", len(data)))
	return NewAudioRequest(data, f.MIMEType, language), nil
}
