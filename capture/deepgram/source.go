package deepgram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// ErrSourceExhausted is returned when a single-use source is opened twice.
var ErrSourceExhausted = errors.New("deepgram: audio source already consumed")

// AudioSource opens a raw audio stream for one recognition run.
type AudioSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// DefaultGracePeriod is how long a recorder has to exit after SIGTERM.
const DefaultGracePeriod = 2 * time.Second

// CommandSource runs a recorder process per run and streams its stdout,
// e.g. "arecord -q -f S16_LE -r 16000 -c 1 -t raw".
type CommandSource struct {
	Name string
	Args []string
	// GracePeriod defaults to DefaultGracePeriod.
	GracePeriod time.Duration
}

// Open starts the recorder. Closing the stream sends SIGTERM and kills the
// process if it has not exited within the grace period.
func (s CommandSource) Open(ctx context.Context) (io.ReadCloser, error) {
	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, s.Name, s.Args...)
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = s.GracePeriod
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultGracePeriod
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("deepgram: recorder pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("deepgram: start recorder %s: %w", s.Name, err)
	}
	return &commandStream{ReadCloser: out, cmd: cmd, cancel: cancel}, nil
}

type commandStream struct {
	io.ReadCloser
	cmd    *exec.Cmd
	cancel context.CancelFunc
	once   sync.Once
}

func (c *commandStream) Close() error {
	c.once.Do(func() {
		c.cancel()
		_ = c.cmd.Wait()
	})
	return nil
}

// ReaderSource serves one reader once, e.g. stdin. The reader is closed
// when the run stops if it implements io.Closer.
type ReaderSource struct {
	mu sync.Mutex
	r  io.Reader
}

// NewReaderSource wraps r.
func NewReaderSource(r io.Reader) *ReaderSource { return &ReaderSource{r: r} }

// Open returns the reader on first use and ErrSourceExhausted afterwards.
func (s *ReaderSource) Open(context.Context) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.r == nil {
		return nil, ErrSourceExhausted
	}
	r := s.r
	s.r = nil
	if rc, ok := r.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(r), nil
}
