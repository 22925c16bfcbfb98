package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/kbukum/medsum/capture"
	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/logger"
	"github.com/kbukum/medsum/normalize"
	"github.com/kbukum/medsum/summarizer"
	"github.com/kbukum/medsum/util"
)

// options are the per-invocation flags.
type options struct {
	Mode     string
	Text     string
	File     string
	Language string
	Example  bool
	JSON     bool
	// Duration bounds record mode. Zero records until Enter is pressed.
	Duration time.Duration
}

// runner performs one summarize invocation.
type runner struct {
	opts   options
	cfg    *Config
	log    *logger.Logger
	svc    summarizer.Summarizer
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// engine is only used in record mode.
	engine capture.Engine
	// waitRecording blocks until recording should stop.
	waitRecording func(ctx context.Context) error
}

func (r *runner) run(ctx context.Context) error {
	in := normalize.NewInput(r.opts.Language, normalize.WithLogger(r.log))
	if err := r.fill(ctx, in); err != nil {
		return err
	}

	req, err := in.Normalize(ctx)
	if stderrors.Is(err, normalize.ErrEmpty) {
		return fmt.Errorf("nothing to summarize: pass --text, --file, --example or use --mode record")
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(r.stderr, "Summarizing %s in %s...\n", req.Kind, req.Language)
	start := time.Now()
	sum, err := r.svc.Summarize(ctx, req)
	if err != nil {
		return err
	}
	r.log.Debug("summary ready", logger.Fields(logger.FieldDuration, time.Since(start).String()))
	return render(r.stdout, sum, r.opts.JSON)
}

// fill loads the selected input into in.
func (r *runner) fill(ctx context.Context, in *normalize.Input) error {
	mode := normalize.Mode(util.Coalesce(r.opts.Mode, string(normalize.ModeText)))
	if err := in.SetMode(mode); err != nil {
		return err
	}

	switch mode {
	case normalize.ModeUpload:
		if util.IsBlank(r.opts.File) {
			return fmt.Errorf("--file is required in upload mode")
		}
		f, err := normalize.OpenFile(r.opts.File)
		if err != nil {
			return err
		}
		return in.SetFile(f)
	case normalize.ModeRecord:
		return r.record(ctx, in)
	default:
		switch {
		case r.opts.Example:
			in.LoadExample()
		case r.opts.Text == "-":
			data, err := io.ReadAll(r.stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			in.SetText(string(data))
		default:
			in.SetText(r.opts.Text)
		}
		return nil
	}
}

// record runs a capture session until waitRecording returns, then switches
// back to text mode, which stops the session and keeps the transcript.
func (r *runner) record(ctx context.Context, in *normalize.Input) error {
	publish := in.Publisher()
	session := capture.NewSession(r.engine, func(text string) {
		publish(text)
		fmt.Fprintf(r.stderr, "\r\033[K%s", util.Truncate(text, 120))
	},
		capture.WithLogger(r.log),
		capture.WithFinalizeDelay(r.cfg.Capture.FinalizeDelay),
		capture.WithRestartDelay(r.cfg.Capture.RestartDelay),
		capture.WithErrorHandler(func(msg string) { fmt.Fprintln(r.stderr, "\n"+msg) }),
	)
	in.AttachCapture(session)

	if err := session.Start(in.Language()); err != nil {
		return err
	}
	fmt.Fprintln(r.stderr, "Recording. Press Enter to stop.")

	waitErr := r.waitRecording(ctx)
	if err := in.SetMode(normalize.ModeText); err != nil {
		return err
	}
	fmt.Fprintln(r.stderr)
	return waitErr
}

// waitForEnter returns when a line is read from stdin, d elapses (if set)
// or ctx is done. A nil stdin is never read.
func waitForEnter(stdin io.Reader, d time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		done := make(chan struct{})
		if stdin != nil {
			go func() {
				_, _ = bufio.NewReader(stdin).ReadString('\n')
				close(done)
			}()
		}
		var timeout <-chan time.Time
		if d > 0 {
			t := time.NewTimer(d)
			defer t.Stop()
			timeout = t.C
		}
		select {
		case <-done:
		case <-timeout:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}
}

// describe turns err into the line shown to the user.
func describe(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
