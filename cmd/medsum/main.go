// Command medsum summarizes a patient interview from typed text, an MP3
// upload or live recording, either through the relay or directly against
// the model.
package main

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kbukum/medsum/bootstrap"
	"github.com/kbukum/medsum/capture/deepgram"
	_ "github.com/kbukum/medsum/llm/gemini"
	_ "github.com/kbukum/medsum/llm/openai"
	"github.com/kbukum/medsum/logger"
	"github.com/kbukum/medsum/normalize"
	"github.com/kbukum/medsum/relayclient"
	"github.com/kbukum/medsum/summarizer"
	"github.com/kbukum/medsum/summary"
	"github.com/kbukum/medsum/version"
)

func main() {
	var opts options
	flag.StringVarP(&opts.Mode, "mode", "m", string(normalize.ModeText), "input mode: text, upload or record")
	flag.StringVarP(&opts.Text, "text", "t", "", `transcript text, or "-" to read stdin`)
	flag.StringVarP(&opts.File, "file", "f", "", "MP3 file for upload mode")
	flag.StringVarP(&opts.Language, "lang", "l", summary.DefaultLanguage, "output language")
	flag.BoolVar(&opts.Example, "example", false, "use the sample interview for --lang")
	flag.BoolVar(&opts.JSON, "json", false, "print the summary as JSON")
	flag.DurationVar(&opts.Duration, "duration", 0, "stop recording after this long")
	transport := flag.String("transport", "", "relay or direct (overrides config)")
	stdinAudio := flag.Bool("stdin-audio", false, "record mode: read raw PCM from stdin instead of the recorder command")
	configFile := flag.String("config", "", "path to config.yml")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}

	var cfg Config
	if err := loadConfig(&cfg, *configFile, os.Getenv); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *transport != "" {
		cfg.Transport = *transport
	}

	if err := run(context.Background(), &cfg, opts, *stdinAudio); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config, opts options, stdinAudio bool) error {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	log := app.Logger

	svc, err := newSummarizer(ctx, cfg, log)
	if err != nil {
		return err
	}

	r := &runner{
		opts:          opts,
		cfg:           cfg,
		log:           log,
		svc:           svc,
		stdin:         os.Stdin,
		stdout:        os.Stdout,
		stderr:        os.Stderr,
		waitRecording: waitForEnter(os.Stdin, opts.Duration),
	}
	if opts.Mode == string(normalize.ModeRecord) {
		var source deepgram.AudioSource
		if stdinAudio {
			if opts.Duration <= 0 {
				return fmt.Errorf("--stdin-audio requires --duration")
			}
			source = deepgram.NewReaderSource(os.Stdin)
			r.waitRecording = waitForEnter(nil, opts.Duration)
		} else {
			cmd, err := cfg.recordCommand()
			if err != nil {
				return err
			}
			source = cmd
		}
		if err := cfg.Deepgram.Validate(); err != nil {
			return err
		}
		r.engine = deepgram.New(cfg.Deepgram, source, log)
	}

	return app.RunTask(ctx, r.run)
}

func newSummarizer(ctx context.Context, cfg *Config, log *logger.Logger) (summarizer.Summarizer, error) {
	if cfg.Transport == TransportDirect {
		return summarizer.Open(ctx, cfg.LLM, summarizer.CredentialCallerSupplied,
			summarizer.WithConfig(cfg.Summarizer),
			summarizer.WithLogger(log),
		)
	}
	return relayclient.New(cfg.Relay, log)
}
