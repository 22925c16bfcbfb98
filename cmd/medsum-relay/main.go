// Command medsum-relay serves the summarize HTTP API and holds the model
// credential on behalf of browser and CLI clients.
package main

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kbukum/medsum/bootstrap"
	_ "github.com/kbukum/medsum/llm/gemini"
	_ "github.com/kbukum/medsum/llm/openai"
	"github.com/kbukum/medsum/logger"
	"github.com/kbukum/medsum/observability"
	"github.com/kbukum/medsum/relay"
	"github.com/kbukum/medsum/server"
	"github.com/kbukum/medsum/summarizer"
	"github.com/kbukum/medsum/util"
	"github.com/kbukum/medsum/version"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}
	if err := run(context.Background(), *configFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile string) error {
	var cfg Config
	if err := loadConfig(&cfg, configFile, os.Getenv); err != nil {
		return err
	}
	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	log := app.Logger

	shutdownTelemetry, err := observability.Init(ctx, cfg.Telemetry, cfg.Name, cfg.Version, log)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	app.OnStop(shutdownTelemetry)

	metrics := observability.DefaultMetrics()
	svc, err := summarizer.Open(ctx, cfg.LLM, summarizer.CredentialServerHeld,
		summarizer.WithConfig(cfg.Summarizer),
		summarizer.WithLogger(log),
		summarizer.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}
	if util.IsBlank(cfg.LLM.APIKey) {
		log.Warn("no model API key configured, summarize requests will fail",
			logger.Fields(logger.FieldBackend, cfg.LLM.Backend))
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware(metrics)
	relay.Mount(srv, relay.NewHandler(svc, log), cfg.Server.RateLimitPerMinute)

	app.OnStart(srv.Start)
	app.OnReady(func(context.Context) error {
		log.Info("relay listening", logger.Fields(
			"addr", srv.Addr(),
			logger.FieldBackend, cfg.LLM.Backend,
			"credential", util.MaskSecret(cfg.LLM.APIKey, 4),
		))
		return nil
	})
	app.OnStop(srv.Stop)

	return app.Run(ctx)
}
