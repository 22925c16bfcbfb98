// Package logger provides structured logging backed by zerolog.
//
// Components receive a *Logger and tag themselves with WithComponent:
//
//	log := logger.NewFromEnv("medsum-relay").WithComponent("summarizer")
//	log.Info("summary generated", logger.Fields("language", "Spanish"))
//
// Console format is meant for terminals; json for deployed relays.
package logger
