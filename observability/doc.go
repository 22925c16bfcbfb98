// Package observability wires OpenTelemetry tracing and metrics for the
// summarize path.
//
//	shutdown, err := observability.Init(ctx, cfg, "medsum-relay", version.Version, log)
//	defer shutdown(ctx)
//
//	ctx, op := observability.StartOperation(ctx, "summarizer.Summarize", "text", metrics)
//	defer op.End(status, err)
//
// An empty endpoint leaves the global no-op providers in place, so spans
// and instruments are always safe to use.
package observability
