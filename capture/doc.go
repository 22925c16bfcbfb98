// Package capture folds a streaming speech engine's interim and final
// fragments into one growing transcript.
//
// A Session owns the engine and its timers. Interim text that goes quiet for
// the finalize delay is promoted to committed text, and an engine that ends
// on its own is restarted after the restart delay:
//
//	s := capture.NewSession(engine, input.SetText, capture.WithLogger(log))
//	err := s.Start("English")
//	...
//	s.Stop()
//
// Engine errors are mapped to user-facing messages and delivered to the
// error handler; they never reach the summarize path.
package capture
