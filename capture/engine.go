package capture

// Fragment is one recognised piece of speech. Final fragments will not be
// revised by the engine.
type Fragment struct {
	Text  string
	Final bool
}

// Event is one engine result carrying the fragments that changed.
type Event struct {
	Fragments []Fragment
}

// ErrorCode is an engine error identifier.
type ErrorCode string

// Engine error codes.
const (
	ErrNoSpeech     ErrorCode = "no-speech"
	ErrAborted      ErrorCode = "aborted"
	ErrAudioCapture ErrorCode = "audio-capture"
	ErrNotAllowed   ErrorCode = "not-allowed"
	ErrNetwork      ErrorCode = "network"
)

// Listener receives engine callbacks. Callbacks may arrive on any goroutine.
type Listener interface {
	Result(Event)
	Error(ErrorCode)
	// End signals that the engine stopped producing results.
	End()
}

// Engine is a streaming speech-to-text source.
type Engine interface {
	// Start begins recognition in the given BCP-47 locale.
	Start(locale string, l Listener) error
	// Stop ends recognition. Implementations may still call End afterwards.
	Stop()
}
