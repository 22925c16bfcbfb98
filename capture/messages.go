package capture

import "fmt"

// User-facing capture messages.
const (
	MsgStartFailed       = "Failed to start recording. Please try again."
	MsgUnsupported       = "Speech recognition is not supported. Configure a streaming engine and try again."
	MsgMicrophoneDenied  = "Microphone access denied. Please allow microphone permissions."
	MsgPermissionDenied  = "Microphone permission denied. Please refresh and allow microphone access."
	msgRecognitionFormat = "Speech recognition error: %s"
)

// ErrorMessage maps an engine error code to the message shown to the user.
// It reports false for codes that are not surfaced.
func ErrorMessage(code ErrorCode) (string, bool) {
	switch code {
	case ErrNoSpeech, ErrAborted:
		return "", false
	case ErrAudioCapture:
		return MsgMicrophoneDenied, true
	case ErrNotAllowed:
		return MsgPermissionDenied, true
	default:
		return fmt.Sprintf(msgRecognitionFormat, code), true
	}
}
