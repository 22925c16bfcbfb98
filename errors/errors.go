package errors

import (
	"fmt"
	"net/http"
)

// User-facing messages. They are returned verbatim by the relay and the CLI.
const (
	MsgTranscriptFieldsMissing = "Missing required fields: transcript and language are required"
	MsgAudioFieldsMissing      = "Missing required fields: audio file and language are required"
	MsgUnsupportedFileType     = "Please upload a valid MP3 file."
	MsgServiceOverloaded       = "The AI service is temporarily overloaded. Please try again in a few minutes."
	MsgMalformedSummary        = "Failed to get a valid summary from the AI. The response was not in the expected format."
	MsgTransportFailure        = "An error occurred while communicating with the AI. Please try again later."
	MsgCallerKeyMissing        = "API key not provided. Please initialize with your Google Gemini API key."
	MsgServerKeyMissing        = "API key is required"
	MsgInternal                = "Internal server error"
	MsgPayloadTooLarge         = "Request body too large"
	MsgRateLimited             = "Rate limit exceeded"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Constructors ---

// InputMissing creates an error for an absent transcript, file or language.
func InputMissing(message string) *AppError {
	return &AppError{
		Code: ErrCodeInputMissing, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// UnsupportedFileType creates an error for an upload with a rejected MIME type.
func UnsupportedFileType(mimeType string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedFileType, Message: MsgUnsupportedFileType,
		HTTPStatus: http.StatusUnsupportedMediaType, Retryable: false,
		Details: map[string]any{"mime_type": mimeType},
	}
}

// ServiceOverloaded creates an error for a generation service that is temporarily overloaded.
func ServiceOverloaded(cause error) *AppError {
	return &AppError{
		Code: ErrCodeServiceOverloaded, Message: MsgServiceOverloaded,
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true, Cause: cause,
	}
}

// MalformedSummary creates an error for model output that is not a valid summary.
func MalformedSummary(cause error) *AppError {
	return &AppError{
		Code: ErrCodeMalformedSummary, Message: MsgMalformedSummary,
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// CredentialMissing creates an error for an absent downstream credential.
func CredentialMissing(message string) *AppError {
	return &AppError{
		Code: ErrCodeCredentialMissing, Message: message,
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// TransportFailure creates an error for a failed exchange with a remote service.
// An empty message falls back to the generic AI communication message.
func TransportFailure(message string, cause error) *AppError {
	if message == "" {
		message = MsgTransportFailure
	}
	return &AppError{
		Code: ErrCodeTransportFailure, Message: message,
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// PayloadTooLarge creates an error for a request body above the size ceiling.
func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code: ErrCodePayloadTooLarge, Message: MsgPayloadTooLarge,
		HTTPStatus: http.StatusRequestEntityTooLarge, Retryable: false,
		Details: map[string]any{"limit_bytes": limit},
	}
}

// RateLimited creates an error for too many requests.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: MsgRateLimited,
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: MsgInternal,
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
