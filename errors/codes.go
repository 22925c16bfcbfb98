package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors, surfaced before any network call.
const (
	// ErrCodeInputMissing indicates a required transcript, audio file or language is absent.
	ErrCodeInputMissing ErrorCode = "INPUT_MISSING"
	// ErrCodeUnsupportedFileType indicates an uploaded file is not an accepted audio type.
	ErrCodeUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"
	// ErrCodePayloadTooLarge indicates the request body exceeded the configured ceiling.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	// ErrCodeCredentialMissing indicates no downstream credential is available.
	ErrCodeCredentialMissing ErrorCode = "CREDENTIAL_MISSING"
)

// Downstream errors
const (
	// ErrCodeServiceOverloaded indicates the generation service is temporarily overloaded.
	ErrCodeServiceOverloaded ErrorCode = "SERVICE_OVERLOADED"
	// ErrCodeMalformedSummary indicates the model output could not be parsed into a summary.
	ErrCodeMalformedSummary ErrorCode = "MALFORMED_SUMMARY"
	// ErrCodeTransportFailure indicates a network or protocol failure talking to a remote service.
	ErrCodeTransportFailure ErrorCode = "TRANSPORT_FAILURE"
	// ErrCodeRateLimited indicates the client is rate limited by the relay.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceOverloaded: true,
	ErrCodeRateLimited:       true,
	ErrCodeTransportFailure:  false,
	ErrCodeMalformedSummary:  false,
	ErrCodeInternal:          false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
