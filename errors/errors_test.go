package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeMalformedSummary, "bad output", http.StatusInternalServerError)
	if err.Code != ErrCodeMalformedSummary {
		t.Errorf("expected code %s, got %s", ErrCodeMalformedSummary, err.Code)
	}
	if err.Message != "bad output" {
		t.Errorf("expected message 'bad output', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("MALFORMED_SUMMARY should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeServiceOverloaded, "busy", http.StatusServiceUnavailable)
	if !err.Retryable {
		t.Error("SERVICE_OVERLOADED should be retryable")
	}
}

func TestAppError_Constructors(t *testing.T) {
	cause := fmt.Errorf("boom")
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		message   string
		retryable bool
	}{
		{"input missing", InputMissing(MsgTranscriptFieldsMissing), ErrCodeInputMissing, http.StatusBadRequest, MsgTranscriptFieldsMissing, false},
		{"unsupported file", UnsupportedFileType("audio/wav"), ErrCodeUnsupportedFileType, http.StatusUnsupportedMediaType, "Please upload a valid MP3 file.", false},
		{"overloaded", ServiceOverloaded(cause), ErrCodeServiceOverloaded, http.StatusServiceUnavailable, MsgServiceOverloaded, true},
		{"malformed", MalformedSummary(cause), ErrCodeMalformedSummary, http.StatusInternalServerError, MsgMalformedSummary, false},
		{"credential", CredentialMissing(MsgServerKeyMissing), ErrCodeCredentialMissing, http.StatusInternalServerError, "API key is required", false},
		{"transport default", TransportFailure("", cause), ErrCodeTransportFailure, http.StatusInternalServerError, MsgTransportFailure, false},
		{"transport custom", TransportFailure("Server error: 502", nil), ErrCodeTransportFailure, http.StatusInternalServerError, "Server error: 502", false},
		{"too large", PayloadTooLarge(10), ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge, MsgPayloadTooLarge, false},
		{"rate limited", RateLimited(), ErrCodeRateLimited, http.StatusTooManyRequests, MsgRateLimited, true},
		{"internal", Internal(cause), ErrCodeInternal, http.StatusInternalServerError, "Internal server error", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, tc.err.Message)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestAppError_Error_WithCause(t *testing.T) {
	err := MalformedSummary(fmt.Errorf("unexpected end of JSON input"))
	if !strings.Contains(err.Error(), "MALFORMED_SUMMARY") {
		t.Errorf("expected code in error string, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "unexpected end of JSON input") {
		t.Errorf("expected cause in error string, got %q", err.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := TransportFailure("", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := InputMissing("x").WithDetail("field", "language")
	if err.Details["field"] != "language" {
		t.Errorf("expected field=language, got %v", err.Details["field"])
	}
}

func TestToResponse_OnlyMessage(t *testing.T) {
	body, err := json.Marshal(ServiceOverloaded(nil).ToResponse())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"error":"The AI service is temporarily overloaded. Please try again in a few minutes."}`
	if string(body) != want {
		t.Errorf("expected %s, got %s", want, body)
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("summarize: %w", ServiceOverloaded(nil))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError to be found through wrapping")
	}
	if appErr.Code != ErrCodeServiceOverloaded {
		t.Errorf("expected SERVICE_OVERLOADED, got %s", appErr.Code)
	}
	if !IsCode(wrapped, ErrCodeServiceOverloaded) {
		t.Error("expected IsCode to match")
	}
	if IsCode(stderrors.New("plain"), ErrCodeServiceOverloaded) {
		t.Error("plain error should not match any code")
	}
}

func TestClassify(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("expected nil for nil error")
	}
	plain := Classify(stderrors.New("connection reset"))
	if plain.Code != ErrCodeTransportFailure || plain.Message != MsgTransportFailure {
		t.Errorf("expected generic transport failure, got %s %q", plain.Code, plain.Message)
	}
	orig := MalformedSummary(nil)
	if Classify(orig) != orig {
		t.Error("expected AppError to pass through unchanged")
	}
}
