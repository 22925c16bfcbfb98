package llm

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/kbukum/medsum/errors"
)

// LooksOverloaded reports whether an error message describes an overloaded
// model service.
func LooksOverloaded(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "overloaded")
}

// ClassifyError maps a backend failure onto the error taxonomy. status is the
// HTTP status reported by the provider, or 0 when unknown. A known status
// decides alone; the message is only consulted without one. Context errors
// pass through unchanged.
func ClassifyError(err error, status int) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	overloaded := status == http.StatusServiceUnavailable
	if status == 0 {
		overloaded = LooksOverloaded(err.Error())
	}
	if overloaded {
		return errors.ServiceOverloaded(err)
	}
	return errors.TransportFailure("", err).WithDetail("status", status)
}
