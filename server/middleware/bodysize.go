package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/util"
)

const defaultMaxBodySize = 50 * 1024 * 1024

// BodySizeLimit rejects bodies larger than maxSize (e.g. "50MB") with 413.
// A declared Content-Length over the limit is refused before the handler
// runs; other bodies are capped with http.MaxBytesReader and the handler
// reports the overflow via IsBodyTooLarge.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				writeError(w, errors.PayloadTooLarge(size))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}

// IsBodyTooLarge reports whether err came from reading past the body limit.
func IsBodyTooLarge(err error) bool {
	if err == nil {
		return false
	}
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
