package httputil

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

// ErrBodyTooLarge reports a request body over the configured cap.
var ErrBodyTooLarge = errors.New("request body too large")

// ReadBody reads the request body up to max bytes. Overruns come back as
// ErrBodyTooLarge so handlers can answer 413.
func ReadBody(w http.ResponseWriter, r *http.Request, max int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, max)
	b, err := io.ReadAll(r.Body)
	if err != nil {
		if isBodyTooLarge(err) {
			return nil, ErrBodyTooLarge
		}
		return nil, err
	}
	return b, nil
}

func isBodyTooLarge(err error) bool {
	if err == nil {
		return false
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
