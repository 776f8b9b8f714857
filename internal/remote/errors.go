package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// RequestError is any non-2xx response from the remote store. It always
// reaches the caller; the sync engine decides separately whether a given
// class of failure is recoverable.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	body := e.Body
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("remote request failed: status %d: %s", e.Status, body)
}

// sessionMarkers are the error-body fragments the backend emits for an
// expired or malformed credential.
var sessionMarkers = []string{
	"JWT expired",
	"jwt expired",
	"invalid JWT",
	"PGRST301",
	"token is expired",
}

// IsSessionInvalid reports whether err means the bearer credential is
// expired or missing, which is recoverable by re-authenticating.
func IsSessionInvalid(err error) bool {
	var re *RequestError
	if !errors.As(err, &re) {
		return false
	}
	if re.Status == http.StatusUnauthorized {
		return true
	}
	for _, marker := range sessionMarkers {
		if strings.Contains(re.Body, marker) {
			return true
		}
	}
	return false
}

// IsUnavailable reports whether err is a transport-level failure (the
// request never produced a response): dial/DNS errors, timeouts, cancelled
// contexts. Non-2xx responses are never "unavailable".
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var re *RequestError
	if errors.As(err, &re) {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// IsTransient reports whether err belongs to a class the sync engine may
// recover from by falling back to the cached snapshot.
func IsTransient(err error) bool {
	return IsSessionInvalid(err) || IsUnavailable(err)
}
