package registrar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of a registrar error response is kept.
const maxErrorBody = 1024

// ErrInvalidIP is returned when an A record target is not an IPv4 address.
var ErrInvalidIP = errors.New("invalid IPv4 address")

// ConfigurationError reports registrar settings that are required but unset.
// It is returned before any request is sent and is never retried.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "registrar not configured: missing " + strings.Join(e.Missing, ", ")
}

// RegistrarError is a non-2xx answer from the registrar API.
type RegistrarError struct {
	Op     string
	Status int
	Body   string
}

func (e *RegistrarError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("registrar %s: HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("registrar %s: HTTP %d: %s", e.Op, e.Status, e.Body)
}

// Retryable reports whether repeating the call may succeed.
func (e *RegistrarError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// IsNotFound reports whether err is a registrar 404.
func IsNotFound(err error) bool {
	var re *RegistrarError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}

// IsConfigurationError reports whether err carries a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// isRetryable classifies an error from a single provider call.
// Transport failures are retried; registrar answers only for 429 and 5xx.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return false
	}
	if errors.Is(err, ErrInvalidIP) {
		return false
	}
	var re *RegistrarError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return true
}

func truncateBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
