package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotCorrupt  = errors.New("snapshot corrupt")
	ErrHistoryNotFound  = errors.New("recommendation history not found")
	ErrSecretNotFound   = errors.New("secret not found")
	ErrConfiguration    = errors.New("configuration error")

	ErrRateLimited  = errors.New("rate limited")
	ErrAccessDenied = errors.New("profile is private or API access denied")
	ErrTransient    = errors.New("transient failure")

	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is a non-2xx answer from the remote API.
type StatusError struct {
	StatusCode    int
	Body          string
	RetryAfter    time.Duration
	HasRetryAfter bool
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrAccessDenied:
		return e.StatusCode == http.StatusForbidden
	case ErrTransient:
		return e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}
