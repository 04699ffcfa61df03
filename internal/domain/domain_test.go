package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameDisplayNameFallsBackToAppID(t *testing.T) {
	assert.Equal(t, "Portal", Game{AppID: 400, Name: " Portal "}.DisplayName())
	assert.Equal(t, "Game 400", Game{AppID: 400}.DisplayName())
	assert.Equal(t, "Game 400", Game{AppID: 400, Name: "   "}.DisplayName())
}

func TestGameIDs(t *testing.T) {
	ids := GameIDs([]Game{{AppID: 10}, {AppID: 20}, {AppID: 10}})
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, 10)
	assert.Contains(t, ids, 20)
}

func TestStoreURL(t *testing.T) {
	assert.Equal(t, "https://store.steampowered.com/app/570", StoreURL(570))
}

func TestStatusErrorClassification(t *testing.T) {
	tests := []struct {
		status      int
		rateLimited bool
		denied      bool
		transient   bool
	}{
		{status: http.StatusTooManyRequests, rateLimited: true},
		{status: http.StatusForbidden, denied: true},
		{status: http.StatusInternalServerError, transient: true},
		{status: http.StatusBadGateway, transient: true},
		{status: http.StatusNotFound},
		{status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := fmt.Errorf("get owned games: %w", &StatusError{StatusCode: tt.status})
			assert.Equal(t, tt.rateLimited, errors.Is(err, ErrRateLimited))
			assert.Equal(t, tt.denied, errors.Is(err, ErrAccessDenied))
			assert.Equal(t, tt.transient, errors.Is(err, ErrTransient))
		})
	}
}

func TestStatusErrorMessageIncludesBody(t *testing.T) {
	err := &StatusError{StatusCode: http.StatusTooManyRequests, Body: " slow down ", RetryAfter: time.Second, HasRetryAfter: true}
	assert.Equal(t, "HTTP 429: Too Many Requests: slow down", err.Error())

	bare := &StatusError{StatusCode: http.StatusForbidden}
	assert.Equal(t, "HTTP 403: Forbidden", bare.Error())

	var target *StatusError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &target)
	assert.Equal(t, time.Second, target.RetryAfter)
}
