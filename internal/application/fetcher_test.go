package application

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bnema/steamrec/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPolicy = FetchPolicy{
	MaxAttempts:  3,
	RetryDelay:   7 * time.Second,
	RequestDelay: 2 * time.Second,
}

type scriptedOp struct {
	results []error
	calls   int
}

func (s *scriptedOp) run(context.Context) (string, error) {
	s.calls++
	if s.calls <= len(s.results) {
		if err := s.results[s.calls-1]; err != nil {
			return "", err
		}
	}
	return "ok", nil
}

func status(code int) error {
	return &domain.StatusError{StatusCode: code}
}

func TestFetch(t *testing.T) {
	t.Parallel()

	tooMany := status(http.StatusTooManyRequests)
	unavailable := status(http.StatusServiceUnavailable)

	testCases := []struct {
		name      string
		policy    FetchPolicy
		results   []error
		wantCalls int
		wantWaits []time.Duration
		wantKind  FailureKind
		wantIs    error
	}{
		{
			name:      "success waits the request delay",
			policy:    testPolicy,
			wantCalls: 1,
			wantWaits: []time.Duration{2 * time.Second},
		},
		{
			name:      "transient failures back off linearly",
			policy:    testPolicy,
			results:   []error{unavailable, errors.New("connection reset")},
			wantCalls: 3,
			wantWaits: []time.Duration{7 * time.Second, 14 * time.Second, 2 * time.Second},
		},
		{
			name:      "transient failures exhaust attempts",
			policy:    testPolicy,
			results:   []error{unavailable, unavailable, unavailable, unavailable},
			wantCalls: 3,
			wantWaits: []time.Duration{7 * time.Second, 14 * time.Second},
			wantKind:  FailureTransient,
			wantIs:    domain.ErrTransient,
		},
		{
			name:      "access denied fails at once",
			policy:    testPolicy,
			results:   []error{status(http.StatusForbidden)},
			wantCalls: 1,
			wantKind:  FailurePermanent,
			wantIs:    domain.ErrAccessDenied,
		},
		{
			name:      "other client errors fail at once",
			policy:    testPolicy,
			results:   []error{status(http.StatusNotFound)},
			wantCalls: 1,
			wantKind:  FailurePermanent,
		},
		{
			name:      "malformed payload fails at once",
			policy:    testPolicy,
			results:   []error{domain.ErrMalformedResponse},
			wantCalls: 1,
			wantKind:  FailurePermanent,
			wantIs:    domain.ErrMalformedResponse,
		},
		{
			name:      "rate limits do not spend attempts",
			policy:    FetchPolicy{MaxAttempts: 1, RetryDelay: 5 * time.Second, RequestDelay: time.Second},
			results:   []error{tooMany, tooMany, tooMany, tooMany, tooMany},
			wantCalls: 6,
			wantWaits: []time.Duration{
				5 * time.Second, 5 * time.Second, 5 * time.Second, 5 * time.Second, 5 * time.Second, time.Second,
			},
		},
		{
			name:      "retry after header wins",
			policy:    testPolicy,
			results:   []error{&domain.StatusError{StatusCode: http.StatusTooManyRequests, RetryAfter: 30 * time.Second, HasRetryAfter: true}},
			wantCalls: 2,
			wantWaits: []time.Duration{30 * time.Second, 2 * time.Second},
		},
		{
			name:      "rate limit wait scales with current attempt",
			policy:    testPolicy,
			results:   []error{unavailable, tooMany},
			wantCalls: 3,
			wantWaits: []time.Duration{7 * time.Second, 14 * time.Second, 2 * time.Second},
		},
		{
			name:      "rate limit patience ends the call",
			policy:    FetchPolicy{MaxAttempts: 3, RetryDelay: time.Second, RateLimitPatience: 2},
			results:   []error{tooMany, tooMany, tooMany, tooMany},
			wantCalls: 3,
			wantWaits: []time.Duration{time.Second, time.Second},
			wantKind:  FailureRateLimited,
			wantIs:    domain.ErrRateLimited,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			clock := newFakeClock()
			op := &scriptedOp{results: tc.results}

			value, err := Fetch(context.Background(), NewFetcher(tc.policy, clock), op.run)

			assert.Equal(t, tc.wantCalls, op.calls)
			if tc.wantWaits == nil {
				assert.Empty(t, clock.Waits())
			} else {
				assert.Equal(t, tc.wantWaits, clock.Waits())
			}
			if tc.wantKind == 0 {
				require.NoError(t, err)
				assert.Equal(t, "ok", value)
				return
			}

			var fetchErr *FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tc.wantKind, fetchErr.Kind)
			assert.Empty(t, value)
			if tc.wantIs != nil {
				assert.ErrorIs(t, err, tc.wantIs)
			}
		})
	}
}

func TestFetchDoesNotRetryCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Fetch(ctx, NewFetcher(testPolicy, newFakeClock()), func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("request aborted")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestFetchErrorClassification(t *testing.T) {
	t.Parallel()

	rateLimited := &FetchError{Kind: FailureRateLimited, Attempts: 1, Err: errors.New("slow down")}
	assert.ErrorIs(t, rateLimited, domain.ErrRateLimited)
	assert.NotErrorIs(t, rateLimited, domain.ErrTransient)
	assert.Equal(t, FailureRateLimited, classifyFailure(rateLimited))
	assert.Equal(t, FailureTransient, classifyFailure(errors.New("dial tcp: i/o timeout")))
	assert.Equal(t, FailurePermanent, classifyFailure(status(http.StatusUnauthorized)))
	assert.Contains(t, rateLimited.Error(), "rate limited failure after 1 attempt(s)")
}
