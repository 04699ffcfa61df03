package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/logging"
	"github.com/bnema/steamrec/internal/ports"
)

type FailureKind int

const (
	FailureTransient FailureKind = iota + 1
	FailurePermanent
	FailureRateLimited
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransient:
		return "transient"
	case FailurePermanent:
		return "permanent"
	case FailureRateLimited:
		return "rate limited"
	default:
		return "unknown"
	}
}

// FetchError is the terminal error of one Fetch call.
type FetchError struct {
	Kind     FailureKind
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s failure after %d attempt(s): %v", e.Kind, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	switch target {
	case domain.ErrRateLimited:
		return e.Kind == FailureRateLimited
	case domain.ErrTransient:
		return e.Kind == FailureTransient
	default:
		return false
	}
}

type FetchPolicy struct {
	MaxAttempts  int
	RetryDelay   time.Duration
	RequestDelay time.Duration
	// RateLimitPatience caps consecutive rate-limit waits per call. Zero waits forever.
	RateLimitPatience int
}

type Fetcher struct {
	policy FetchPolicy
	clock  ports.Clock
}

func NewFetcher(policy FetchPolicy, clock ports.Clock) *Fetcher {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	return &Fetcher{policy: policy, clock: clock}
}

func (f *Fetcher) Policy() FetchPolicy {
	return f.policy
}

// Fetch runs op until it succeeds or fails terminally. Rate-limit answers are
// waited out without spending an attempt, transient failures are retried with a
// delay of RetryDelay times the attempt number, anything else fails at once. A
// successful call is followed by RequestDelay so callers never issue two requests
// back to back.
func Fetch[T any](ctx context.Context, f *Fetcher, op func(ctx context.Context) (T, error)) (T, error) {
	var (
		zero      T
		result    T
		attempt   = 1
		rateWaits int
		nextDelay time.Duration
		terminal  error
	)

	err := retry.Do(
		func() error {
			value, err := op(ctx)
			if err == nil {
				result = value
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				terminal = ctxErr
				return retry.Unrecoverable(ctxErr)
			}

			switch classifyFailure(err) {
			case FailureRateLimited:
				rateWaits++
				if f.policy.RateLimitPatience > 0 && rateWaits > f.policy.RateLimitPatience {
					terminal = &FetchError{Kind: FailureRateLimited, Attempts: attempt, Err: err}
					return retry.Unrecoverable(terminal)
				}
				nextDelay = rateLimitDelay(err, f.policy.RetryDelay, attempt)
				return err
			case FailurePermanent:
				terminal = &FetchError{Kind: FailurePermanent, Attempts: attempt, Err: err}
				return retry.Unrecoverable(terminal)
			default:
				rateWaits = 0
				if attempt >= f.policy.MaxAttempts {
					terminal = &FetchError{Kind: FailureTransient, Attempts: attempt, Err: err}
					return retry.Unrecoverable(terminal)
				}
				nextDelay = f.policy.RetryDelay * time.Duration(attempt)
				attempt++
				return err
			}
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.WithTimer(f.clock),
		retry.DelayType(func(_ uint, _ error, _ *retry.Config) time.Duration {
			return nextDelay
		}),
		retry.OnRetry(func(_ uint, err error) {
			event := logging.Ctx(ctx).Warn()
			if errors.Is(err, domain.ErrRateLimited) {
				event = logging.Ctx(ctx).Info()
			}
			event.Err(err).
				Int("attempt", attempt).
				Int("max_attempts", f.policy.MaxAttempts).
				Dur("delay", nextDelay).
				Msg("request failed, waiting before retry")
		}),
	)
	if err != nil {
		if terminal != nil {
			return zero, terminal
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		return zero, err
	}

	f.wait(ctx, f.policy.RequestDelay)

	return result, nil
}

func (f *Fetcher) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	select {
	case <-ctx.Done():
		return false
	case <-f.clock.After(d):
		return true
	}
}

func classifyFailure(err error) FailureKind {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}

	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return FailureRateLimited
	case errors.Is(err, domain.ErrAccessDenied), errors.Is(err, domain.ErrMalformedResponse):
		return FailurePermanent
	case errors.Is(err, domain.ErrTransient):
		return FailureTransient
	}

	var statusErr *domain.StatusError
	if errors.As(err, &statusErr) {
		return FailurePermanent
	}

	return FailureTransient
}

func rateLimitDelay(err error, base time.Duration, attempt int) time.Duration {
	var statusErr *domain.StatusError
	if errors.As(err, &statusErr) && statusErr.HasRetryAfter {
		return statusErr.RetryAfter
	}

	return base * time.Duration(attempt)
}
