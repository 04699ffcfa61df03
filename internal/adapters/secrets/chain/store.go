package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/steamrec/internal/adapters/secrets/file"
	passstore "github.com/bnema/steamrec/internal/adapters/secrets/pass"
	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/ports"
)

// Store reads and writes through primary, falling back when it fails. Deletes
// go to both backends since a secret may have landed in either one.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

func NewPassFirstWithFileFallback(fileRoot string, passOpts ...passstore.Option) (*Store, error) {
	return NewStore(passstore.NewStore(passOpts...), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil || isContextErr(err) {
		return err
	}

	if fallbackErr := s.fallback.Put(ctx, key, value); fallbackErr != nil {
		return fmt.Errorf("put secret %q in any backend: %w", key, errors.Join(err, fallbackErr))
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil || isContextErr(err) {
		return value, err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}
	if absent(err) && absent(fallbackErr) {
		return "", fmt.Errorf("secret %q: %w", key, domain.ErrSecretNotFound)
	}

	return "", fmt.Errorf("get secret %q from any backend: %w", key, errors.Join(err, fallbackErr))
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if isContextErr(err) {
		return err
	}
	fallbackErr := s.fallback.Delete(ctx, key)

	if !(err == nil || absent(err)) || !(fallbackErr == nil || absent(fallbackErr)) {
		return fmt.Errorf("delete secret %q: %w", key, errors.Join(err, fallbackErr))
	}
	if err != nil && fallbackErr != nil {
		return fmt.Errorf("secret %q: %w", key, domain.ErrSecretNotFound)
	}

	return nil
}

// absent reports errors meaning the backend does not hold the secret.
func absent(err error) bool {
	return errors.Is(err, domain.ErrSecretNotFound) || errors.Is(err, passstore.ErrUnavailable)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
