package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/ports"
)

const APIKeySecret = "steamrec/steam-api-key"

type CredentialService struct {
	store ports.SecretStore
}

func NewCredentialService(store ports.SecretStore) *CredentialService {
	return &CredentialService{store: store}
}

// SetAPIKey stores the key and reads it back, restoring the previous key when
// the stored value does not match.
func (s *CredentialService) SetAPIKey(ctx context.Context, cmd SetAPIKeyCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	key := strings.TrimSpace(cmd.APIKey)

	previous, err := s.store.Get(ctx, APIKeySecret)
	if err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return fmt.Errorf("get current api key: %w", err)
	}
	hadPrevious := err == nil

	if err := s.store.Put(ctx, APIKeySecret, key); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}

	stored, err := s.store.Get(ctx, APIKeySecret)
	if err == nil && stored == key {
		return nil
	}
	if err == nil {
		err = errors.New("stored api key does not match")
	}

	var rollbackErr error
	if hadPrevious {
		rollbackErr = s.store.Put(ctx, APIKeySecret, previous)
	} else {
		rollbackErr = s.store.Delete(ctx, APIKeySecret)
	}
	if rollbackErr != nil {
		return fmt.Errorf("verify stored api key and rollback: %w", errors.Join(err, rollbackErr))
	}

	return fmt.Errorf("verify stored api key: %w", err)
}

// RemoveAPIKey reports whether a stored key was removed.
func (s *CredentialService) RemoveAPIKey(ctx context.Context) (bool, error) {
	if err := s.store.Delete(ctx, APIKeySecret); err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete api key: %w", err)
	}

	return true, nil
}

func (s *CredentialService) APIKey(ctx context.Context) (string, error) {
	key, err := s.store.Get(ctx, APIKeySecret)
	if err != nil {
		return "", fmt.Errorf("get api key: %w", err)
	}

	return strings.TrimSpace(key), nil
}
