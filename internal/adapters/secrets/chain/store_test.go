package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	passstore "github.com/bnema/steamrec/internal/adapters/secrets/pass"
	"github.com/bnema/steamrec/internal/domain"
	portmocks "github.com/bnema/steamrec/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testKey = "steamrec/steam-api-key"

func newTestStore(t *testing.T) (*Store, *portmocks.MockSecretStore, *portmocks.MockSecretStore) {
	t.Helper()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	return store, primary, fallback
}

func notFound(backend string) error {
	return fmt.Errorf("%s secret %q: %w", backend, testKey, domain.ErrSecretNotFound)
}

func TestNewStoreRejectsNilBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStore(nil, portmocks.NewMockSecretStore(t))
	require.ErrorIs(t, err, errNilPrimaryStore)

	_, err = NewStore(portmocks.NewMockSecretStore(t), nil)
	require.ErrorIs(t, err, errNilFallbackStore)
}

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	store, primary, _ := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, testKey).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, testKey).Return("", errors.New("pass unavailable")).Once()
	fallback.EXPECT().Get(mock.Anything, testKey).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetReportsNotFoundWhenNeitherBackendHasIt(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, testKey).Return("", notFound("pass")).Once()
	fallback.EXPECT().Get(mock.Anything, testKey).Return("", notFound("file")).Once()

	_, err := store.Get(context.Background(), testKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetJoinsBackendFailures(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, testKey).Return("", errors.New("pass failed")).Once()
	fallback.EXPECT().Get(mock.Anything, testKey).Return("", errors.New("file failed")).Once()

	_, err := store.Get(context.Background(), testKey)
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass failed")
	assert.ErrorContains(t, err, "file failed")
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetDoesNotFallbackOnCanceledContext(t *testing.T) {
	t.Parallel()

	store, primary, _ := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, testKey).Return("", context.Canceled).Once()

	_, err := store.Get(context.Background(), testKey)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStorePut(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		primaryErr  error
		callsBackup bool
		backupErr   error
		wantErr     bool
	}{
		{name: "primary succeeds", primaryErr: nil},
		{name: "falls back", primaryErr: errors.New("pass failed"), callsBackup: true},
		{name: "both fail", primaryErr: errors.New("pass failed"), callsBackup: true, backupErr: errors.New("disk full"), wantErr: true},
		{name: "canceled", primaryErr: context.Canceled, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store, primary, fallback := newTestStore(t)
			primary.EXPECT().Put(mock.Anything, testKey, "secret").Return(tc.primaryErr).Once()
			if tc.callsBackup {
				fallback.EXPECT().Put(mock.Anything, testKey, "secret").Return(tc.backupErr).Once()
			}

			err := store.Put(context.Background(), testKey, "secret")
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		primaryErr   error
		fallbackErr  error
		wantErr      bool
		wantNotFound bool
	}{
		{name: "deleted from primary", fallbackErr: notFound("file")},
		{name: "deleted from fallback", primaryErr: notFound("pass")},
		{name: "deleted from both"},
		{name: "missing everywhere", primaryErr: notFound("pass"), fallbackErr: notFound("file"), wantErr: true, wantNotFound: true},
		{name: "fallback broken", primaryErr: nil, fallbackErr: errors.New("permission denied"), wantErr: true},
		{name: "pass unavailable", primaryErr: passstore.ErrUnavailable},
		{name: "pass broken", primaryErr: errors.New("gpg failed"), fallbackErr: nil, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store, primary, fallback := newTestStore(t)
			primary.EXPECT().Delete(mock.Anything, testKey).Return(tc.primaryErr).Once()
			fallback.EXPECT().Delete(mock.Anything, testKey).Return(tc.fallbackErr).Once()

			err := store.Delete(context.Background(), testKey)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantNotFound, errors.Is(err, domain.ErrSecretNotFound))
		})
	}
}
