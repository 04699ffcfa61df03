package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bnema/steamrec/internal/adapters/repo/atomicfile"
	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/logging"
	"github.com/bnema/steamrec/internal/ports"
)

const tempPattern = ".secret-*.tmp"

// keyPattern accepts slash separated segments such as "steamrec/steam-api-key".
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*(/[A-Za-z0-9][A-Za-z0-9._-]*)*$`)

// Store keeps one secret per file under root, readable only by the owner.
type Store struct {
	root string
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	mu := atomicfile.LockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	if err := atomicfile.Write(path, []byte(value+"\n"), tempPattern); err != nil {
		return fmt.Errorf("write file secret %q: %w", key, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return "", err
	}

	mu := atomicfile.LockForPath(path)
	mu.RLock()
	defer mu.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("file secret %q: %w", key, domain.ErrSecretNotFound)
		}
		return "", fmt.Errorf("stat file secret %q: %w", key, err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		logging.Ctx(ctx).Warn().
			Str("path", path).
			Str("mode", info.Mode().Perm().String()).
			Msg("secret file is readable by other users, consider chmod 600")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file secret %q: %w", key, err)
	}

	return strings.TrimRight(string(data), "\r\n"), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	mu := atomicfile.LockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file secret %q: %w", key, domain.ErrSecretNotFound)
		}
		return fmt.Errorf("delete file secret %q: %w", key, err)
	}

	return nil
}

func (s *Store) pathForKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("secret key is empty")
	}
	if !keyPattern.MatchString(trimmed) {
		return "", fmt.Errorf("invalid secret key %q", key)
	}

	return filepath.Join(s.root, filepath.FromSlash(trimmed)), nil
}
