package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/ports"
)

// DefaultBinary is the password-store CLI. gopass accepts the same commands.
const DefaultBinary = "pass"

var ErrUnavailable = errors.New("pass command unavailable")

var (
	notFoundMarkers = []string{
		"is not in the password store",
		"entry is not in the password store",
	}
	uninitializedMarkers = []string{
		"password store is empty",
		"you must run:",
		"try \"pass init\"",
		"gopass setup",
	}
)

type runFunc func(ctx context.Context, input string, args ...string) (stdout string, stderr string, err error)

// Store keeps secrets in the user's password-store. The API key is the first
// line of its entry; later lines are left for the user's own notes.
type Store struct {
	binary string
	run    runFunc
}

var _ ports.SecretStore = (*Store)(nil)

type Option func(*Store)

func WithBinary(binary string) Option {
	return func(s *Store) {
		if binary = strings.TrimSpace(binary); binary != "" {
			s.binary = binary
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{binary: DefaultBinary}
	for _, opt := range opts {
		opt(s)
	}
	s.run = commandRunner(s.binary)
	return s
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, value+"\n", "insert", "--multiline", "--force", key)
	if err != nil {
		return classify("put", key, err, stderr)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, "", "show", key)
	if err != nil {
		return "", classify("get", key, err, stderr)
	}

	firstLine, _, _ := strings.Cut(stdout, "\n")
	return strings.TrimSpace(firstLine), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, "", "rm", "--force", key)
	if err != nil {
		return classify("delete", key, err, stderr)
	}

	return nil
}

func commandRunner(binary string) runFunc {
	return func(ctx context.Context, input string, args ...string) (string, string, error) {
		path, err := exec.LookPath(binary)
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				return "", "", ErrUnavailable
			}
			return "", "", fmt.Errorf("locate %s command: %w", binary, err)
		}

		cmd := exec.CommandContext(ctx, path, args...)
		if input != "" {
			cmd.Stdin = strings.NewReader(input)
		}

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err = cmd.Run()
		return stdout.String(), strings.TrimSpace(stderr.String()), err
	}
}

// classify maps pass failures onto the errors the secret chain understands:
// a missing entry is not found, an uninitialised store is unavailable.
func classify(op string, key string, err error, stderr string) error {
	if errors.Is(err, ErrUnavailable) {
		return err
	}

	lower := strings.ToLower(stderr)
	switch {
	case containsAny(lower, notFoundMarkers):
		return fmt.Errorf("pass %s %q: %w", op, key, domain.ErrSecretNotFound)
	case containsAny(lower, uninitializedMarkers):
		return fmt.Errorf("pass %s %q: %w: %s", op, key, ErrUnavailable, stderr)
	case stderr == "":
		return fmt.Errorf("pass %s %q: %w", op, key, err)
	default:
		return fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
	}
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
