package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"

	"storefront-go/internal/domain/session/model"
)

// fileState is the on-disk shape: the same flat keys the browser build kept
// in local storage.
type fileState struct {
	AccessToken  string      `json:"accessToken,omitempty"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	User         *model.User `json:"user,omitempty"`
	OTPToken     string      `json:"otpVerificationToken,omitempty"`
}

type fileStore struct {
	mu   sync.Mutex
	path string
}

// NewFile builds a store persisting to a single JSON file, the local
// storage equivalent for a desktop or CLI process.
func NewFile(cfg Config) (Store, error) {
	if cfg.File == nil || cfg.File.Path == "" {
		return nil, fmt.Errorf("file store requires a path")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File.Path), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &fileStore{path: cfg.File.Path}, nil
}

func (s *fileStore) read() (fileState, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return fileState{}, nil
	}
	if err != nil {
		return fileState{}, err
	}
	var state fileState
	if err := sonic.Unmarshal(raw, &state); err != nil {
		// A corrupt state file behaves like an empty one; the user just
		// logs in again.
		return fileState{}, nil
	}
	return state, nil
}

func (s *fileStore) write(state fileState) error {
	raw, err := sonic.Marshal(state)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) SaveSession(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	state.AccessToken = rec.AccessToken
	state.RefreshToken = rec.RefreshToken
	state.User = rec.User
	return s.write(state)
}

func (s *fileStore) LoadSession(context.Context) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return Record{}, err
	}
	return Record{
		AccessToken:  state.AccessToken,
		RefreshToken: state.RefreshToken,
		User:         state.User,
	}, nil
}

func (s *fileStore) ClearSession(ctx context.Context) error {
	return s.SaveSession(ctx, Record{})
}

func (s *fileStore) SaveOTPToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	state.OTPToken = token
	return s.write(state)
}

func (s *fileStore) LoadOTPToken(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return "", err
	}
	return state.OTPToken, nil
}

func (s *fileStore) ClearOTPToken(ctx context.Context) error {
	return s.SaveOTPToken(ctx, "")
}

func (s *fileStore) Close(context.Context) error {
	return nil
}
