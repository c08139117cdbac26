package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestFileStore(t *testing.T) Store {
	t.Helper()
	s, err := NewFile(Config{
		File: &FileConfig{Path: filepath.Join(t.TempDir(), "session.json")},
	})
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}
	return s
}

func TestFileStoreLifecycle(t *testing.T) {
	runStoreLifecycle(t, newTestFileStore(t))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	first, err := NewFile(Config{File: &FileConfig{Path: path}})
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}
	if err := first.SaveSession(ctx, Record{AccessToken: "persisted"}); err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}

	second, err := NewFile(Config{File: &FileConfig{Path: path}})
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}
	rec, err := second.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession error: %v", err)
	}
	if rec.AccessToken != "persisted" {
		t.Fatalf("expected session to survive reopen, got %+v", rec)
	}
}

func TestFileStoreUsesLocalStorageKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := NewFile(Config{File: &FileConfig{Path: path}})
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}
	if err := s.SaveSession(ctx, Record{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("SaveSession error: %v", err)
	}
	if err := s.SaveOTPToken(ctx, "o"); err != nil {
		t.Fatalf("SaveOTPToken error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read state file: %v", err)
	}
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyOTPToken} {
		if !strings.Contains(string(raw), `"`+key+`"`) {
			t.Fatalf("state file missing key %q: %s", key, raw)
		}
	}
}

func TestFileStoreCorruptFileActsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s, err := NewFile(Config{File: &FileConfig{Path: path}})
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}
	rec, err := s.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession error: %v", err)
	}
	if !rec.Empty() {
		t.Fatalf("corrupt file must read as empty, got %+v", rec)
	}
}
