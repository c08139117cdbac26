package session

import (
	"context"
	"testing"

	"storefront-go/internal/domain/session/model"
	"storefront-go/internal/domain/session/store"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(context.Background(), Options{
		Store:  store.NewMemory(),
		Logger: nopLogger{},
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	return m
}

func TestEstablishDerivesAuthenticated(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	if m.IsAuthenticated() {
		t.Fatal("fresh session must be unauthenticated")
	}

	user := &model.User{ID: 1, Email: "shopper@example.com"}
	if err := m.Establish(ctx, "access", "refresh", user); err != nil {
		t.Fatalf("Establish error: %v", err)
	}

	snap := m.Snapshot()
	if !snap.IsAuthenticated {
		t.Fatal("expected authenticated after establish")
	}
	if snap.AccessToken != "access" || snap.RefreshToken != "refresh" {
		t.Fatalf("unexpected tokens: %+v", snap)
	}
	if snap.User == nil || snap.User.Email != user.Email {
		t.Fatalf("unexpected user: %+v", snap.User)
	}
}

func TestEstablishRequiresAccessToken(t *testing.T) {
	m := newTestManager(t)
	if err := m.Establish(context.Background(), "", "refresh", nil); err == nil {
		t.Fatal("expected error for empty access token")
	}
}

func TestClearIsAtomicAndIdempotent(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	if err := m.Establish(ctx, "access", "refresh", &model.User{ID: 1}); err != nil {
		t.Fatalf("Establish error: %v", err)
	}
	if err := m.SetOTPToken(ctx, "otp"); err != nil {
		t.Fatalf("SetOTPToken error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := m.Clear(ctx); err != nil {
			t.Fatalf("Clear #%d error: %v", i+1, err)
		}
		snap := m.Snapshot()
		if snap.IsAuthenticated {
			t.Fatalf("Clear #%d left session authenticated", i+1)
		}
		if snap.AccessToken != "" || snap.RefreshToken != "" || snap.User != nil {
			t.Fatalf("Clear #%d left partial session: %+v", i+1, snap)
		}
		if snap.OTPToken != "otp" {
			t.Fatalf("Clear must not touch the otp token, got %q", snap.OTPToken)
		}
	}
}

func TestOTPTokenDoesNotAuthenticate(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	if err := m.SetOTPToken(ctx, "otp"); err != nil {
		t.Fatalf("SetOTPToken error: %v", err)
	}
	if m.IsAuthenticated() {
		t.Fatal("otp verification must not establish an authenticated session")
	}

	if err := m.ClearOTPToken(ctx); err != nil {
		t.Fatalf("ClearOTPToken error: %v", err)
	}
	if m.Snapshot().OTPToken != "" {
		t.Fatal("expected otp token cleared")
	}
}

func TestSetUserKeepsTokens(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	if err := m.Establish(ctx, "access", "refresh", nil); err != nil {
		t.Fatalf("Establish error: %v", err)
	}
	if err := m.SetUser(ctx, &model.User{ID: 5, Email: "new@example.com"}); err != nil {
		t.Fatalf("SetUser error: %v", err)
	}

	snap := m.Snapshot()
	if snap.AccessToken != "access" || !snap.IsAuthenticated {
		t.Fatalf("SetUser must not touch tokens: %+v", snap)
	}
	if snap.User == nil || snap.User.ID != 5 {
		t.Fatalf("unexpected user: %+v", snap.User)
	}
}

func TestHydrationFromStore(t *testing.T) {
	ctx := context.Background()
	backing := store.NewMemory()
	if err := backing.SaveSession(ctx, store.Record{
		AccessToken:  "persisted-access",
		RefreshToken: "persisted-refresh",
		User:         &model.User{ID: 9},
	}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	if err := backing.SaveOTPToken(ctx, "persisted-otp"); err != nil {
		t.Fatalf("seed otp: %v", err)
	}

	m, err := NewManager(ctx, Options{Store: backing, Logger: nopLogger{}})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	snap := m.Snapshot()
	if !snap.IsAuthenticated || snap.AccessToken != "persisted-access" {
		t.Fatalf("expected hydrated session: %+v", snap)
	}
	if snap.OTPToken != "persisted-otp" {
		t.Fatalf("expected hydrated otp token, got %q", snap.OTPToken)
	}
}

func TestOnChangeNotifiesAndDetaches(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	var snaps []model.Snapshot
	detach := m.OnChange(func(s model.Snapshot) { snaps = append(snaps, s) })

	if err := m.Establish(ctx, "access", "refresh", nil); err != nil {
		t.Fatalf("Establish error: %v", err)
	}
	if len(snaps) != 1 || !snaps[0].IsAuthenticated {
		t.Fatalf("expected one authenticated change event, got %+v", snaps)
	}

	detach()
	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("detached listener must not fire, got %d events", len(snaps))
	}
}
