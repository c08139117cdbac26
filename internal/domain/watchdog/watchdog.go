// Package watchdog guarantees an authenticated session is never used past
// token expiry: it schedules a forced logout slightly ahead of each token's
// expiry claim and tells the user why they were signed out.
package watchdog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront-go/internal/domain/nav"
	"storefront-go/internal/domain/notify"
	"storefront-go/internal/domain/session"
	"storefront-go/internal/domain/session/model"
	"storefront-go/internal/domain/token"
)

// Kind identifies which watched credential a timer belongs to.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// DefaultMargin is subtracted from a token's expiry before scheduling the
// forced logout, so a request already in flight is not cut off by a token
// lapsing mid-request.
const DefaultMargin = 5 * time.Second

// Options encapsulates the dependencies required to construct a Watchdog.
type Options struct {
	Session   *session.Manager
	Bus       *notify.Bus
	Navigator nav.Navigator
	Logger    model.Logger
	Margin    time.Duration
}

// Watchdog is the Idle/Armed timer pair bound to the session's tokens.
// Every re-arm cancels both previous timers first, so at most one live
// timer per token kind ever exists.
type Watchdog struct {
	session *session.Manager
	bus     *notify.Bus
	nav     nav.Navigator
	logger  model.Logger
	margin  time.Duration

	// Overridable in tests.
	now        func() time.Time
	startTimer func(d time.Duration, fn func()) func()

	mu     sync.Mutex
	timers map[Kind]func()
	detach func()
}

// New builds a Watchdog in the Idle state. Call Start to bind it to the
// session.
func New(opts Options) (*Watchdog, error) {
	if opts.Session == nil {
		return nil, errors.New("watchdog requires a session manager")
	}
	if opts.Bus == nil {
		return nil, errors.New("watchdog requires a notification bus")
	}
	if opts.Logger == nil {
		return nil, errors.New("watchdog requires a logger")
	}
	navigator := opts.Navigator
	if navigator == nil {
		navigator = nav.Nop{}
	}
	margin := opts.Margin
	if margin <= 0 {
		margin = DefaultMargin
	}

	return &Watchdog{
		session: opts.Session,
		bus:     opts.Bus,
		nav:     navigator,
		logger:  opts.Logger,
		margin:  margin,
		now:     time.Now,
		startTimer: func(d time.Duration, fn func()) func() {
			t := time.AfterFunc(d, fn)
			return func() { t.Stop() }
		},
		timers: make(map[Kind]func()),
	}, nil
}

// Start arms the watchdog against the current session and re-arms it on
// every session transition.
func (w *Watchdog) Start() {
	detach := w.session.OnChange(func(snap model.Snapshot) {
		w.Arm(snap)
	})
	w.mu.Lock()
	w.detach = detach
	w.mu.Unlock()
	w.Arm(w.session.Snapshot())
}

// Close detaches from the session and cancels all timers.
func (w *Watchdog) Close() {
	w.mu.Lock()
	detach := w.detach
	w.detach = nil
	w.mu.Unlock()
	if detach != nil {
		detach()
	}
	w.Disarm()
}

// Disarm cancels both timers, returning the watchdog to Idle.
func (w *Watchdog) Disarm() {
	w.mu.Lock()
	w.cancelLocked()
	w.mu.Unlock()
}

func (w *Watchdog) cancelLocked() {
	for kind, stop := range w.timers {
		stop()
		delete(w.timers, kind)
	}
}

// tokenAbsent guards against upstream serialization bugs that stored the
// literal text "undefined" or "null" instead of nothing.
func tokenAbsent(tok string) bool {
	return tok == "" || tok == "undefined" || tok == "null"
}

// Arm atomically re-evaluates both timers against the snapshot. Tokens
// whose expiry cannot be read are skipped, never treated as expired. A
// token already inside the safety margin fires the expiry action
// synchronously instead of scheduling a timer.
func (w *Watchdog) Arm(snap model.Snapshot) {
	var immediate []Kind

	w.mu.Lock()
	w.cancelLocked()
	if !snap.IsAuthenticated {
		w.mu.Unlock()
		return
	}

	watched := []struct {
		kind Kind
		tok  string
	}{
		{KindAccess, snap.AccessToken},
		{KindRefresh, snap.RefreshToken},
	}
	now := w.now()
	for _, entry := range watched {
		if tokenAbsent(entry.tok) {
			continue
		}
		remaining, ok := token.TimeUntilExpiry(entry.tok, now)
		if !ok {
			continue
		}
		if remaining <= w.margin {
			immediate = append(immediate, entry.kind)
			continue
		}
		kind := entry.kind
		w.timers[kind] = w.startTimer(remaining-w.margin, func() {
			w.expire(kind)
		})
	}
	w.mu.Unlock()

	// Fired outside the lock: expiring clears the session, which re-enters
	// Arm through the change listener.
	for _, kind := range immediate {
		w.expire(kind)
	}
}

// expire is the shared expiry action: toast, clear, redirect to login.
func (w *Watchdog) expire(kind Kind) {
	w.logger.Warn("%s token lapsed, forcing logout", kind)
	w.bus.Error(
		fmt.Sprintf("Session Expired (%s token)", kind),
		notify.WithTitle("Session Expired"),
	)
	if err := w.session.Clear(context.Background()); err != nil {
		w.logger.Error("failed clearing expired session: %v", err)
	}
	w.nav.GoTo(nav.RouteLogin)
}
