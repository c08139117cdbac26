package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"storefront-go/internal/domain/nav"
	"storefront-go/internal/domain/notify"
	platformconfig "storefront-go/internal/platform/config"
	platformtesting "storefront-go/internal/platform/testing"
)

type recordingNavigator struct {
	mu      sync.Mutex
	current string
	visited []string
}

func (r *recordingNavigator) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *recordingNavigator) GoTo(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = route
	r.visited = append(r.visited, route)
}

func mintToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "shopper", "exp": jwt.NewNumericDate(expiresAt)}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func testConfig(t *testing.T, baseURL string) *platformconfig.Config {
	t.Helper()
	cfg := platformtesting.SetupTestConfig(t)
	cfg.API.BaseURL = baseURL
	return cfg
}

func newApp(t *testing.T, baseURL string) (*App, *recordingNavigator) {
	t.Helper()
	navi := &recordingNavigator{current: "/catalog"}
	app, err := New(context.Background(), Options{
		Config:    testConfig(t, baseURL),
		Navigator: navi,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		if err := app.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return app, navi
}

func TestNewAssemblesComponents(t *testing.T) {
	app, _ := newApp(t, "http://127.0.0.1:8000")

	if app.Config == nil || app.Logger == nil || app.Bus == nil {
		t.Fatal("platform components missing")
	}
	if app.Session == nil || app.Watchdog == nil || app.Client == nil {
		t.Fatal("domain components missing")
	}
	if app.Session.IsAuthenticated() {
		t.Fatal("fresh app must start logged out")
	}
}

func TestInitGraphDependencyOrder(t *testing.T) {
	steps := initGraph()
	seen := map[string]bool{}
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if !seen[dep] {
				t.Fatalf("step %s depends on %s before it runs", step.ID, dep)
			}
		}
		seen[step.ID] = true
	}
}

// Login with a token already inside the safety margin: the watchdog must
// force a logout immediately after the session is established.
func TestLoginWithNearlyExpiredTokenForcesLogout(t *testing.T) {
	shortToken := mintToken(t, time.Now().Add(2*time.Second))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": true,
			"data": gin.H{
				"accessToken": shortToken,
				"user":        gin.H{"id": 1, "email": "shopper@example.com"},
			},
		})
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	app, navi := newApp(t, server.URL)

	var mu sync.Mutex
	var toasts []notify.Event
	unsubscribe, err := app.Bus.Subscribe(func(e notify.Event) {
		mu.Lock()
		defer mu.Unlock()
		toasts = append(toasts, e)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	t.Cleanup(func() { unsubscribe() })

	if _, err := app.Client.Login(context.Background(), "shopper@example.com", "hunter2"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if app.Session.IsAuthenticated() {
		t.Fatal("expected forced logout for a token inside the safety margin")
	}
	if navi.Current() != nav.RouteLogin {
		t.Fatalf("expected redirect to login, got %s", navi.Current())
	}

	mu.Lock()
	defer mu.Unlock()
	expired := 0
	for _, e := range toasts {
		if e.Kind == notify.KindError && strings.Contains(e.Message, "Session Expired") {
			expired++
		}
	}
	if expired != 1 {
		t.Fatalf("expected one session-expired toast, got %+v", toasts)
	}
}

// A valid long-lived login keeps the session armed, and logout disarms it.
func TestLoginLogoutLifecycle(t *testing.T) {
	longToken := mintToken(t, time.Now().Add(time.Hour))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": true,
			"data": gin.H{
				"accessToken": longToken,
				"user":        gin.H{"id": 1, "email": "shopper@example.com"},
			},
		})
	})
	router.POST("/api/v1/auth/logout", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": true})
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	app, _ := newApp(t, server.URL)

	if _, err := app.Client.Login(context.Background(), "shopper@example.com", "hunter2"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !app.Session.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}

	if err := app.Client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if app.Session.IsAuthenticated() {
		t.Fatal("expected logged out session")
	}
}
