// Package bootstrap assembles the storefront client from configuration:
// logging, the durable session store, the session manager, the expiry
// watchdog and the API client, in dependency order.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-go/internal/domain/api"
	"storefront-go/internal/domain/nav"
	"storefront-go/internal/domain/notify"
	"storefront-go/internal/domain/session"
	sessionstore "storefront-go/internal/domain/session/store"
	"storefront-go/internal/domain/watchdog"
	platformconfig "storefront-go/internal/platform/config"
	platformerrors "storefront-go/internal/platform/errors"
	platformlogging "storefront-go/internal/platform/logging"
	platformstorage "storefront-go/internal/platform/storage"
)

// Options tunes how the application is assembled.
type Options struct {
	ConfigPath string
	// Navigator receives forced redirects. Defaults to nav.Nop.
	Navigator nav.Navigator
	// Config bypasses the loader when set, for tests.
	Config *platformconfig.Config
}

// App holds the assembled client components.
type App struct {
	Config   *platformconfig.Config
	Logger   *platformlogging.Logger
	Bus      *notify.Bus
	Session  *session.Manager
	Watchdog *watchdog.Watchdog
	Client   *api.Client

	store sessionstore.Store
	db    *gorm.DB
}

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	opts Options
	app  *App
}

// New assembles the application. The returned App owns its resources; call
// Close when done.
func New(ctx context.Context, opts Options) (*App, error) {
	state := &appState{opts: opts, app: &App{}}

	if err := executeInitSteps(ctx, initGraph(), state); err != nil {
		if state.app.Logger != nil {
			state.app.Logger.Close()
		}
		return nil, err
	}
	return state.app, nil
}

// Close tears the application down in reverse assembly order.
func (a *App) Close() error {
	var errs []error
	if a.Watchdog != nil {
		a.Watchdog.Close()
	}
	if a.store != nil {
		if err := a.store.Close(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					step.Kind,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}
			return platformerrors.Wrap(step.Kind, step.ID, "init step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func initGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindConfig,
			Execute:   initLoggingStep,
		},
		{
			ID:        "session:init-store",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindStorage,
			Execute:   initStoreStep,
		},
		{
			ID:        "session:init-manager",
			DependsOn: []string{"session:init-store"},
			Kind:      platformerrors.KindSession,
			Execute:   initSessionStep,
		},
		{
			ID:        "notify:init-bus",
			DependsOn: []string{"logging:init"},
			Kind:      platformerrors.KindUnknown,
			Execute:   initBusStep,
		},
		{
			ID:        "watchdog:init",
			DependsOn: []string{"session:init-manager", "notify:init-bus"},
			Kind:      platformerrors.KindSession,
			Execute:   initWatchdogStep,
		},
		{
			ID:        "api:init-client",
			DependsOn: []string{"session:init-manager", "notify:init-bus"},
			Kind:      platformerrors.KindTransport,
			Execute:   initClientStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	if state.opts.Config != nil {
		state.app.Config = state.opts.Config
		return nil
	}

	loader := platformconfig.NewLoader()
	if state.opts.ConfigPath != "" {
		loader = loader.WithPath(state.opts.ConfigPath)
	}
	res, err := loader.Load()
	if err != nil {
		return err
	}
	state.app.Config = res.Config
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	cfg := state.app.Config
	logger, err := platformlogging.New(platformlogging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindConfig, "logging:init", "failed to initialize logging", err)
	}
	state.app.Logger = logger
	logger.Info("logging ready [%s]", cfg.Log.Level)
	return nil
}

func initStoreStep(_ context.Context, state *appState) error {
	cfg := state.app.Config.Session.Store

	storeCfg := sessionstore.Config{
		Driver:    cfg.Driver,
		Namespace: cfg.Namespace,
		File:      &sessionstore.FileConfig{Path: cfg.File.Path},
		SQLite:    &sessionstore.SQLiteConfig{DSN: cfg.SQLite.DSN},
		Redis: &sessionstore.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			Timeout:  cfg.Redis.Timeout,
		},
	}

	deps := sessionstore.Dependencies{}
	if cfg.Driver == sessionstore.DriverSQLite {
		db, err := platformstorage.OpenSessionDB(cfg.SQLite.DSN)
		if err != nil {
			return platformerrors.Wrap(platformerrors.KindStorage, "session:init-store", "failed to open sqlite database", err)
		}
		state.app.db = db
		deps.SQLiteDB = db
	}

	s, err := sessionstore.New(storeCfg, deps)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "session:init-store", "failed to create session store", err)
	}
	state.app.store = s
	state.app.Logger.Info("session store ready [%s]", storeCfg.Driver)
	return nil
}

func initSessionStep(ctx context.Context, state *appState) error {
	manager, err := session.NewManager(ctx, session.Options{
		Store:  state.app.store,
		Logger: state.app.Logger,
	})
	if err != nil {
		return err
	}
	state.app.Session = manager
	if manager.IsAuthenticated() {
		state.app.Logger.Info("restored authenticated session from store")
	}
	return nil
}

func initBusStep(_ context.Context, state *appState) error {
	state.app.Bus = notify.NewBus(state.app.Logger)
	return nil
}

func initWatchdogStep(_ context.Context, state *appState) error {
	wd, err := watchdog.New(watchdog.Options{
		Session:   state.app.Session,
		Bus:       state.app.Bus,
		Navigator: state.opts.Navigator,
		Logger:    state.app.Logger,
		Margin:    state.app.Config.Watchdog.Margin,
	})
	if err != nil {
		return err
	}
	wd.Start()
	state.app.Watchdog = wd
	return nil
}

func initClientStep(_ context.Context, state *appState) error {
	cfg := state.app.Config.API
	routes := api.DefaultRoutes()
	if cfg.Routes.Register != "" {
		routes.Register = cfg.Routes.Register
	}
	if cfg.Routes.PasswordReset != "" {
		routes.PasswordReset = cfg.Routes.PasswordReset
	}
	if len(cfg.Routes.OTPAuthorized) > 0 {
		routes.OTPAuthorized = cfg.Routes.OTPAuthorized
	}

	client, err := api.NewClient(api.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Session:   state.app.Session,
		Bus:       state.app.Bus,
		Navigator: state.opts.Navigator,
		Logger:    state.app.Logger,
		Routes:    &routes,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindTransport, "api:init-client", "failed to create api client", err)
	}
	state.app.Client = client
	return nil
}
