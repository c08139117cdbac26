package bootstrap

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"storefront-go/internal/domain/notify"
)

// Run assembles the client, renders notifications to the console and keeps
// the session watchdog alive until the process is signalled to stop.
func Run(ctx context.Context, opts Options) error {
	app, err := New(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			fmt.Printf("shutdown: %v\n", closeErr)
		}
	}()

	unsubscribe, err := app.Bus.Subscribe(func(e notify.Event) {
		if e.Title != "" {
			fmt.Printf("[%s] %s: %s\n", e.Kind, e.Title, e.Message)
			return
		}
		fmt.Printf("[%s] %s\n", e.Kind, e.Message)
	})
	if err != nil {
		return err
	}
	defer unsubscribe()

	// A session restored from the store may be stale; refresh the profile
	// so an expired token is caught right away.
	if app.Session.IsAuthenticated() {
		if _, err := app.Client.Profile(ctx); err != nil {
			app.Logger.Warn("profile refresh failed: %v", err)
		}
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Logger.Info("storefront client ready [%s]", app.Config.API.BaseURL)
	<-signalCtx.Done()
	app.Logger.Info("received shutdown signal, cleaning up")
	return nil
}
