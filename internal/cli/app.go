package cli

import (
	"context"
	"fmt"

	"github.com/me/eduportal/internal/api"
	"github.com/me/eduportal/internal/auth"
	"github.com/me/eduportal/internal/connection"
	"github.com/me/eduportal/internal/environment"
	"github.com/me/eduportal/internal/events"
	"github.com/me/eduportal/internal/store"
)

// app wires the client components the way a page load does: resolve the
// environment once, open local storage and restore any saved session.
type app struct {
	resolver *environment.Resolver
	store    store.Store
	client   *api.Client
	bus      *events.Bus
	auth     *auth.Manager
	conn     *connection.Service
}

var current *app

// newResolver builds the resolver from the loaded config.
func newResolver() (*environment.Resolver, error) {
	r, err := environment.NewResolverFromURL(cfg.Location)
	if err != nil {
		return nil, err
	}
	if cfg.APIBaseURL != "" {
		r = r.WithBaseURL(cfg.APIBaseURL)
	}
	return r, nil
}

// openApp returns the wired client, building it on first use.
func openApp(ctx context.Context) (*app, error) {
	if current != nil {
		return current, nil
	}
	r, err := newResolver()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.StoreDriver, cfg.StorePath, logger)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	a := &app{
		resolver: r,
		store:    st,
		client:   api.NewClient(r, logger, api.WithTimeout(cfg.Timeout)),
		bus:      events.NewBus(),
	}
	a.auth = auth.NewManager(a.client, st, a.bus, logger, auth.WithSessionTTL(cfg.SessionTTL))
	a.conn = connection.NewService(a.client, st, a.auth, logger)
	a.auth.HydrateSession(ctx)

	current = a
	return a, nil
}

func closeApp() error {
	if current == nil {
		return nil
	}
	err := current.store.Close()
	current = nil
	return err
}
