// Package testutil builds fully wired console servers backed by the static
// services, for use in handler and integration tests.
package testutil

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/l4nzaerol/balagbag/internal/admin/httpserver"
	"github.com/l4nzaerol/balagbag/internal/admin/httpserver/middleware"
	"github.com/l4nzaerol/balagbag/internal/admin/orders"
	"github.com/l4nzaerol/balagbag/internal/admin/production"
	"github.com/l4nzaerol/balagbag/internal/admin/store"
	"github.com/l4nzaerol/balagbag/internal/admin/workflow"
)

// Fixture bundles the wired components behind a test server so tests can
// reach past the HTTP surface when needed.
type Fixture struct {
	Server     *httptest.Server
	Backend    *orders.StaticService
	Gate       *production.StaticGate
	Store      *store.Store
	Controller *store.Controller
}

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithAuthenticator overrides the authenticator used by the admin server.
func WithAuthenticator(auth middleware.Authenticator) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Authenticator = auth
	}
}

// WithBasePath sets a custom base path for the admin routes.
func WithBasePath(path string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.BasePath = path
	}
}

// NewServer starts a console server on the static backend and gate with the
// snapshot already loaded. The server is shut down via t.Cleanup.
func NewServer(t testing.TB, opts ...ServerOption) *Fixture {
	t.Helper()

	backend := orders.NewStaticService()
	gate := production.NewStaticGate()
	st := store.NewStore()
	controller := store.NewController(backend, st, store.DefaultInterval, nil)
	engine := workflow.NewEngine(backend, gate, controller, nil)

	if err := controller.Refresh(context.Background()); err != nil {
		t.Fatalf("load initial snapshot: %v", err)
	}

	cfg := httpserver.Config{
		BasePath:   "/admin",
		Store:      st,
		Controller: controller,
		Engine:     engine,
		Gate:       gate,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv := httptest.NewServer(httpserver.New(cfg).Handler)
	t.Cleanup(srv.Close)

	return &Fixture{
		Server:     srv,
		Backend:    backend,
		Gate:       gate,
		Store:      st,
		Controller: controller,
	}
}
