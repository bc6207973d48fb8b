// Package httpserver exposes the console's JSON API: filtered order views,
// statistics, review actions, status transitions and sync control.
package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	custommw "github.com/l4nzaerol/balagbag/internal/admin/httpserver/middleware"
	"github.com/l4nzaerol/balagbag/internal/admin/production"
	"github.com/l4nzaerol/balagbag/internal/admin/rbac"
	"github.com/l4nzaerol/balagbag/internal/admin/store"
	"github.com/l4nzaerol/balagbag/internal/admin/workflow"
)

// Config holds runtime options for the admin HTTP server.
type Config struct {
	Address       string
	BasePath      string
	Authenticator custommw.Authenticator
	Logger        *zap.Logger

	Store      *store.Store
	Controller *store.Controller
	Engine     *workflow.Engine
	Gate       production.Gate
}

// New constructs the HTTP server with its middleware stack and routes.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(custommw.RequestLogger(logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))

	router.Handle("/metrics", promhttp.Handler())

	basePath := normalizeBasePath(cfg.BasePath)

	authenticator := cfg.Authenticator
	if authenticator == nil {
		authenticator = custommw.DefaultAuthenticator()
	}

	h := &handler{
		store:      cfg.Store,
		controller: cfg.Controller,
		engine:     cfg.Engine,
		gate:       cfg.Gate,
		logger:     logger,
	}

	router.Route(basePath, func(r chi.Router) {
		r.Use(custommw.Auth(authenticator, logger))

		r.With(custommw.RequireCapability(rbac.CapOrdersList)).
			Get("/orders", h.listOrders)
		r.With(custommw.RequireCapability(rbac.CapOrdersList)).
			Get("/orders/stats", h.orderStats)
		r.With(custommw.RequireCapability(rbac.CapSyncRefresh)).
			Post("/orders/refresh", h.refreshOrders)
		r.With(custommw.RequireCapability(rbac.CapProductionStatus)).
			Get("/orders/{orderID}/production-status", h.productionStatus)
		r.With(custommw.RequireCapability(rbac.CapOrdersReview)).
			Post("/orders/{orderID}/accept", h.acceptOrder)
		r.With(custommw.RequireCapability(rbac.CapOrdersReview)).
			Post("/orders/{orderID}/reject", h.rejectOrder)
		r.With(custommw.RequireCapability(rbac.CapOrdersStatus)).
			Put("/orders/{orderID}/status", h.updateStatus)
	})

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func normalizeBasePath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return "/admin"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}
