// Package devserver is an in-process stand-in for the portal API: seeded
// accounts for every role, the REST endpoints the client consumes and the
// /chat relay. It backs `portal devserver` and end-to-end tests.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/devserver/middleware"
)

type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	// Users defaults to DefaultUsers.
	Users []SeedUser
	// BcryptCost defaults to bcrypt.DefaultCost; tests lower it.
	BcryptCost int
}

type Server struct {
	echo *echo.Echo
	hub  *chatHub
	log  zerolog.Logger
}

// New builds the Echo instance with all routes registered.
func New(opts Options, log zerolog.Logger) (*Server, error) {
	if opts.JWTSecret == "" {
		return nil, errors.New("devserver: jwt secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.Users == nil {
		opts.Users = DefaultUsers()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	st, err := newStore(opts.Users, opts.BcryptCost)
	if err != nil {
		return nil, err
	}
	st.seed()

	log = log.With().Str("component", "devserver").Logger()
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = echoValidator{}
	e.HTTPErrorHandler = newHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))

	s := &Server{echo: e, hub: newChatHub(log), log: log}
	s.routes(st, opts)
	return s, nil
}

func (s *Server) routes(st *store, opts Options) {
	e := s.echo
	auth := &authHandler{store: st, secret: opts.JWTSecret, ttl: opts.TokenTTL}
	api := &apiHandler{store: st}

	authed := middleware.Auth(opts.JWTSecret)
	optional := middleware.Optional(opts.JWTSecret)
	admin := middleware.RequireWorker(domain.RoleAdmin)
	worker := middleware.RequireWorker()

	// --- Auth & health ---
	e.POST("/auth/login", auth.login)
	e.GET("/health", s.liveness)
	e.GET("/chat", s.hub.serve)

	// --- Admin overview ---
	e.GET("/api/buildings", api.listBuildings, authed, admin)
	e.GET("/api/workers", api.listWorkers, authed, admin)

	// --- Incidents ---
	e.GET("/api/buildings/:b/incidents", api.listIncidents, authed)
	e.POST("/api/buildings/:b/incidents", api.createIncident, optional)
	e.GET("/api/buildings/:b/incidents/:i", api.getIncident, authed)
	e.PUT("/api/buildings/:b/incidents/:i", api.updateIncident, authed, worker)

	// --- Images ---
	e.GET("/api/buildings/:b/images", api.listImages, authed)
	e.POST("/api/buildings/:b/images", api.uploadImage, authed, worker)

	// --- Documents ---
	e.GET("/auth/building/:b/legalDocumentsIds", api.legalIDs, authed)
	e.POST("/legaldocuments/pdfs", api.legalPDFs, authed)
	e.GET("/auth/building/:b/manualIds", api.manualIDs, authed)
	e.POST("/manual/pdfs", api.manualPDFs, authed)

	// --- Invoices ---
	e.GET("/api/invoices", api.listInvoices, authed, admin)
	e.POST("/api/invoices/upload", api.uploadInvoice, authed, admin)
	e.PUT("/api/invoices/:id", api.updateInvoice, authed, admin)
	e.DELETE("/api/invoices/:id", api.deleteInvoice, authed, admin)

	// --- Events ---
	e.GET("/auth/building/:b/events", api.listEvents, authed)
	e.POST("/api/events/create", api.createEvent, authed, admin)
	e.PUT("/auth/building/updateEvents/:id", api.updateEvent, authed, admin)
	e.DELETE("/auth/building/deleteEvents/:id", api.deleteEvent, authed, admin)

	// --- Worker profile ---
	e.GET("/auth/worker/:w/image", api.workerImage, authed, worker)
	e.POST("/auth/worker/:w/image/upload", api.uploadWorkerImage, authed, worker)
	e.GET("/auth/worker/:w/assigned-customers", api.assignedCustomers, authed, worker)
}

// Handler exposes the server for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown. http.ErrServerClosed is not an error.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("dev server listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.closeAll()
	return s.echo.Shutdown(ctx)
}
