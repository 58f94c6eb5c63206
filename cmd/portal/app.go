package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/core/service"
	"github.com/obraportal/portal-client/internal/infrastructure/apiclient"
	"github.com/obraportal/portal-client/internal/infrastructure/config"
	"github.com/obraportal/portal-client/internal/infrastructure/credential"
	"github.com/obraportal/portal-client/internal/infrastructure/token"
	"github.com/obraportal/portal-client/pkg/logger"
)

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	out     io.Writer
	portal  *apiclient.Portal
	session *service.Session
	closeFn func() error
}

// lockedWriter serialises writes coming from concurrent loads.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// consoleNavigator prints the destination the router picked.
type consoleNavigator struct {
	out io.Writer
}

var destinationLabels = map[domain.Destination]string{
	domain.DestinationLanding:      "landing page (signed out)",
	domain.DestinationCustomerHome: "customer home",
	domain.DestinationAdmin:        "administrator dashboard",
	domain.DestinationFieldWorker:  "field worker dashboard",
}

func (n consoleNavigator) Navigate(dest domain.Destination) {
	fmt.Fprintf(n.out, "→ %s\n", destinationLabels[dest])
}

func newApp(ctx context.Context, out io.Writer) (*app, error) {
	out = &lockedWriter{w: out}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Console: cfg.IsDevelopment()})

	store, closeFn, err := credential.Open(ctx, credential.Options{
		Backend:   cfg.Credential.Backend,
		Key:       cfg.Credential.Key,
		Dir:       cfg.Credential.Dir,
		RedisAddr: cfg.Redis.Addr,
		RedisDB:   cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}

	client, err := apiclient.New(cfg.APIBaseURL, store, log,
		apiclient.WithAuthRejectedHook(func() {
			fmt.Fprintln(out, "Your session has expired or was rejected. Run `portal login` again.")
		}),
	)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	session := service.NewSession(client, store, token.NewJWTDecoder(), service.NewRoleRouter(log), consoleNavigator{out: out}, log)
	return &app{
		cfg:     cfg,
		log:     log,
		out:     out,
		portal:  apiclient.NewPortal(client),
		session: session,
		closeFn: closeFn,
	}, nil
}

func (a *app) Close() error {
	if a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}
