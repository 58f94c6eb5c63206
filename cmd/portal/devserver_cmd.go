package main

import (
	"context"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/obraportal/portal-client/internal/devserver"
	"github.com/obraportal/portal-client/internal/infrastructure/config"
	"github.com/obraportal/portal-client/pkg/logger"
)

func newDevserverCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local portal API with seeded accounts (admin, obrero, cliente)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Console: cfg.IsDevelopment()})
			if port == "" {
				port = cfg.DevServer.Port
			}

			srv, err := devserver.New(devserver.Options{JWTSecret: cfg.DevServer.JWTSecret}, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(net.JoinHostPort("", port)) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Info().Msg("shutting down dev server")
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default DEVSERVER_PORT)")
	return cmd
}
