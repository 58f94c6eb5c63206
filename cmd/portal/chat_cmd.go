package main

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/infrastructure/chat"
)

func newChatCmd(h *appHolder) *cobra.Command {
	var name, metricsAddr string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Join the portal chat; each input line is sent as a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := h.get(cmd)
			if err != nil {
				return err
			}
			if name == "" {
				claims, err := a.session.Claims(cmd.Context())
				if err != nil {
					return errors.New("sign in first or pass --name")
				}
				name = fmt.Sprintf("%s-%d", strings.ToLower(string(claims.Kind)), claims.SubjectID)
			}

			if metricsAddr != "" {
				srv := &http.Server{Addr: metricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.log.Warn().Err(err).Msg("metrics listener stopped")
					}
				}()
				defer srv.Close()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			dialer := &websocket.Dialer{Proxy: http.ProxyFromEnvironment, HandshakeTimeout: 10 * time.Second}
			ch := chat.New(a.cfg.ChatURL, a.log,
				chat.WithDialer(dialer),
				chat.WithMessageHook(func(m domain.ChatMessage) {
					fmt.Fprintf(out, "[%s] %s\n", m.Sender, m.Text)
				}),
			)
			if err := ch.Open(ctx); err != nil {
				return err
			}
			defer ch.Close()
			fmt.Fprintf(out, "connected as %s, Ctrl-D to leave\n", name)

			lines := make(chan string)
			go func() {
				defer close(lines)
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					lines <- sc.Text()
				}
			}()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ch.Done():
					fmt.Fprintln(out, "chat connection closed")
					return nil
				case line, ok := <-lines:
					if !ok {
						return nil
					}
					if strings.TrimSpace(line) == "" {
						continue
					}
					if !ch.Send(name, line) {
						fmt.Fprintln(out, "(not connected, message not sent)")
					}
				}
			}
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "sender name (defaults to your account)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	return cmd
}
