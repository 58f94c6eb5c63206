package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obraportal/portal-client/internal/core/domain"
)

func newLoginCmd(h *appHolder) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and open the dashboard for your account type",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := h.get(cmd)
			if err != nil {
				return err
			}
			in := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				if username, err = prompt(cmd, in, "username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(cmd, in, "password: "); err != nil {
					return err
				}
			}

			_, err = a.session.Authenticate(cmd.Context(), username, password)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, domain.ErrInvalidCredentials):
				return errors.New("invalid username or password")
			case errors.Is(err, domain.ErrServerUnavailable):
				return errors.New("the portal is not reachable right now, try again later")
			case errors.Is(err, domain.ErrUnrecognizedAccount):
				return errors.New("unrecognized account type")
			default:
				return err
			}
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	return cmd
}

func prompt(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(label, ": "), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(h *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := h.get(cmd)
			if err != nil {
				return err
			}
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCmd(h *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity of the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := h.get(cmd)
			if err != nil {
				return err
			}
			dest, err := a.session.Resume(cmd.Context())
			if err != nil {
				return err
			}
			if dest == domain.DestinationLanding {
				return nil
			}
			claims, err := a.session.Claims(cmd.Context())
			if err != nil {
				return err
			}
			printClaims(cmd.OutOrStdout(), claims)
			return nil
		},
	}
}
