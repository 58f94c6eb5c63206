package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/core/ports"
)

const loginPath = "/auth/login"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Session owns the credential slot and everything derived from it.
type Session struct {
	client  ports.ResourceClient
	store   ports.CredentialStore
	decoder ports.ClaimsDecoder
	router  *RoleRouter
	nav     ports.Navigator
	log     zerolog.Logger
}

func NewSession(
	client ports.ResourceClient,
	store ports.CredentialStore,
	decoder ports.ClaimsDecoder,
	router *RoleRouter,
	nav ports.Navigator,
	log zerolog.Logger,
) *Session {
	return &Session{
		client:  client,
		store:   store,
		decoder: decoder,
		router:  router,
		nav:     nav,
		log:     log,
	}
}

// Login exchanges credentials for a token and persists it.
//
//	401/403                      → domain.ErrInvalidCredentials
//	other failure / missing token → domain.ErrServerUnavailable
func (s *Session) Login(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", fmt.Errorf("login: %w: username and password are required", domain.ErrValidation)
	}

	// login never carries a previous session's credential
	raw, err := s.client.Call(ports.Anonymous(ctx), http.MethodPost, loginPath, loginRequest{Username: username, Password: password}, ports.EncodingJSON)
	if err != nil {
		if domain.IsFetchKind(err, domain.AuthRejected) {
			s.log.Info().Str("username", username).Msg("login rejected")
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: %w", domain.ErrServerUnavailable, err)
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Token == "" {
		return "", fmt.Errorf("%w: login response carried no token", domain.ErrServerUnavailable)
	}

	if err := s.store.Save(ctx, resp.Token); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("username", username).Msg("signed in")
	return resp.Token, nil
}

// Claims decodes the stored credential. The error always wraps
// domain.ErrDecodeFailure; a credential that fails to decode is cleared.
func (s *Session) Claims(ctx context.Context) (domain.Claims, error) {
	tok, err := s.store.Load(ctx)
	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %w", domain.ErrDecodeFailure, err)
	}

	claims, err := s.decoder.Decode(tok)
	if err != nil {
		if !errors.Is(err, domain.ErrDecodeFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrDecodeFailure, err)
		}
		s.log.Warn().Err(err).Msg("stored credential is malformed, clearing it")
		s.clear(ctx)
		return domain.Claims{}, err
	}
	return claims, nil
}

// Logout drops the credential. Calling it with nothing stored is fine.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Msg("signed out")
	return nil
}

// Authenticate signs in, routes on the fresh claims and navigates. A failed
// login leaves the user on the landing view without navigating.
func (s *Session) Authenticate(ctx context.Context, username, password string) (domain.Destination, error) {
	if _, err := s.Login(ctx, username, password); err != nil {
		return domain.DestinationLanding, err
	}
	dest, err := s.resolve(ctx)
	s.nav.Navigate(dest)
	return dest, err
}

// Resume routes from a credential stored by an earlier run. No credential is
// not an error: the visitor simply lands anonymously.
func (s *Session) Resume(ctx context.Context) (domain.Destination, error) {
	if _, err := s.store.Load(ctx); errors.Is(err, domain.ErrNoCredential) {
		s.nav.Navigate(domain.DestinationLanding)
		return domain.DestinationLanding, nil
	}
	dest, err := s.resolve(ctx)
	s.nav.Navigate(dest)
	return dest, err
}

func (s *Session) resolve(ctx context.Context) (domain.Destination, error) {
	claims, err := s.Claims(ctx)
	dest, err := s.router.Route(claims, err)
	if err != nil {
		s.log.Warn().Err(err).Msg("unrecognized account, signing out")
		s.clear(ctx)
	}
	return dest, err
}

func (s *Session) clear(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to clear credential")
	}
}
