package ports

import (
	"context"

	"github.com/obraportal/portal-client/internal/core/domain"
)

// CredentialStore persists the single bearer credential slot.
// Load returns domain.ErrNoCredential when the slot is empty.
type CredentialStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// ClaimsDecoder turns a credential into identity claims without a network call.
type ClaimsDecoder interface {
	Decode(token string) (domain.Claims, error)
}

// Navigator moves the front end to a landing view.
type Navigator interface {
	Navigate(dest domain.Destination)
}
