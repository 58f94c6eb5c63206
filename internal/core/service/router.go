package service

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
)

// RoleRouter maps decoded claims to the single landing view a user sees
// after signing in.
type RoleRouter struct {
	log zerolog.Logger
}

func NewRoleRouter(log zerolog.Logger) *RoleRouter {
	return &RoleRouter{log: log}
}

// Route always yields exactly one destination. A non-nil error means the
// account could not be recognised and the caller must drop the credential.
func (r *RoleRouter) Route(claims domain.Claims, decodeErr error) (domain.Destination, error) {
	if decodeErr != nil {
		return domain.DestinationLanding, fmt.Errorf("%w: %w", domain.ErrUnrecognizedAccount, decodeErr)
	}

	switch claims.Kind {
	case domain.KindCustomer:
		return domain.DestinationCustomerHome, nil
	case domain.KindWorker:
		switch claims.RoleID {
		case domain.RoleAdmin:
			return domain.DestinationAdmin, nil
		case domain.RoleFieldWorker:
			return domain.DestinationFieldWorker, nil
		default:
			r.log.Warn().
				Int("role_id", claims.RoleID).
				Int64("subject_id", claims.SubjectID).
				Msg("unknown worker role, falling back to field worker view")
			return domain.DestinationFieldWorker, nil
		}
	}

	return domain.DestinationLanding, fmt.Errorf("%w: %q", domain.ErrUnrecognizedAccount, claims.Kind)
}
