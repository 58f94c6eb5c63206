package devserver

import (
	"github.com/obraportal/portal-client/internal/pkg/validation"
)

// echoValidator lets handlers call c.Validate(req).
type echoValidator struct{}

func (echoValidator) Validate(i any) error {
	return validation.Struct(i)
}
