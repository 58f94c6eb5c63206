package dialog

import (
	"github.com/obraportal/portal-client/internal/pkg/validation"
)

// SelfValidator lets a form add checks the struct tags cannot express.
type SelfValidator interface {
	Validate() error
}

// check runs tag validation and then the form's own Validate, returning a
// single human-readable message or "".
func check(form any) string {
	if err := validation.Struct(form); err != nil {
		return err.Error()
	}
	if sv, ok := form.(SelfValidator); ok {
		if err := sv.Validate(); err != nil {
			return err.Error()
		}
	}
	return ""
}
