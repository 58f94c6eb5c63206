package views

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/obraportal/portal-client/internal/ui/dialog"
)

var (
	errNoFile        = errors.New("choose a file first")
	errNoBuilding    = errors.New("no building selected")
	errWorkerUnknown = errors.New("worker profile not loaded")
)

// Attachment is a file picked by the user.
type Attachment struct {
	Name string
	Data []byte
}

// DeleteForm names the record a delete dialog removes.
type DeleteForm struct {
	ID int64 `validate:"gt=0"`
}

func deleteBy(fn func(context.Context, int64) error) dialog.SubmitFunc[DeleteForm] {
	return func(ctx context.Context, f DeleteForm) error {
		return fn(ctx, f.ID)
	}
}

// optionalID parses an already-validated numeric field; blank means absent.
func optionalID(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
