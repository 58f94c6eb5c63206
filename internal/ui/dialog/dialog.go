// Package dialog implements the modal create/update/delete flow shared by
// every mutation in the portal: reset on open, validate before the network,
// exactly one call per submit, guaranteed submitting cleanup.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/obraportal/portal-client/internal/core/domain"
)

// ErrBusy is returned when Submit is called while a submission is running.
var ErrBusy = errors.New("submission already in progress")

const (
	defaultSuccess  = "saved"
	confirmRequired = "please confirm this action first"
)

// Outcome is the transient result shown inside the dialog. Empty strings
// stand for "no message".
type Outcome struct {
	Submitting     bool
	ErrorMessage   string
	SuccessMessage string
}

// SubmitFunc performs the single network call of a dialog.
type SubmitFunc[F any] func(ctx context.Context, form F) error

type settings struct {
	refresh func()
	success string
	confirm bool
}

// Option customises a Dialog.
type Option func(*settings)

// WithRefresh registers the parent callback run after a successful submit.
func WithRefresh(fn func()) Option {
	return func(s *settings) { s.refresh = fn }
}

func WithSuccessMessage(msg string) Option {
	return func(s *settings) { s.success = msg }
}

// RequireConfirmation marks the dialog destructive: Confirm must be called
// before each Submit.
func RequireConfirmation() Option {
	return func(s *settings) { s.confirm = true }
}

// Dialog holds the form F and its Outcome.
type Dialog[F any] struct {
	mu        sync.Mutex
	form      F
	outcome   Outcome
	confirmed bool
	submit    SubmitFunc[F]
	cfg       settings
}

func New[F any](submit SubmitFunc[F], opts ...Option) *Dialog[F] {
	cfg := settings{success: defaultSuccess}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Dialog[F]{submit: submit, cfg: cfg}
}

// Open targets the dialog at snapshot (an entity copy for edits, blank
// defaults for creates) and clears any previous outcome.
func (d *Dialog[F]) Open(snapshot F) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.form = snapshot
	d.outcome = Outcome{}
	d.confirmed = false
}

// Edit mutates the form in place.
func (d *Dialog[F]) Edit(fn func(form *F)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.form)
}

func (d *Dialog[F]) Form() F {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.form
}

func (d *Dialog[F]) Outcome() Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outcome
}

// Confirm records the second affirmative action of a destructive dialog.
func (d *Dialog[F]) Confirm() {
	d.mu.Lock()
	d.confirmed = true
	d.mu.Unlock()
}

// Submit validates the form and, when valid, issues the dialog's call.
func (d *Dialog[F]) Submit(ctx context.Context) error {
	d.mu.Lock()
	if d.outcome.Submitting {
		d.mu.Unlock()
		return ErrBusy
	}
	if d.cfg.confirm && !d.confirmed {
		d.outcome.ErrorMessage = confirmRequired
		d.outcome.SuccessMessage = ""
		d.mu.Unlock()
		return domain.ErrNotConfirmed
	}
	if msg := check(d.form); msg != "" {
		d.outcome.ErrorMessage = msg
		d.outcome.SuccessMessage = ""
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	}
	d.outcome = Outcome{Submitting: true}
	d.confirmed = false
	form := d.form
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.outcome.Submitting = false
		d.mu.Unlock()
	}()

	err := d.submit(ctx, form)

	d.mu.Lock()
	if err != nil {
		d.outcome.ErrorMessage = domain.UserMessage(err)
	} else {
		d.outcome.SuccessMessage = d.cfg.success
	}
	d.mu.Unlock()

	if err == nil && d.cfg.refresh != nil {
		d.cfg.refresh()
	}
	return err
}

// NewConfirmDialog builds a destructive dialog; see RequireConfirmation.
func NewConfirmDialog[F any](submit SubmitFunc[F], opts ...Option) *Dialog[F] {
	return New(submit, append(opts, RequireConfirmation())...)
}
