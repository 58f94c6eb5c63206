package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrServerUnavailable   = errors.New("server unavailable")
	ErrDecodeFailure       = errors.New("credential could not be decoded")
	ErrNoCredential        = errors.New("no credential stored")
	ErrUnrecognizedAccount = errors.New("unrecognized account type")
	ErrValidation          = errors.New("validation failed")
	ErrNotConfirmed        = errors.New("confirmation required")
)

// FetchErrorKind classifies a failed Resource Client call.
type FetchErrorKind string

const (
	TransportFailure FetchErrorKind = "transport_failure"
	AuthRejected     FetchErrorKind = "auth_rejected"
	ServerRejected   FetchErrorKind = "server_rejected"
	DecodeFailure    FetchErrorKind = "decode_failure"
)

// FetchError is the single error shape produced by the Resource Client.
// Message is safe to show to the user verbatim.
type FetchError struct {
	Kind    FetchErrorKind
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchKind reports whether err is a FetchError of the given kind.
func IsFetchKind(err error, kind FetchErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}

// UserMessage extracts the text a view or dialog should display for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		if fe.Kind == TransportFailure {
			return "could not reach the server, check your connection"
		}
		return fe.Message
	}
	return err.Error()
}
