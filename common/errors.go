package common

import (
	"errors"
	"fmt"
)

var (
	ErrWalletUnavailable = errors.New("no wallet available")
	ErrUserRejected      = errors.New("user rejected the request")
	ErrNotFound          = errors.New("not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrValidation        = errors.New("invalid input")
	ErrNetworkOrContract = errors.New("network or contract failure")
	ErrBusy              = errors.New("action already in progress")

	ErrProductNotFound = fmt.Errorf("product not found with this serial number: %w", ErrNotFound)
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Validation returns an ErrValidation whose message is shown to the user as is.
func Validation(format string, args ...any) error {
	return &kindError{ErrValidation, fmt.Sprintf(format, args...)}
}

// Denied returns an ErrPermissionDenied whose message is shown to the user as is.
func Denied(format string, args ...any) error {
	return &kindError{ErrPermissionDenied, fmt.Sprintf(format, args...)}
}

// NotFound returns an ErrNotFound whose message is shown to the user as is.
func NotFound(format string, args ...any) error {
	return &kindError{ErrNotFound, fmt.Sprintf(format, args...)}
}

// Failure marks err as a network or contract failure, keeping the
// original error in the chain.
func Failure(err error) error {
	if err == nil || errors.Is(err, ErrNetworkOrContract) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrNetworkOrContract, err)
}

// IsUserFacing reports whether err carries a message meant to be shown
// verbatim rather than prefixed with a failure description.
func IsUserFacing(err error) bool {
	var ke *kindError
	return errors.As(err, &ke)
}
