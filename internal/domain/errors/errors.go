package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrSystemDisabled      = errors.New("points system disabled")
	ErrNotRedeemable       = errors.New("points system not available for redemption")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrDiscountMismatch    = errors.New("discount amount does not match conversion rule")
	ErrSystemInUse         = errors.New("points system has balances or transactions")
)

// ValidationError reports a malformed points-system configuration with enough
// detail for the caller to fix it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a configuration validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
