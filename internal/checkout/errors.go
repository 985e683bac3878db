package checkout

import (
	"errors"
	"fmt"
)

// ValidationError is user-correctable and scoped to a single field.
// The funnel surfaces only the first failing rule, so a ValidationError
// always names exactly one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

var (
	// ErrGatewayNotReady rejects submission while the gateway client has
	// not finished loading (or its probe failed). No backend call happens.
	ErrGatewayNotReady = errors.New("payment system is loading, please try again")

	// ErrProcessing rejects a second submission while one is in flight
	// for the same checkout.
	ErrProcessing = errors.New("a payment is already in progress")

	// ErrNoPackages blocks the recipient step when a service has nothing
	// to sell.
	ErrNoPackages = errors.New("no packages available for this service")

	// ErrUnknownReference means no attempt was ever initialized under
	// the reference.
	ErrUnknownReference = errors.New("unknown payment reference")
)

// BackendError wraps an order-service or gateway failure during
// initiation. Retryable: the funnel returns to idle and the user may
// resubmit, producing a fresh order and reference.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *BackendError) Unwrap() error { return e.Err }

// VerifyError wraps a verification transport failure. Unlike
// BackendError it is NOT retried automatically: the charge may have
// landed on the gateway side, and a blind retry risks double-charging.
// The attempt is parked as unresolved for support reconciliation.
type VerifyError struct {
	Reference string
	Err       error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify %s: %v", e.Reference, e.Err)
}
func (e *VerifyError) Unwrap() error { return e.Err }
