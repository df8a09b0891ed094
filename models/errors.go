package models

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by the cart and checkout engines. Handlers map
// these onto HTTP statuses; anything else is wrapped as an OperationError.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoActiveCart      = errors.New("no active cart")
	ErrInvalidReference  = errors.New("invalid payment reference")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// GatewayError carries the payment provider's raw response so the failure
// reason reaches the logs unaltered.
type GatewayError struct {
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error (%d): %s", e.Status, e.Message)
}

// OperationError wraps persistence failures caught at a transaction
// boundary after rollback.
type OperationError struct {
	Err error
}

func (e *OperationError) Error() string { return "operation failed: " + e.Err.Error() }
func (e *OperationError) Unwrap() error { return e.Err }

// OperationFailed wraps err unless it already belongs to the domain
// taxonomy above.
func OperationFailed(err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var ge *GatewayError
	var oe *OperationError
	switch {
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrNoActiveCart),
		errors.Is(err, ErrInvalidReference),
		errors.Is(err, ErrInsufficientStock),
		errors.As(err, &ve),
		errors.As(err, &ge),
		errors.As(err, &oe):
		return err
	}
	return &OperationError{Err: err}
}
