package usecase

import "errors"

// ErrOrdersClosed is returned when the receive_orders kill switch is off.
var ErrOrdersClosed = errors.New("orders are currently closed")

// ValidationError reports the first rule an order request violates. It is
// caught at the HTTP boundary and never reaches persistence.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}
