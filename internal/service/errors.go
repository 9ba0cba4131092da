package service

import "errors"

var (
	// ErrOrderNotFound is returned when an order ID does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrStatusNotFound is returned when a status code is not on the board.
	ErrStatusNotFound = errors.New("status definition not found")

	// ErrOrderTerminal is returned when a write targets an order that has
	// already reached a terminal status. Re-opening is not modeled.
	ErrOrderTerminal = errors.New("order is already in a terminal status")

	// ErrNotDoneStatus is returned when a completion commit names a target
	// status that is not a done end state.
	ErrNotDoneStatus = errors.New("target status is not a done end state")

	// ErrZeroPayment is returned when a payment record carries no amount.
	ErrZeroPayment = errors.New("payment amount must be non-zero")
)
