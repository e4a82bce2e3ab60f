package services

import "errors"

// Business-rule errors. Handlers match these with errors.Is to choose the
// response status.
var (
	// ErrEmailTaken means another user already owns the requested email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidRole means a role outside {customer, admin} was submitted.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidStatus means an order status outside the known set was
	// submitted.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so login never reveals which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
