package account

import "errors"

var (
	// ErrAccountExists is returned when creating an account for an ID that already has one.
	ErrAccountExists = errors.New("account already exists")
	// ErrNoAccount is returned when the bound user ID has no account.
	ErrNoAccount = errors.New("no account for user")
	// ErrAuthFailed is returned by callers that require a matching password.
	ErrAuthFailed = errors.New("password mismatch")
	// ErrInvalidAmount is returned for amounts <= 0 or with fractions of a cent.
	ErrInvalidAmount = errors.New("amount must be > 0 with at most two decimal places")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient balance")
)
