package domain

import "errors"

// Domain errors
var (
	// Workshop errors
	ErrWorkshopNotFound   = errors.New("workshop not found")
	ErrRegistrationClosed = errors.New("registration is closed")
	ErrInsufficientSeats  = errors.New("not enough seats available")

	// Registration errors
	ErrAlreadyRegistered    = errors.New("already registered for this workshop")
	ErrRegistrationNotFound = errors.New("registration not found")

	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// Payment errors
	ErrInvalidSignature = errors.New("invalid payment signature")

	// Validation errors
	ErrInvalidUserID     = errors.New("invalid user id")
	ErrInvalidWorkshopID = errors.New("invalid workshop id")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrWorkshopNotFound) ||
		errors.Is(err, ErrRegistrationNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidWorkshopID) ||
		errors.Is(err, ErrInvalidQuantity)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrInsufficientSeats) ||
		errors.Is(err, ErrRegistrationClosed) ||
		errors.Is(err, ErrUserAlreadyExists)
}
