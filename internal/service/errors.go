package service

import "errors"

var (
	// ErrInvalidCredentials covers wrong passwords and provisioning races
	// alike. Callers must not be able to tell a wrong password from an
	// unknown account.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidInput is rejected before the store is touched.
	ErrInvalidInput = errors.New("invalid input")

	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable wraps persistence failures. They are propagated,
	// not retried.
	ErrStoreUnavailable = errors.New("store unavailable")
)
