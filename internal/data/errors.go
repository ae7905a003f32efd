package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrAccountExists is returned by Create when the uid is already
	// provisioned. Concurrent auto-provisioning races resolve here: the
	// caller treats it as success-equivalent.
	ErrAccountExists = errors.New("account already exists")

	// ErrAccountNotFound is returned when no directory row matches the uid.
	ErrAccountNotFound = errors.New("account not found")
)
