package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoActiveInventory occurs when a tenant-scoped request carries no inventory.
	ErrNoActiveInventory = errors.New("no active inventory selected")
)
