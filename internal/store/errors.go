package store

import "errors"

// Sentinel errors returned by store operations. The service layer translates
// these into the user-facing error taxonomy.
var (
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when an entity ID or unique index value
	// is already taken.
	ErrAlreadyExists = errors.New("entity already exists")
)
