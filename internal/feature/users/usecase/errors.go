// Package usecase implements the resolver logic for the users feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned by repositories when no user matches the given ID.
	// Malformed IDs are reported the same way because they cannot match a record.
	ErrUserNotFound = errors.New("user not found")
)
