// Package storage defines the profile persistence contract. The core treats
// the store as an external collaborator: profiles are read at the start of a
// session and written back by the surrounding application after each
// interaction.
package storage

import (
	"context"
	"errors"

	"github.com/verdant/sommelier/pkg/types"
)

// ErrNotFound indicates that the requested profile was not found.
var ErrNotFound = errors.New("profile not found")

// ErrInvalidInput indicates the caller supplied an unusable profile.
var ErrInvalidInput = errors.New("invalid input")

// ProfileStore provides CRUD operations for user preference profiles.
type ProfileStore interface {
	// Put creates or updates a profile (upsert semantics).
	Put(ctx context.Context, profile *types.Profile) error

	// Get retrieves a profile by user ID.
	// Returns ErrNotFound if no profile exists for the user.
	Get(ctx context.Context, userID string) (*types.Profile, error)

	// Delete removes a profile by user ID.
	// Returns ErrNotFound if no profile exists for the user.
	Delete(ctx context.Context, userID string) error

	// Close releases the underlying database resources.
	Close() error
}
