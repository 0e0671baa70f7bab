// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"userhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when a write is rejected by the unique index
// on email. It covers the race where two writers pass the advisory uniqueness
// read before either write lands.
var ErrDuplicateEmail = errors.New("email already registered")

// UserPatch describes a partial update. A nil field means "leave untouched";
// the zero string is a legal value only where validation allows it, so
// "not supplied" and "cleared" can never be confused.
type UserPatch struct {
	Name           *string
	Email          *string
	PasswordDigest *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordDigest == nil
}

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, not the concrete
// implementation. Every call is a single atomic store operation; no locks are
// held across calls.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their exact email value.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user. The store assigns the ID and timestamps,
	// which are written back onto the entity.
	Create(ctx context.Context, user *entity.User) error

	// UpdateFields writes only the supplied patch fields for the given user.
	// Absent fields are left untouched, not cleared.
	UpdateFields(ctx context.Context, id uuid.UUID, patch UserPatch) error

	// Delete removes the user permanently. There is no soft delete.
	Delete(ctx context.Context, id uuid.UUID) error
}
