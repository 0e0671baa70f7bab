// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import "context"

// --- Input DTOs ---

// CreateUserInput defines the data required to create a new user.
// The validate tags carry the field-level rules: name 1-100 characters,
// syntactically valid email, password at least 6 characters.
type CreateUserInput struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateUserInput defines a partial update. A nil field means "not supplied"
// and is left untouched; supplied fields are validated with the same rules as
// creation.
type UpdateUserInput struct {
	Name     *string `json:"name,omitempty" validate:"omitnil,min=1,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitnil,email"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=6"`
}

// IsEmpty reports whether the update supplies no fields at all.
func (in UpdateUserInput) IsEmpty() bool {
	return in.Name == nil && in.Email == nil && in.Password == nil
}

// --- Output DTOs ---

// UserOutput is the caller-facing projection of a user. The password digest
// is deliberately absent; no operation ever returns it.
type UserOutput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserUsecase defines the interface for the user resource lifecycle.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// Create validates the input, enforces email uniqueness, hashes the
	// password and persists a new user.
	Create(ctx context.Context, input *CreateUserInput) (*UserOutput, error)

	// Get returns the user with the given identifier.
	Get(ctx context.Context, id string) (*UserOutput, error)

	// Update applies a partial update to the user with the given identifier.
	Update(ctx context.Context, id string, input *UpdateUserInput) (*UserOutput, error)

	// Delete permanently removes the user with the given identifier.
	Delete(ctx context.Context, id string) error
}
