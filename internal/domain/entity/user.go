// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the sole entity managed by the service. The store assigns the ID at
// creation; it is never client-supplied and never changes afterwards.
type User struct {
	ID             uuid.UUID // Unique identifier generated by the store on insert.
	Name           string    // Display name, 1 to 100 characters.
	Email          string    // Business key. Exactly one live user per email value.
	PasswordDigest string    // Salted bcrypt digest of the user's secret. Never exposed to callers.
	CreatedAt      time.Time // Timestamp of when this record was created.
	UpdatedAt      time.Time // Timestamp of the last modification.
}
