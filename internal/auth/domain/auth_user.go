package domain

import "github.com/google/uuid"

// AuthUser binds an external identity to exactly one internal user.
type AuthUser struct {
	AuthUserID string
	UserID     uuid.UUID
}
