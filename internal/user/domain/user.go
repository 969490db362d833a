package domain

import (
	"github.com/google/uuid"

	"github.com/AlibekovAA/crudik/internal/common/events"
)

type User struct {
	ID uuid.UUID
}

const UserCreatedEvent events.Type = "user.created"

// UserCreated is published after a new user row is flushed and before the
// transaction commits.
type UserCreated struct {
	UserID uuid.UUID
}

func (UserCreated) EventType() events.Type {
	return UserCreatedEvent
}
