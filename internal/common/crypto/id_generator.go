package crypto

import "github.com/google/uuid"

type IDGenerator interface {
	NewID() uuid.UUID
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a random (version 4) UUID.
func (g *UUIDGenerator) NewID() uuid.UUID {
	return uuid.New()
}
