package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues time-ordered UUIDv7 strings so ids sort by creation.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// Sequence returns ids from a fixed list; used by tests that need stable ids.
type Sequence struct {
	ids  []string
	next int
}

func NewSequence(ids ...string) *Sequence {
	return &Sequence{ids: ids}
}

func (s *Sequence) NewID() (string, error) {
	if s.next >= len(s.ids) {
		return "", fmt.Errorf("id sequence exhausted after %d ids", len(s.ids))
	}
	out := s.ids[s.next]
	s.next++
	return out, nil
}
