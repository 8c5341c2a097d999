package levelups

//go:generate mockgen -destination=mock/mock.go -package=mocklevelups -source=interface.go

import (
	"context"

	"github.com/ironrations/charsheet/internal/domain/levelup"
)

// Repository persists in-progress level-up sessions. Sessions are drafts
// with a bounded lifetime; an abandoned wizard simply expires.
type Repository interface {
	// Put stores or replaces a session
	Put(ctx context.Context, session *levelup.Session) error

	// Get retrieves a session by ID
	Get(ctx context.Context, id string) (*levelup.Session, error)

	// GetByCharacter retrieves the active session for a character, if any
	GetByCharacter(ctx context.Context, characterID string) (*levelup.Session, error)

	// Delete removes a session
	Delete(ctx context.Context, id string) error
}
