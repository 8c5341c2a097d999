package levelups

import (
	"context"
	"sync"
	"time"

	"github.com/ironrations/charsheet/internal/domain/levelup"
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/uuid"
)

// inMemoryRepo implements Repository with a map, for tests and local runs
type inMemoryRepo struct {
	mu            sync.RWMutex
	sessions      map[string]*levelup.Session
	byCharacter   map[string]string
	uuidGenerator uuid.Generator
}

// NewInMemoryRepository creates an in-memory session repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepo{
		sessions:      make(map[string]*levelup.Session),
		byCharacter:   make(map[string]string),
		uuidGenerator: uuid.NewGoogleUUIDGenerator(),
	}
}

func (r *inMemoryRepo) Put(_ context.Context, session *levelup.Session) error {
	if session == nil {
		return internalerrors.InvalidArgument("session cannot be nil")
	}
	if session.CharacterID == "" {
		return internalerrors.InvalidArgument("session character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if session.ID == "" {
		session.ID = r.uuidGenerator.New()
		session.CreatedAt = time.Now().UTC()
	}
	session.UpdatedAt = time.Now().UTC()

	copied := *session
	r.sessions[session.ID] = &copied
	r.byCharacter[session.CharacterID] = session.ID
	return nil
}

func (r *inMemoryRepo) Get(_ context.Context, id string) (*levelup.Session, error) {
	if id == "" {
		return nil, internalerrors.InvalidArgument("session ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, internalerrors.NotFoundf("level-up session '%s' not found", id)
	}

	copied := *session
	return &copied, nil
}

func (r *inMemoryRepo) GetByCharacter(_ context.Context, characterID string) (*levelup.Session, error) {
	if characterID == "" {
		return nil, internalerrors.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	id, ok := r.byCharacter[characterID]
	r.mu.RUnlock()
	if !ok {
		return nil, internalerrors.NotFoundf("no level-up session for character '%s'", characterID)
	}

	return r.Get(context.Background(), id)
}

func (r *inMemoryRepo) Delete(_ context.Context, id string) error {
	if id == "" {
		return internalerrors.InvalidArgument("session ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return internalerrors.NotFoundf("level-up session '%s' not found", id)
	}

	delete(r.byCharacter, session.CharacterID)
	delete(r.sessions, id)
	return nil
}
