package characters

import (
	"context"
	"sync"

	"github.com/ironrations/charsheet/internal/domain/character"
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/uuid"
)

// inMemoryRepo implements Repository with a map, for tests and local runs
type inMemoryRepo struct {
	mu            sync.RWMutex
	characters    map[string]*character.Character
	uuidGenerator uuid.Generator
}

// NewInMemoryRepository creates an in-memory character repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepo{
		characters:    make(map[string]*character.Character),
		uuidGenerator: uuid.NewGoogleUUIDGenerator(),
	}
}

func (r *inMemoryRepo) Create(_ context.Context, char *character.Character) error {
	if char == nil {
		return internalerrors.InvalidArgument("character cannot be nil")
	}
	if char.OwnerID == "" {
		return internalerrors.InvalidArgument("character owner ID is required")
	}
	if char.ID == "" {
		char.ID = r.uuidGenerator.New()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[char.ID]; exists {
		return internalerrors.AlreadyExists("character with ID '" + char.ID + "' already exists")
	}

	r.characters[char.ID] = char.Clone()
	return nil
}

func (r *inMemoryRepo) Get(_ context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, internalerrors.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	char, ok := r.characters[id]
	if !ok {
		return nil, internalerrors.NotFoundf("character with ID '%s' not found", id)
	}

	return char.Clone(), nil
}

func (r *inMemoryRepo) GetByOwner(_ context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, internalerrors.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*character.Character
	for _, char := range r.characters {
		if char.OwnerID == ownerID {
			out = append(out, char.Clone())
		}
	}
	return out, nil
}

func (r *inMemoryRepo) GetByOwnerAndRealm(_ context.Context, ownerID, realmID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, internalerrors.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*character.Character
	for _, char := range r.characters {
		if char.OwnerID == ownerID && char.RealmID == realmID {
			out = append(out, char.Clone())
		}
	}
	return out, nil
}

func (r *inMemoryRepo) Update(_ context.Context, char *character.Character) error {
	if char == nil {
		return internalerrors.InvalidArgument("character cannot be nil")
	}
	if char.ID == "" {
		return internalerrors.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[char.ID]; !exists {
		return internalerrors.NotFoundf("character with ID '%s' not found", char.ID)
	}

	r.characters[char.ID] = char.Clone()
	return nil
}

func (r *inMemoryRepo) Delete(_ context.Context, id string) error {
	if id == "" {
		return internalerrors.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[id]; !exists {
		return internalerrors.NotFoundf("character with ID '%s' not found", id)
	}

	delete(r.characters, id)
	return nil
}
