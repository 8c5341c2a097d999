package character

//go:generate mockgen -destination=mock/mock.go -package=mockcharacter -source=interface.go

import (
	"context"

	"github.com/ironrations/charsheet/internal/domain/character"
	"github.com/ironrations/charsheet/internal/domain/equipment"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
	"github.com/ironrations/charsheet/internal/engine"
)

// CreateInput holds the fields needed to create a character at level 1
type CreateInput struct {
	OwnerID       string
	RealmID       string
	Name          string
	RaceKey       string
	BackgroundKey string
	ClassKey      string
	SubclassKey   string
	Attributes    map[shared.Attribute]int
	Skills        []string
}

// Service owns all character mutations. Every mutation is serialized per
// character and persisted as one transaction; reads hand back detached
// copies that are safe to use concurrently.
type Service interface {
	Create(ctx context.Context, input *CreateInput) (*character.Character, error)
	Get(ctx context.Context, id string) (*character.Character, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error)
	Delete(ctx context.Context, id string) error

	// Sheet computes the full derived view
	Sheet(ctx context.Context, id string) (*engine.Sheet, error)

	// Proficiencies resolves the grouped proficiency list with attribution
	Proficiencies(ctx context.Context, id string) (map[rulebook.ProficiencyType][]engine.ProficiencyEntry, error)

	ApplyDamage(ctx context.Context, id string, amount int) (*character.Character, error)
	Heal(ctx context.Context, id string, amount int) (*character.Character, error)
	GrantTemporaryHP(ctx context.Context, id string, amount int) (*character.Character, error)
	RecordDeathSave(ctx context.Context, id string, success bool) (*character.Character, error)

	ShortRest(ctx context.Context, id string) (*character.Character, error)
	LongRest(ctx context.Context, id string) (*character.Character, error)
	UseHitDie(ctx context.Context, id, classKey string) (int, error)
	UseSpellSlot(ctx context.Context, id string, level int, pact bool) (*character.Character, error)

	AddToInventory(ctx context.Context, id string, item equipment.Equipment) error
	Equip(ctx context.Context, id, itemKey string) (*character.Character, error)
	Unequip(ctx context.Context, id string, slot shared.Slot) (*character.Character, error)
	Attune(ctx context.Context, id, itemKey string) (*character.Character, error)
	EndAttunement(ctx context.Context, id, itemKey string) (*character.Character, error)

	// AttachEffect and RemoveEffect manage temporary modifier sources; the
	// sheet reflects them immediately
	AttachEffect(ctx context.Context, id string, effect *shared.ActiveEffect) (*character.Character, error)
	RemoveEffect(ctx context.Context, id, effectID string) (*character.Character, error)

	ToggleCondition(ctx context.Context, id, condition string) (bool, error)
	SetInspiration(ctx context.Context, id string, on bool) error
	SetACOverride(ctx context.Context, id string, value *int) error
	AddExperience(ctx context.Context, id string, amount int) (*character.Character, error)

	GrantAbilityPoints(ctx context.Context, id string, points int) error
	SpendAbilityPoints(ctx context.Context, id string, distribution map[shared.Attribute]int) (*character.Character, error)

	AddManualProficiency(ctx context.Context, id string, prof *rulebook.Proficiency) error
	RemoveManualProficiency(ctx context.Context, id string, profType rulebook.ProficiencyType, key string) error
	SetSkillProficiency(ctx context.Context, id, skill string, level shared.ProficiencyLevel) error
	SetSaveProficiency(ctx context.Context, id string, attr shared.Attribute, on bool) error
}
