package character

import (
	"context"

	"github.com/ironrations/charsheet/internal/dice"
	"github.com/ironrations/charsheet/internal/domain/character"
	"github.com/ironrations/charsheet/internal/domain/equipment"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
	"github.com/ironrations/charsheet/internal/engine"
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/repositories/characters"
	"github.com/ironrations/charsheet/internal/uuid"
)

type service struct {
	repository    characters.Repository
	library       *rulebook.Library
	diceRoller    dice.Roller
	uuidGenerator uuid.Generator

	// locker serializes mutations per character ID; sharing it with other
	// services extends that serialization to their transactions too
	locker *characters.Locker
}

// ServiceConfig holds configuration for the character service
type ServiceConfig struct {
	Repository    characters.Repository
	Library       *rulebook.Library
	DiceRoller    dice.Roller
	UUIDGenerator uuid.Generator

	// Locker is optional; pass the same instance to every service that
	// mutates characters so their transactions serialize per character
	Locker *characters.Locker
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("ServiceConfig cannot be nil")
	}
	if cfg.Repository == nil {
		panic("character repository is required")
	}

	svc := &service{
		repository:    cfg.Repository,
		library:       cfg.Library,
		diceRoller:    cfg.DiceRoller,
		uuidGenerator: cfg.UUIDGenerator,
		locker:        cfg.Locker,
	}

	if svc.library == nil {
		svc.library = rulebook.NewLibrary()
	}
	if svc.diceRoller == nil {
		svc.diceRoller = dice.NewRandomRoller()
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.locker == nil {
		svc.locker = characters.NewLocker()
	}

	return svc
}

// mutate loads the character, applies fn, refreshes the stored max HP from
// the recomputed sheet, and persists. The whole read-modify-write is held
// under the character's lock so concurrent transactions never interleave.
func (s *service) mutate(ctx context.Context, id string, fn func(*character.Character) error) (*character.Character, error) {
	if id == "" {
		return nil, internalerrors.InvalidArgument("character ID is required")
	}

	mu := s.locker.For(id)
	mu.Lock()
	defer mu.Unlock()

	char, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(char); err != nil {
		return nil, err
	}

	s.refreshMaxHP(char)

	if err := s.repository.Update(ctx, char); err != nil {
		return nil, err
	}

	return char, nil
}

// refreshMaxHP recomputes the derived max HP so score changes and effect
// changes keep the stored HP coherent. The sheet already floors the max at
// current plus temporary, so nobody loses hit points to a recompute.
func (s *service) refreshMaxHP(char *character.Character) {
	sheet := engine.ComputeSheet(char, s.library)
	char.HP.Max = sheet.MaxHP
}

// Create builds a level 1 character. First-level hit points are always the
// full hit die plus the constitution modifier.
func (s *service) Create(ctx context.Context, input *CreateInput) (*character.Character, error) {
	if input == nil {
		return nil, internalerrors.InvalidArgument("input cannot be nil")
	}
	if input.OwnerID == "" {
		return nil, internalerrors.InvalidArgument("owner ID is required")
	}
	if input.Name == "" {
		return nil, internalerrors.InvalidArgument("name is required")
	}

	class, ok := s.library.Class(input.ClassKey)
	if !ok {
		return nil, internalerrors.InvalidArgumentf("unknown class %q", input.ClassKey)
	}
	if _, ok := s.library.Race(input.RaceKey); !ok {
		return nil, internalerrors.InvalidArgumentf("unknown race %q", input.RaceKey)
	}
	if input.SubclassKey != "" && class.SubclassByKey(input.SubclassKey) == nil {
		return nil, internalerrors.InvalidArgumentf("class %s has no subclass %q", class.Key, input.SubclassKey)
	}

	attrs := make(map[shared.Attribute]int, len(shared.Attributes))
	for _, attr := range shared.Attributes {
		score, ok := input.Attributes[attr]
		if !ok {
			return nil, internalerrors.Validationf("missing ability score for %s", attr.Name())
		}
		if score < 1 || score > shared.AbilityScoreCap {
			return nil, internalerrors.Validationf("%s score %d is out of range", attr.Name(), score)
		}
		attrs[attr] = score
	}

	char := &character.Character{
		ID:            s.uuidGenerator.New(),
		OwnerID:       input.OwnerID,
		RealmID:       input.RealmID,
		Name:          input.Name,
		RaceKey:       input.RaceKey,
		BackgroundKey: input.BackgroundKey,
		Attributes:    attrs,
		Classes: []*character.ClassEntry{
			{ClassKey: class.Key, Level: 1, SubclassKey: input.SubclassKey},
		},
		HitPointRolls: []int{class.HitDie},
		HitDice: map[string]*shared.HitDiceResource{
			class.Key: {DiceType: class.HitDie, Max: 1, Remaining: 1},
		},
		Status: shared.CharacterStatusActive,
	}

	if len(input.Skills) > 0 {
		if len(input.Skills) > class.SkillChoiceCount {
			return nil, internalerrors.Validationf("%s picks at most %d skills", class.Name, class.SkillChoiceCount)
		}
		char.SkillProficiencies = make(map[string]shared.ProficiencyLevel, len(input.Skills))
		for _, skill := range input.Skills {
			key := shared.NormalizeKey(skill)
			if !classOffersSkill(class, key) {
				return nil, internalerrors.Validationf("%s is not a %s skill choice", skill, class.Name)
			}
			char.SkillProficiencies[key] = shared.ProficiencyLevelProficient
		}
	}

	s.refreshMaxHP(char)
	char.HP.Current = char.HP.Max

	if err := s.repository.Create(ctx, char); err != nil {
		return nil, err
	}

	return char, nil
}

func classOffersSkill(class *rulebook.Class, key string) bool {
	for _, offered := range class.SkillChoices {
		if shared.NormalizeKey(offered) == key {
			return true
		}
	}
	return false
}

func (s *service) Get(ctx context.Context, id string) (*character.Character, error) {
	return s.repository.Get(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	return s.repository.GetByOwner(ctx, ownerID)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repository.Delete(ctx, id)
}

func (s *service) Sheet(ctx context.Context, id string) (*engine.Sheet, error) {
	char, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return engine.ComputeSheet(char, s.library), nil
}

func (s *service) Proficiencies(ctx context.Context, id string) (map[rulebook.ProficiencyType][]engine.ProficiencyEntry, error) {
	char, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return engine.ResolveProficiencies(char, s.library), nil
}

func (s *service) ApplyDamage(ctx context.Context, id string, amount int) (*character.Character, error) {
	if amount < 0 {
		return nil, internalerrors.InvalidArgument("damage cannot be negative")
	}
	return s.mutate(ctx, id, func(char *character.Character) error {
		char.ApplyDamage(amount)
		return nil
	})
}

func (s *service) Heal(ctx context.Context, id string, amount int) (*character.Character, error) {
	if amount < 0 {
		return nil, internalerrors.InvalidArgument("healing cannot be negative")
	}
	return s.mutate(ctx, id, func(char *character.Character) error {
		char.ApplyHeal(amount)
		return nil
	})
}

func (s *service) GrantTemporaryHP(ctx context.Context, id string, amount int) (*character.Character, error) {
	if amount < 0 {
		return nil, internalerrors.InvalidArgument("temporary HP cannot be negative")
	}
	return s.mutate(ctx, id, func(char *character.Character) error {
		char.GrantTemporaryHP(amount)
		return nil
	})
}

func (s *service) RecordDeathSave(ctx context.Context, id string, success bool) (*character.Character, error) {
	return s.mutate(ctx, id, func(char *character.Character) error {
		return char.RecordDeathSave(success)
	})
}

func (s *service) ShortRest(ctx context.Context, id string) (*character.Character, error) {
	return s.mutate(ctx, id, func(char *character.Character) error {
		char.ShortRest()
		return nil
	})
}

func (s *service) LongRest(ctx context.Context, id string) (*character.Character, error) {
	return s.mutate(ctx, id, func(char *character.Character) error {
		// the stored max may be stale; recompute before filling to full
		s.refreshMaxHP(char)
		char.LongRest()
		return nil
	})
}

func (s *service) UseHitDie(ctx context.Context, id, classKey string) (int, error) {
	healed := 0
	_, err := s.mutate(ctx, id, func(char *character.Character) error {
		sheet := engine.ComputeSheet(char, s.library)
		conMod := sheet.Abilities[shared.AttributeConstitution].Modifier

		var rollErr error
		healed, rollErr = char.UseHitDie(classKey, conMod, s.diceRoller)
		return rollErr
	})
	return healed, err
}

func (s *service) UseSpellSlot(ctx context.Context, id string, level int, pact bool) (*character.Character, error) {
	return s.mutate(ctx, id, func(char *character.Character) error {
		slots := engine.ComputeSheet(char, s.library).SpellSlots

		if pact {
			if slots.PactMagic == nil {
				return internalerrors.FailedPrecondition("character has no pact magic")
			}
			return char.UseSpellSlot(slots.PactMagic.SlotLevel, slots.PactMagic.Count, true)
		}

		max, ok := slots.Slots[level]
		if !ok {
			return internalerrors.FailedPreconditionf("character has no level %d slots", level)
		}
		return char.UseSpellSlot(level, max, false)
	})
}

func (s *service) AddToInventory(ctx context.Context, id string, item equipment.Equipment) error {
	if item == nil || item.GetKey() == "" {
		return internalerrors.InvalidArgument("item with a key is required")
	}
	_, err := s.mutate(ctx, id, func(char *character.Character) error {
		char.AddToInventory(item)
		return nil
	})
	return err
}

func (s *service) Equip(ctx context.Context, id, itemKey string) (*character.Character, error) {
	return s.mutate(ctx, id, func(char *character.Character) error {
		return char.Equip(itemKey)
	})
}

func (s *service) Unequip(ctx context.Context, id string, slot shared.Slot) (*character.Character, error) {
	return s.mutate(ctx, id, func(char *character.Character) error {
		char.Unequip(slot)
		return nil
	})
}

func (s *service) Attune(ctx context.Context, id, itemKey string) (*character.Character, error) {
	return s.mutate(ctx, id, func(char *character.Character) error {
		return char.Attune(itemKey)
	})
}

func (s *service) EndAttunement(ctx context.Context, id, itemKey string) (*character.Character, error) {
	return s.mutate(ctx, id, func(char *character.Character) error {
		char.EndAttunement(itemKey)
		return nil
	})
}

func (s *service) AttachEffect(ctx context.Context, id string, effect *shared.ActiveEffect) (*character.Character, error) {
	if effect == nil || effect.Name == "" {
		return nil, internalerrors.InvalidArgument("effect with a name is required")
	}
	return s.mutate(ctx, id, func(char *character.Character) error {
		if effect.ID == "" {
			effect.ID = s.uuidGenerator.New()
		}
		char.AttachEffect(effect)
		return nil
	})
}

func (s *service) RemoveEffect(ctx context.Context, id, effectID string) (*character.Character, error) {
	return s.mutate(ctx, id, func(char *character.Character) error {
		if !char.RemoveEffect(effectID) {
			return internalerrors.NotFoundf("no active effect %s", effectID)
		}
		return nil
	})
}

func (s *service) ToggleCondition(ctx context.Context, id, condition string) (bool, error) {
	active := false
	_, err := s.mutate(ctx, id, func(char *character.Character) error {
		active = char.ToggleCondition(condition)
		return nil
	})
	return active, err
}

func (s *service) SetInspiration(ctx context.Context, id string, on bool) error {
	_, err := s.mutate(ctx, id, func(char *character.Character) error {
		char.SetInspiration(on)
		return nil
	})
	return err
}

func (s *service) SetACOverride(ctx context.Context, id string, value *int) error {
	_, err := s.mutate(ctx, id, func(char *character.Character) error {
		if value != nil && *value < 0 {
			return internalerrors.Validation("armor class override cannot be negative")
		}
		char.ACOverride = value
		return nil
	})
	return err
}

// AddExperience awards XP. Experience is monotonic; negative awards are
// rejected rather than clamped.
func (s *service) AddExperience(ctx context.Context, id string, amount int) (*character.Character, error) {
	if amount < 0 {
		return nil, internalerrors.InvalidArgument("experience cannot be negative")
	}
	return s.mutate(ctx, id, func(char *character.Character) error {
		char.Experience += amount
		return nil
	})
}

func (s *service) GrantAbilityPoints(ctx context.Context, id string, points int) error {
	if points <= 0 {
		return internalerrors.InvalidArgument("points must be positive")
	}
	_, err := s.mutate(ctx, id, func(char *character.Character) error {
		char.GrantAbilityPoints(points)
		return nil
	})
	return err
}

func (s *service) SpendAbilityPoints(ctx context.Context, id string, distribution map[shared.Attribute]int) (*character.Character, error) {
	return s.mutate(ctx, id, func(char *character.Character) error {
		return char.SpendAbilityPoints(distribution)
	})
}

func (s *service) AddManualProficiency(ctx context.Context, id string, prof *rulebook.Proficiency) error {
	_, err := s.mutate(ctx, id, func(char *character.Character) error {
		return char.AddManualProficiency(prof)
	})
	return err
}

func (s *service) RemoveManualProficiency(ctx context.Context, id string, profType rulebook.ProficiencyType, key string) error {
	_, err := s.mutate(ctx, id, func(char *character.Character) error {
		return char.RemoveManualProficiency(profType, key)
	})
	return err
}

func (s *service) SetSkillProficiency(ctx context.Context, id, skill string, level shared.ProficiencyLevel) error {
	_, err := s.mutate(ctx, id, func(char *character.Character) error {
		return char.SetSkillProficiency(skill, level)
	})
	return err
}

func (s *service) SetSaveProficiency(ctx context.Context, id string, attr shared.Attribute, on bool) error {
	_, err := s.mutate(ctx, id, func(char *character.Character) error {
		char.SetSaveProficiency(attr, on)
		return nil
	})
	return err
}
