package character

import (
	"sync"

	"github.com/ironrations/charsheet/internal/domain/equipment"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
)

// ClassEntry is one class's progression on a character
type ClassEntry struct {
	ClassKey    string `json:"class_key"`
	Level       int    `json:"level"`
	SubclassKey string `json:"subclass_key,omitempty"`
}

// Character is the aggregate root. Derived numbers (AC, skill bonuses, spell
// slots) are never stored here; they are computed from this state plus the
// attached modifier sources. Mutating methods take the internal lock;
// concurrent readers should work on a Clone.
type Character struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	RealmID string `json:"realm_id"`
	Name    string `json:"name"`

	RaceKey       string `json:"race_key"`
	BackgroundKey string `json:"background_key,omitempty"`

	// Attributes are the base ability scores before any modifier sources
	Attributes map[shared.Attribute]int `json:"attributes"`

	Classes []*ClassEntry `json:"classes"`
	Feats   []string      `json:"feats,omitempty"`

	Experience int `json:"experience"`

	// AbilityPoints is the unspent pool granted by feats and choices
	AbilityPoints int `json:"ability_points"`

	HP shared.HPResource `json:"hp"`

	// HitPointRolls holds the raw die result for each character level gained,
	// in order. The constitution contribution is derived at read time so a
	// constitution change retroactively adjusts max HP.
	HitPointRolls []int `json:"hit_point_rolls,omitempty"`

	// HitDice tracks the short-rest healing pools per class
	HitDice map[string]*shared.HitDiceResource `json:"hit_dice,omitempty"`

	// SpellSlotsUsed counts expended standard slots per spell level;
	// PactSlotsUsed counts expended pact slots. Totals come from the
	// computed slot layout.
	SpellSlotsUsed map[int]int `json:"spell_slots_used,omitempty"`
	PactSlotsUsed  int         `json:"pact_slots_used,omitempty"`

	DeathSaves  shared.DeathSaves `json:"death_saves"`
	Inspiration bool              `json:"inspiration"`
	Exhaustion  int               `json:"exhaustion"`

	// ACOverride, when set, replaces the computed armor class entirely
	ACOverride *int `json:"ac_override,omitempty"`

	// InitiativeBonus is a manual adjustment on top of the dex modifier
	InitiativeBonus int `json:"initiative_bonus"`

	// SkillProficiencies are explicit per-skill toggles: class picks and
	// manual grants, keyed by canonical skill key.
	SkillProficiencies map[string]shared.ProficiencyLevel `json:"skill_proficiencies,omitempty"`

	// SaveProficiencies are manual saving-throw toggles; class saves are
	// derived from the first class and not stored.
	SaveProficiencies map[shared.Attribute]bool `json:"save_proficiencies,omitempty"`

	// ManualProficiencies are user-added entries, grouped by kind. Only
	// these are removable through the proficiency surface.
	ManualProficiencies map[rulebook.ProficiencyType][]*rulebook.Proficiency `json:"manual_proficiencies,omitempty"`

	Languages  []string `json:"languages,omitempty"`
	Conditions []string `json:"conditions,omitempty"`

	Inventory     []equipment.Equipment              `json:"-"`
	EquippedSlots map[shared.Slot]equipment.Equipment `json:"-"`

	// Attuned tracks which equipped item keys are attuned
	Attuned map[string]bool `json:"attuned,omitempty"`

	ActiveEffects []*shared.ActiveEffect `json:"active_effects,omitempty"`

	Status shared.CharacterStatus `json:"status"`

	mu sync.Mutex
}

// Level is the total character level, the sum of all class levels
func (c *Character) Level() int {
	total := 0
	for _, entry := range c.Classes {
		total += entry.Level
	}
	return total
}

// ClassEntry finds the progression entry for a class key
func (c *Character) ClassEntry(classKey string) *ClassEntry {
	for _, entry := range c.Classes {
		if entry.ClassKey == classKey {
			return entry
		}
	}
	return nil
}

// PrimaryClass returns the first class taken, which determines the derived
// saving throw proficiencies.
func (c *Character) PrimaryClass() *ClassEntry {
	if len(c.Classes) == 0 {
		return nil
	}
	return c.Classes[0]
}

// HasFeat reports whether the character already has the feat
func (c *Character) HasFeat(featKey string) bool {
	for _, key := range c.Feats {
		if key == featKey {
			return true
		}
	}
	return false
}

// HasCondition reports whether the named condition is active
func (c *Character) HasCondition(name string) bool {
	for _, cond := range c.Conditions {
		if cond == name {
			return true
		}
	}
	return false
}

// CasterEntries resolves each class entry to its effective casting type for
// the spell slot calculation.
func (c *Character) CasterEntries(lib *rulebook.Library) []rulebook.CasterEntry {
	entries := make([]rulebook.CasterEntry, 0, len(c.Classes))
	for _, entry := range c.Classes {
		class, ok := lib.Class(entry.ClassKey)
		if !ok {
			// unknown content contributes nothing rather than failing the sheet
			continue
		}
		entries = append(entries, rulebook.CasterEntry{
			Type:  class.CastingType(entry.SubclassKey),
			Level: entry.Level,
		})
	}
	return entries
}

// equippedItem adapts an equipped piece of gear to the modifier pipeline.
// Items that require attunement only contribute while attuned.
type equippedItem struct {
	item    equipment.Equipment
	attuned bool
}

func (e *equippedItem) ModifierSourceID() string       { return e.item.GetKey() }
func (e *equippedItem) ModifierSourceName() string     { return e.item.GetName() }
func (e *equippedItem) Modifiers() []shared.Modifier   { return e.item.GetModifiers() }
func (e *equippedItem) Eligible() bool                 { return !e.item.NeedsAttunement() || e.attuned }

// ModifierSources collects every attached source in a stable order: racial
// traits, background, feats, equipped items, then active effects. Unknown
// content keys are skipped.
func (c *Character) ModifierSources(lib *rulebook.Library) []shared.ModifierSource {
	var sources []shared.ModifierSource

	if race, ok := lib.Race(c.RaceKey); ok {
		for _, trait := range race.Traits {
			sources = append(sources, trait)
		}
	}

	if c.BackgroundKey != "" {
		if bg, ok := lib.Background(c.BackgroundKey); ok {
			sources = append(sources, bg)
		}
	}

	for _, featKey := range c.Feats {
		if feat, ok := lib.Feat(featKey); ok {
			sources = append(sources, feat)
		}
	}

	for _, slot := range []shared.Slot{shared.SlotMainHand, shared.SlotOffHand, shared.SlotTwoHanded, shared.SlotBody, shared.SlotNone} {
		item, ok := c.EquippedSlots[slot]
		if !ok || item == nil {
			continue
		}
		sources = append(sources, &equippedItem{item: item, attuned: c.Attuned[item.GetKey()]})
	}

	for _, effect := range c.ActiveEffects {
		sources = append(sources, effect)
	}

	return sources
}

// Clone returns a deep copy safe for concurrent reads while the original
// keeps taking mutations. Inventory items are shared; they are immutable
// content records.
func (c *Character) Clone() *Character {
	c.mu.Lock()
	defer c.mu.Unlock()

	clone := &Character{
		ID:              c.ID,
		OwnerID:         c.OwnerID,
		RealmID:         c.RealmID,
		Name:            c.Name,
		RaceKey:         c.RaceKey,
		BackgroundKey:   c.BackgroundKey,
		Experience:      c.Experience,
		AbilityPoints:   c.AbilityPoints,
		HP:              c.HP,
		DeathSaves:      c.DeathSaves,
		Inspiration:     c.Inspiration,
		Exhaustion:      c.Exhaustion,
		InitiativeBonus: c.InitiativeBonus,
		Status:          c.Status,
	}

	if c.ACOverride != nil {
		v := *c.ACOverride
		clone.ACOverride = &v
	}

	clone.Attributes = make(map[shared.Attribute]int, len(c.Attributes))
	for attr, score := range c.Attributes {
		clone.Attributes[attr] = score
	}

	clone.Classes = make([]*ClassEntry, len(c.Classes))
	for i, entry := range c.Classes {
		copied := *entry
		clone.Classes[i] = &copied
	}

	clone.Feats = append([]string(nil), c.Feats...)
	clone.HitPointRolls = append([]int(nil), c.HitPointRolls...)
	clone.Languages = append([]string(nil), c.Languages...)
	clone.Conditions = append([]string(nil), c.Conditions...)
	clone.Inventory = append([]equipment.Equipment(nil), c.Inventory...)

	clone.PactSlotsUsed = c.PactSlotsUsed
	clone.SpellSlotsUsed = make(map[int]int, len(c.SpellSlotsUsed))
	for level, used := range c.SpellSlotsUsed {
		clone.SpellSlotsUsed[level] = used
	}

	clone.HitDice = make(map[string]*shared.HitDiceResource, len(c.HitDice))
	for key, hd := range c.HitDice {
		copied := *hd
		clone.HitDice[key] = &copied
	}

	clone.SkillProficiencies = make(map[string]shared.ProficiencyLevel, len(c.SkillProficiencies))
	for key, level := range c.SkillProficiencies {
		clone.SkillProficiencies[key] = level
	}

	clone.SaveProficiencies = make(map[shared.Attribute]bool, len(c.SaveProficiencies))
	for attr, on := range c.SaveProficiencies {
		clone.SaveProficiencies[attr] = on
	}

	clone.ManualProficiencies = make(map[rulebook.ProficiencyType][]*rulebook.Proficiency, len(c.ManualProficiencies))
	for kind, profs := range c.ManualProficiencies {
		copied := make([]*rulebook.Proficiency, len(profs))
		for i, p := range profs {
			cp := *p
			copied[i] = &cp
		}
		clone.ManualProficiencies[kind] = copied
	}

	clone.EquippedSlots = make(map[shared.Slot]equipment.Equipment, len(c.EquippedSlots))
	for slot, item := range c.EquippedSlots {
		clone.EquippedSlots[slot] = item
	}

	clone.Attuned = make(map[string]bool, len(c.Attuned))
	for key, on := range c.Attuned {
		clone.Attuned[key] = on
	}

	clone.ActiveEffects = make([]*shared.ActiveEffect, len(c.ActiveEffects))
	for i, effect := range c.ActiveEffects {
		copied := *effect
		copied.EffectModifiers = append([]shared.Modifier(nil), effect.EffectModifiers...)
		clone.ActiveEffects[i] = &copied
	}

	return clone
}
