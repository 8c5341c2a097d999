package rulebook

import (
	"github.com/ironrations/charsheet/internal/domain/shared"
)

// Race is an externally supplied race definition. Racial mechanics (ability
// bonuses, darkvision, innate proficiencies) are expressed as modifiers on
// traits so the aggregator handles them like every other source.
type Race struct {
	Key    string   `json:"key"`
	Name   string   `json:"name"`
	Speed  int      `json:"speed"`
	Traits []*Trait `json:"traits,omitempty"`
}

// Trait is one racial trait carrying modifiers
type Trait struct {
	Key            string            `json:"key"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	TraitModifiers []shared.Modifier `json:"modifiers,omitempty"`
}

// ModifierSourceID implements shared.ModifierSource
func (t *Trait) ModifierSourceID() string { return t.Key }

// ModifierSourceName implements shared.ModifierSource
func (t *Trait) ModifierSourceName() string { return t.Name }

// Modifiers implements shared.ModifierSource
func (t *Trait) Modifiers() []shared.Modifier { return t.TraitModifiers }

// Background is an externally supplied background definition
type Background struct {
	Key                 string            `json:"key"`
	Name                string            `json:"name"`
	BackgroundModifiers []shared.Modifier `json:"modifiers,omitempty"`
}

// ModifierSourceID implements shared.ModifierSource
func (b *Background) ModifierSourceID() string { return b.Key }

// ModifierSourceName implements shared.ModifierSource
func (b *Background) ModifierSourceName() string { return b.Name }

// Modifiers implements shared.ModifierSource
func (b *Background) Modifiers() []shared.Modifier { return b.BackgroundModifiers }

// Feat is an externally supplied feat definition
type Feat struct {
	Key           string            `json:"key"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	FeatModifiers []shared.Modifier `json:"modifiers,omitempty"`
}

// ModifierSourceID implements shared.ModifierSource
func (f *Feat) ModifierSourceID() string { return f.Key }

// ModifierSourceName implements shared.ModifierSource
func (f *Feat) ModifierSourceName() string { return f.Name }

// Modifiers implements shared.ModifierSource
func (f *Feat) Modifiers() []shared.Modifier { return f.FeatModifiers }

// PointGrant extracts the ability_point_grant a feat carries, if any.
// Returns the number of points and the allowed abilities (nil means any).
func (f *Feat) PointGrant() (points int, allowed []shared.Attribute, ok bool) {
	for _, mod := range f.FeatModifiers {
		if mod.Type == shared.ModifierAbilityPointGrant {
			return mod.Value, shared.ParseAttributeList(mod.Condition), true
		}
	}
	return 0, nil, false
}
