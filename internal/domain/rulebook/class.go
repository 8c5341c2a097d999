package rulebook

import (
	"github.com/ironrations/charsheet/internal/domain/shared"
)

// Class is an externally supplied class definition with the progression data
// the leveling machine and spellcasting calculator need.
type Class struct {
	Key              string             `json:"key"`
	Name             string             `json:"name"`
	HitDie           int                `json:"hit_die"`
	SpellcastingType SpellcastingType   `json:"spellcasting_type"`
	SavingThrows     []shared.Attribute `json:"saving_throws"`

	// SubclassLevel is the class level at which a subclass must be chosen;
	// zero means the class has no subclass step.
	SubclassLevel int `json:"subclass_level"`

	// ASILevels are the class levels granting an Ability Score Improvement
	ASILevels []int `json:"asi_levels"`

	Subclasses []*Subclass `json:"subclasses,omitempty"`

	// SkillChoices are the skills this class may pick proficiencies from
	SkillChoices []string `json:"skill_choices,omitempty"`
	// SkillChoiceCount is how many skills are picked at first level
	SkillChoiceCount int `json:"skill_choice_count,omitempty"`

	ArmorProficiencies  []string `json:"armor_proficiencies,omitempty"`
	WeaponProficiencies []string `json:"weapon_proficiencies,omitempty"`
}

// Subclass is a class specialization. SpellcastingType, when set, overrides
// the class default (eldritch knight and arcane trickster become third
// casters).
type Subclass struct {
	Key              string           `json:"key"`
	Name             string           `json:"name"`
	SpellcastingType SpellcastingType `json:"spellcasting_type,omitempty"`
}

// SubclassByKey finds a subclass on this class
func (c *Class) SubclassByKey(key string) *Subclass {
	for _, sc := range c.Subclasses {
		if sc.Key == key {
			return sc
		}
	}
	return nil
}

// GrantsASIAt reports whether reaching the given class level grants an
// Ability Score Improvement
func (c *Class) GrantsASIAt(level int) bool {
	for _, l := range c.ASILevels {
		if l == level {
			return true
		}
	}
	return false
}

// CastingType resolves the effective spellcasting type for this class given
// an optionally chosen subclass; the subclass override wins when present.
func (c *Class) CastingType(subclassKey string) SpellcastingType {
	if subclassKey != "" {
		if sc := c.SubclassByKey(subclassKey); sc != nil && sc.SpellcastingType != "" {
			return sc.SpellcastingType
		}
	}
	if c.SpellcastingType == "" {
		return SpellcastingNone
	}
	return c.SpellcastingType
}

// Feature is a named class or racial feature that can carry modifiers
type Feature struct {
	Key              string            `json:"key"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	Level            int               `json:"level,omitempty"`
	Source           string            `json:"source,omitempty"`
	FeatureModifiers []shared.Modifier `json:"modifiers,omitempty"`
}

// ModifierSourceID implements shared.ModifierSource
func (f *Feature) ModifierSourceID() string { return f.Key }

// ModifierSourceName implements shared.ModifierSource
func (f *Feature) ModifierSourceName() string { return f.Name }

// Modifiers implements shared.ModifierSource
func (f *Feature) Modifiers() []shared.Modifier { return f.FeatureModifiers }
