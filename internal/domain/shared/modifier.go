package shared

// ModifierType describes how a modifier's value applies to its target
type ModifierType string

const (
	// ModifierBonus adds its value onto the base; bonuses stack
	ModifierBonus ModifierType = "bonus"
	// ModifierSet replaces the base outright; the highest set wins and set
	// beats bonus
	ModifierSet ModifierType = "set"
	// ModifierOverride behaves like set, intended for exceptional replacement
	ModifierOverride ModifierType = "override"

	// Presence-style grants: any qualifying source grants the capability
	ModifierProficiency            ModifierType = "proficiency"
	ModifierSkillProficiency       ModifierType = "skill_proficiency"
	ModifierExpertise              ModifierType = "expertise"
	ModifierSavingThrowProficiency ModifierType = "saving_throw_proficiency"
	ModifierArmorProficiency       ModifierType = "armor_proficiency"
	ModifierWeaponProficiency      ModifierType = "weapon_proficiency"
	ModifierLanguage               ModifierType = "language"

	// Leveling-flow modifiers carried by feats
	ModifierAbilityIncrease   ModifierType = "ability_increase"
	ModifierAbilityPointGrant ModifierType = "ability_point_grant"
)

// Common modifier target keys. Ability targets use Attribute short forms and
// skill targets use the canonical skill keys.
const (
	TargetAC         = "ac"
	TargetInitiative = "initiative"
	TargetSpeed      = "speed"
	TargetDarkvision = "darkvision"
	TargetMaxHP      = "max_hp"
)

// SaveTarget returns the modifier target key for a saving throw bonus
func SaveTarget(attr Attribute) string {
	return "save_" + string(attr)
}

// Modifier is an immutable effect descriptor. It never references a character
// directly; it is attached through the source that owns it.
type Modifier struct {
	Type   ModifierType `json:"type"`
	Target string       `json:"target"`
	Value  int          `json:"value,omitempty"`

	// Condition restricts the modifier. For ability_point_grant it is a
	// comma list of allowed ability keys ("str,dex").
	Condition string `json:"condition,omitempty"`

	// Max caps the result, used by ability_increase
	Max int `json:"max,omitempty"`
}

// ModifierSource is anything that can carry modifiers: a racial trait, a
// background, a feat, a class feature, an equipped item, or an active effect.
// The aggregator is written once against this interface and never branches on
// the concrete source kind.
type ModifierSource interface {
	// ModifierSourceID is a stable identity used for attribution and removal
	ModifierSourceID() string

	// ModifierSourceName is the display name shown for attribution
	ModifierSourceName() string

	// Modifiers returns the effect descriptors this source carries
	Modifiers() []Modifier
}

// ConditionalSource is implemented by sources whose contribution can be
// gated off without detaching them, such as items requiring attunement.
type ConditionalSource interface {
	ModifierSource

	// Eligible reports whether the source currently contributes
	Eligible() bool
}
