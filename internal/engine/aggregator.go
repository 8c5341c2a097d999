// Package engine computes every derived number on a character sheet from the
// character's base state and its attached modifier sources. All functions
// here are pure: they never mutate the character and are safe for concurrent
// readers.
package engine

import (
	"github.com/ironrations/charsheet/internal/domain/shared"
)

// Attribution records which source granted a value or capability
type Attribution struct {
	SourceID   string `json:"source_id"`
	SourceName string `json:"source_name"`
}

// ResolvedValue is the outcome of numeric aggregation for one target
type ResolvedValue struct {
	Value int `json:"value"`

	// Set reports that a set/override modifier replaced the base; bonuses
	// were ignored.
	Set bool `json:"set,omitempty"`

	// HasBonus reports that at least one bonus modifier matched the target,
	// whether or not a set modifier ended up masking it.
	HasBonus bool `json:"has_bonus,omitempty"`

	// Sources lists every modifier source that contributed
	Sources []Attribution `json:"sources,omitempty"`
}

// eligible applies the conditional gate; plain sources always contribute
func eligible(src shared.ModifierSource) bool {
	if cond, ok := src.(shared.ConditionalSource); ok {
		return cond.Eligible()
	}
	return true
}

// Resolve aggregates all numeric modifiers for a target onto a base value.
// Set and override modifiers replace the base entirely and the highest one
// wins; bonuses only sum when no set modifier is present. Modifier types
// that are not numeric for this purpose contribute nothing, so one bad
// content record never blanks a sheet.
func Resolve(target string, base int, sources []shared.ModifierSource) ResolvedValue {
	key := shared.NormalizeKey(target)

	result := ResolvedValue{Value: base}
	bonusTotal := 0
	highestSet := 0

	for _, src := range sources {
		if !eligible(src) {
			continue
		}
		for _, mod := range src.Modifiers() {
			if shared.NormalizeKey(mod.Target) != key {
				continue
			}
			switch mod.Type {
			case shared.ModifierBonus:
				bonusTotal += mod.Value
				result.HasBonus = true
				result.Sources = append(result.Sources, Attribution{src.ModifierSourceID(), src.ModifierSourceName()})
			case shared.ModifierSet, shared.ModifierOverride:
				if !result.Set || mod.Value > highestSet {
					highestSet = mod.Value
				}
				result.Set = true
				result.Sources = append(result.Sources, Attribution{src.ModifierSourceID(), src.ModifierSourceName()})
			}
		}
	}

	if result.Set {
		result.Value = highestSet
	} else {
		result.Value = base + bonusTotal
	}

	return result
}

// Grants reports whether any eligible source carries a presence-style
// modifier of the given type for the target, with attribution for each
// granting source.
func Grants(modType shared.ModifierType, target string, sources []shared.ModifierSource) (bool, []Attribution) {
	key := shared.NormalizeKey(target)

	var grantedBy []Attribution
	for _, src := range sources {
		if !eligible(src) {
			continue
		}
		for _, mod := range src.Modifiers() {
			if mod.Type != modType || shared.NormalizeKey(mod.Target) != key {
				continue
			}
			grantedBy = append(grantedBy, Attribution{src.ModifierSourceID(), src.ModifierSourceName()})
		}
	}

	return len(grantedBy) > 0, grantedBy
}

// SkillTier resolves the proficiency tier modifier sources grant for a
// skill. Expertise outranks plain proficiency when both are present.
func SkillTier(skill string, sources []shared.ModifierSource) (shared.ProficiencyLevel, []Attribution) {
	key := shared.NormalizeKey(skill)

	tier := shared.ProficiencyLevelNone
	var grantedBy []Attribution

	for _, src := range sources {
		if !eligible(src) {
			continue
		}
		for _, mod := range src.Modifiers() {
			if shared.NormalizeKey(mod.Target) != key {
				continue
			}
			switch mod.Type {
			case shared.ModifierSkillProficiency:
				if tier == shared.ProficiencyLevelNone {
					tier = shared.ProficiencyLevelProficient
				}
				grantedBy = append(grantedBy, Attribution{src.ModifierSourceID(), src.ModifierSourceName()})
			case shared.ModifierExpertise:
				tier = shared.ProficiencyLevelExpertise
				grantedBy = append(grantedBy, Attribution{src.ModifierSourceID(), src.ModifierSourceName()})
			}
		}
	}

	return tier, grantedBy
}

// Languages collects every language granted by eligible sources
func Languages(sources []shared.ModifierSource) []string {
	seen := make(map[string]bool)
	var langs []string

	for _, src := range sources {
		if !eligible(src) {
			continue
		}
		for _, mod := range src.Modifiers() {
			if mod.Type != shared.ModifierLanguage || mod.Target == "" {
				continue
			}
			key := shared.NormalizeKey(mod.Target)
			if !seen[key] {
				seen[key] = true
				langs = append(langs, key)
			}
		}
	}

	return langs
}
