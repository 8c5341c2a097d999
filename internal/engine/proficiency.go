package engine

import (
	"github.com/ironrations/charsheet/internal/domain/character"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
)

// Origin labels for proficiency entries. Entries from modifier sources use
// the source's display name instead.
const (
	OriginClass  = "Class"
	OriginManual = "Manual"
)

// ProficiencyEntry is one resolved proficiency with its origin. Only entries
// with the Manual origin can be removed through the proficiency surface;
// everything else disappears when its source does.
type ProficiencyEntry struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Origin    string `json:"origin"`
	Removable bool   `json:"removable"`
}

// ResolveProficiencies builds the full grouped proficiency list for a
// character: class grants, modifier-source grants, and manual additions.
// Duplicate keys within a group collapse to one visible entry; a derived
// origin wins over Manual so removing the manual copy never appears to
// revoke a class or item grant.
func ResolveProficiencies(char *character.Character, lib *rulebook.Library) map[rulebook.ProficiencyType][]ProficiencyEntry {
	out := make(map[rulebook.ProficiencyType][]ProficiencyEntry)
	index := make(map[rulebook.ProficiencyType]map[string]int)

	add := func(profType rulebook.ProficiencyType, entry ProficiencyEntry) {
		if entry.Key == "" {
			return
		}
		entry.Key = shared.NormalizeKey(entry.Key)

		if index[profType] == nil {
			index[profType] = make(map[string]int)
		}
		if i, seen := index[profType][entry.Key]; seen {
			// a derived grant displaces the manual copy for display
			if out[profType][i].Origin == OriginManual && entry.Origin != OriginManual {
				out[profType][i] = entry
			}
			return
		}

		index[profType][entry.Key] = len(out[profType])
		out[profType] = append(out[profType], entry)
	}

	for _, classEntry := range char.Classes {
		class, ok := lib.Class(classEntry.ClassKey)
		if !ok {
			continue
		}
		for _, key := range class.ArmorProficiencies {
			add(rulebook.ProficiencyTypeArmor, ProficiencyEntry{Key: key, Name: key, Origin: OriginClass})
		}
		for _, key := range class.WeaponProficiencies {
			add(rulebook.ProficiencyTypeWeapon, ProficiencyEntry{Key: key, Name: key, Origin: OriginClass})
		}
	}

	if primary := char.PrimaryClass(); primary != nil {
		if class, ok := lib.Class(primary.ClassKey); ok {
			for _, attr := range class.SavingThrows {
				add(rulebook.ProficiencyTypeSavingThrow, ProficiencyEntry{Key: string(attr), Name: attr.Name(), Origin: OriginClass})
			}
		}
	}

	sources := char.ModifierSources(lib)
	for _, src := range sources {
		if !eligible(src) {
			continue
		}
		for _, mod := range src.Modifiers() {
			entry := ProficiencyEntry{Key: mod.Target, Name: mod.Target, Origin: src.ModifierSourceName()}
			switch mod.Type {
			case shared.ModifierSkillProficiency, shared.ModifierExpertise:
				add(rulebook.ProficiencyTypeSkill, entry)
			case shared.ModifierSavingThrowProficiency:
				add(rulebook.ProficiencyTypeSavingThrow, entry)
			case shared.ModifierArmorProficiency:
				add(rulebook.ProficiencyTypeArmor, entry)
			case shared.ModifierWeaponProficiency:
				add(rulebook.ProficiencyTypeWeapon, entry)
			case shared.ModifierLanguage:
				add(rulebook.ProficiencyTypeLanguage, entry)
			}
		}
	}

	for skill, level := range char.SkillProficiencies {
		if level == shared.ProficiencyLevelNone {
			continue
		}
		add(rulebook.ProficiencyTypeSkill, ProficiencyEntry{Key: skill, Name: skill, Origin: OriginManual, Removable: true})
	}

	for attr, on := range char.SaveProficiencies {
		if on {
			add(rulebook.ProficiencyTypeSavingThrow, ProficiencyEntry{Key: string(attr), Name: attr.Name(), Origin: OriginManual, Removable: true})
		}
	}

	for profType, profs := range char.ManualProficiencies {
		for _, prof := range profs {
			add(profType, ProficiencyEntry{Key: prof.Key, Name: prof.Name, Origin: OriginManual, Removable: true})
		}
	}

	return out
}
