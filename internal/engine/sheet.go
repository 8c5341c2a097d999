package engine

import (
	"github.com/ironrations/charsheet/internal/domain/character"
	"github.com/ironrations/charsheet/internal/domain/equipment"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
)

// AbilityBlock is one ability's effective score and modifier
type AbilityBlock struct {
	Score    int `json:"score"`
	Modifier int `json:"modifier"`
}

// ACResult is the computed armor class. NotProficient is a warning only; it
// never changes the number.
type ACResult struct {
	Value         int  `json:"value"`
	Overridden    bool `json:"overridden,omitempty"`
	NotProficient bool `json:"not_proficient,omitempty"`
}

// SaveResult is one saving throw's total bonus
type SaveResult struct {
	Bonus      int  `json:"bonus"`
	Proficient bool `json:"proficient"`
}

// SkillResult is one skill's total bonus and tier
type SkillResult struct {
	Bonus   int                     `json:"bonus"`
	Level   shared.ProficiencyLevel `json:"level"`
	Ability shared.Attribute        `json:"ability"`
}

// Sheet is the full derived view of a character. It is recomputed from
// scratch on every call; nothing here is stored.
type Sheet struct {
	Level            int `json:"level"`
	ProficiencyBonus int `json:"proficiency_bonus"`

	Abilities map[shared.Attribute]AbilityBlock `json:"abilities"`

	AC         ACResult `json:"ac"`
	Initiative int      `json:"initiative"`
	Speed      int      `json:"speed"`
	Darkvision int      `json:"darkvision"`

	MaxHP int `json:"max_hp"`

	Saves  map[shared.Attribute]SaveResult `json:"saves"`
	Skills map[string]SkillResult          `json:"skills"`

	PassivePerception int `json:"passive_perception"`

	Languages []string `json:"languages"`

	SpellSlots rulebook.SpellSlotConfig `json:"spell_slots"`
}

// ComputeSheet derives every stat for the character. Unknown content keys
// degrade to their base contribution instead of failing the whole sheet.
func ComputeSheet(char *character.Character, lib *rulebook.Library) *Sheet {
	sources := char.ModifierSources(lib)
	level := char.Level()

	sheet := &Sheet{
		Level:            level,
		ProficiencyBonus: rulebook.ProficiencyBonus(level),
		Abilities:        make(map[shared.Attribute]AbilityBlock, len(shared.Attributes)),
		Saves:            make(map[shared.Attribute]SaveResult, len(shared.Attributes)),
		Skills:           make(map[string]SkillResult, len(shared.SkillKeys)),
	}

	for _, attr := range shared.Attributes {
		base := char.Attributes[attr]
		resolved := Resolve(string(attr), base, sources)
		score := resolved.Value
		if score > shared.AbilityScoreCap {
			score = shared.AbilityScoreCap
		}
		if score < 0 {
			score = 0
		}
		sheet.Abilities[attr] = AbilityBlock{Score: score, Modifier: shared.AbilityModifier(score)}
	}

	dexMod := sheet.Abilities[shared.AttributeDexterity].Modifier
	conMod := sheet.Abilities[shared.AttributeConstitution].Modifier

	sheet.AC = computeAC(char, lib, sources, dexMod)
	sheet.Initiative = Resolve(shared.TargetInitiative, dexMod+char.InitiativeBonus, sources).Value

	baseSpeed := 30
	if race, ok := lib.Race(char.RaceKey); ok {
		baseSpeed = race.Speed
	}
	sheet.Speed = Resolve(shared.TargetSpeed, baseSpeed, sources).Value
	sheet.Darkvision = Resolve(shared.TargetDarkvision, 0, sources).Value

	sheet.MaxHP = computeMaxHP(char, sources, conMod, level)

	saveProfs := savingThrowProficiencies(char, lib, sources)
	for _, attr := range shared.Attributes {
		mod := sheet.Abilities[attr].Modifier
		bonus := Resolve(shared.SaveTarget(attr), mod, sources).Value
		if saveProfs[attr] {
			bonus += sheet.ProficiencyBonus
		}
		sheet.Saves[attr] = SaveResult{Bonus: bonus, Proficient: saveProfs[attr]}
	}

	for _, skill := range shared.SkillKeys {
		ability := shared.SkillAbilities[skill]
		mod := sheet.Abilities[ability].Modifier

		tier := char.SkillProficiencies[skill]
		if tier == "" {
			tier = shared.ProficiencyLevelNone
		}
		granted, _ := SkillTier(skill, sources)
		if granted == shared.ProficiencyLevelExpertise {
			tier = shared.ProficiencyLevelExpertise
		} else if granted == shared.ProficiencyLevelProficient && tier == shared.ProficiencyLevelNone {
			tier = shared.ProficiencyLevelProficient
		}

		bonus := mod
		switch tier {
		case shared.ProficiencyLevelProficient:
			bonus += sheet.ProficiencyBonus
		case shared.ProficiencyLevelExpertise:
			bonus += 2 * sheet.ProficiencyBonus
		}

		sheet.Skills[skill] = SkillResult{Bonus: bonus, Level: tier, Ability: ability}
	}

	sheet.PassivePerception = 10 + sheet.Skills[shared.SkillPerception].Bonus

	seenLangs := make(map[string]bool)
	for _, lang := range char.Languages {
		key := shared.NormalizeKey(lang)
		if key == "" || seenLangs[key] {
			continue
		}
		seenLangs[key] = true
		sheet.Languages = append(sheet.Languages, lang)
	}
	for _, lang := range Languages(sources) {
		if seenLangs[lang] {
			continue
		}
		seenLangs[lang] = true
		sheet.Languages = append(sheet.Languages, lang)
	}

	sheet.SpellSlots = rulebook.CalculateSpellSlots(char.CasterEntries(lib))

	return sheet
}

// computeAC builds armor class from equipped gear, then lets modifiers act
// on it. A manual override replaces the number but the proficiency warning
// is still evaluated from what is actually worn.
func computeAC(char *character.Character, lib *rulebook.Library, sources []shared.ModifierSource, dexMod int) ACResult {
	base := 10 + dexMod
	var worn *equipment.Armor

	if item, ok := char.EquippedSlots[shared.SlotBody]; ok {
		if armor, isArmor := item.(*equipment.Armor); isArmor && armor.ArmorClass != nil {
			worn = armor
			base = armor.ArmorClass.Base
			if armor.ArmorClass.DexBonus {
				applied := dexMod
				if armor.ArmorClass.MaxBonus > 0 && applied > armor.ArmorClass.MaxBonus {
					applied = armor.ArmorClass.MaxBonus
				}
				base += applied
			}
		}
	}

	if item, ok := char.EquippedSlots[shared.SlotOffHand]; ok {
		if shield, isArmor := item.(*equipment.Armor); isArmor &&
			shield.ArmorCategory == equipment.ArmorCategoryShield && shield.ArmorClass != nil {
			base += shield.ArmorClass.Base
		}
	}

	result := ACResult{Value: Resolve(shared.TargetAC, base, sources).Value}

	if worn != nil && !armorProficient(char, lib, sources, string(worn.ArmorCategory)) {
		result.NotProficient = true
	}

	if char.ACOverride != nil {
		result.Value = *char.ACOverride
		result.Overridden = true
	}

	return result
}

func armorProficient(char *character.Character, lib *rulebook.Library, sources []shared.ModifierSource, category string) bool {
	for _, entry := range char.Classes {
		class, ok := lib.Class(entry.ClassKey)
		if !ok {
			continue
		}
		for _, prof := range class.ArmorProficiencies {
			if shared.NormalizeKey(prof) == shared.NormalizeKey(category) {
				return true
			}
		}
	}

	for _, prof := range char.ManualProficiencies[rulebook.ProficiencyTypeArmor] {
		if shared.NormalizeKey(prof.Key) == shared.NormalizeKey(category) {
			return true
		}
	}

	granted, _ := Grants(shared.ModifierArmorProficiency, category, sources)
	return granted
}

// computeMaxHP sums the recorded per-level die results with the current
// constitution modifier applied to each, so score changes act retroactively.
// Every level contributes at least 1 and the total never computes below 1
// for a leveled character. The result also floors at the character's current
// plus temporary hit points, so remaining capacity never reads as negative.
func computeMaxHP(char *character.Character, sources []shared.ModifierSource, conMod, level int) int {
	base := 0
	for _, roll := range char.HitPointRolls {
		gained := roll + conMod
		if gained < 1 {
			gained = 1
		}
		base += gained
	}

	maxHP := Resolve(shared.TargetMaxHP, base, sources).Value
	if level > 0 && maxHP < 1 {
		maxHP = 1
	}
	if held := char.HP.Current + char.HP.Temporary; maxHP < held {
		maxHP = held
	}
	return maxHP
}

// savingThrowProficiencies merges the first class's saves, manual toggles,
// and modifier grants.
func savingThrowProficiencies(char *character.Character, lib *rulebook.Library, sources []shared.ModifierSource) map[shared.Attribute]bool {
	profs := make(map[shared.Attribute]bool, len(shared.Attributes))

	if primary := char.PrimaryClass(); primary != nil {
		if class, ok := lib.Class(primary.ClassKey); ok {
			for _, attr := range class.SavingThrows {
				profs[attr] = true
			}
		}
	}

	for attr, on := range char.SaveProficiencies {
		if on {
			profs[attr] = true
		}
	}

	for _, attr := range shared.Attributes {
		if profs[attr] {
			continue
		}
		if granted, _ := Grants(shared.ModifierSavingThrowProficiency, string(attr), sources); granted {
			profs[attr] = true
		}
	}

	return profs
}
