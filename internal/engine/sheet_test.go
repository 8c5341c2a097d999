package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironrations/charsheet/internal/domain/character"
	"github.com/ironrations/charsheet/internal/domain/equipment"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
	"github.com/ironrations/charsheet/internal/engine"
)

func baseFighter() *character.Character {
	return &character.Character{
		ID:      "char-1",
		Name:    "Brakka",
		RaceKey: "half-orc",
		Attributes: map[shared.Attribute]int{
			shared.AttributeStrength:     16,
			shared.AttributeDexterity:    14,
			shared.AttributeConstitution: 14,
			shared.AttributeIntelligence: 10,
			shared.AttributeWisdom:       12,
			shared.AttributeCharisma:     8,
		},
		Classes: []*character.ClassEntry{
			{ClassKey: "fighter", Level: 5},
		},
		HitPointRolls: []int{10, 6, 6, 6, 6},
		HP:            shared.HPResource{Current: 44, Max: 44},
		Status:        shared.CharacterStatusActive,
	}
}

func TestComputeSheet_Abilities(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()

	sheet := engine.ComputeSheet(char, lib)

	// half-orc grants str +2 con +1 through racial traits
	assert.Equal(t, 18, sheet.Abilities[shared.AttributeStrength].Score)
	assert.Equal(t, 4, sheet.Abilities[shared.AttributeStrength].Modifier)
	assert.Equal(t, 15, sheet.Abilities[shared.AttributeConstitution].Score)
	assert.Equal(t, 2, sheet.Abilities[shared.AttributeConstitution].Modifier)

	assert.Equal(t, -1, sheet.Abilities[shared.AttributeCharisma].Modifier)
}

func TestComputeSheet_AbilityCap(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()
	char.Attributes[shared.AttributeStrength] = 20

	sheet := engine.ComputeSheet(char, lib)
	assert.Equal(t, 20, sheet.Abilities[shared.AttributeStrength].Score, "racial bonus cannot push past the cap")
}

func TestComputeSheet_ACUnarmored(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()

	sheet := engine.ComputeSheet(char, lib)
	assert.Equal(t, 12, sheet.AC.Value, "10 + dex")
	assert.False(t, sheet.AC.NotProficient)
}

func TestComputeSheet_ACArmorAndShield(t *testing.T) {
	lib := rulebook.NewLibrary()
	lib.AddClass(&rulebook.Class{Key: "fighter", Name: "Fighter", HitDie: 10})

	char := baseFighter()
	char.EquippedSlots = map[shared.Slot]equipment.Equipment{
		shared.SlotBody: &equipment.Armor{
			Base:          equipment.BasicEquipment{Key: "scale-mail", Name: "Scale Mail"},
			ArmorCategory: equipment.ArmorCategoryMedium,
			ArmorClass:    &equipment.ArmorClass{Base: 14, DexBonus: true, MaxBonus: 2},
		},
		shared.SlotOffHand: &equipment.Armor{
			Base:          equipment.BasicEquipment{Key: "shield", Name: "Shield"},
			ArmorCategory: equipment.ArmorCategoryShield,
			ArmorClass:    &equipment.ArmorClass{Base: 2},
		},
	}

	sheet := engine.ComputeSheet(char, lib)
	// 14 base + 2 dex (capped) + 2 shield
	assert.Equal(t, 18, sheet.AC.Value)
}

func TestComputeSheet_ACNotProficientWarning(t *testing.T) {
	lib := rulebook.NewLibrary()

	char := baseFighter()
	char.Classes = []*character.ClassEntry{{ClassKey: "wizard", Level: 5}}
	char.EquippedSlots = map[shared.Slot]equipment.Equipment{
		shared.SlotBody: &equipment.Armor{
			Base:          equipment.BasicEquipment{Key: "plate", Name: "Plate"},
			ArmorCategory: equipment.ArmorCategoryHeavy,
			ArmorClass:    &equipment.ArmorClass{Base: 18},
		},
	}

	sheet := engine.ComputeSheet(char, lib)
	assert.Equal(t, 18, sheet.AC.Value, "the warning never changes the number")
	assert.True(t, sheet.AC.NotProficient)
}

func TestComputeSheet_ACOverrideWins(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()
	override := 17
	char.ACOverride = &override

	sheet := engine.ComputeSheet(char, lib)
	assert.Equal(t, 17, sheet.AC.Value)
	assert.True(t, sheet.AC.Overridden)
}

func TestComputeSheet_MaxHP(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()

	sheet := engine.ComputeSheet(char, lib)
	// rolls 10+6+6+6+6 = 34, con modifier +2 (after racial +1) for 5 levels
	assert.Equal(t, 44, sheet.MaxHP)
}

func TestComputeSheet_MaxHPWithToughFeat(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()
	char.Feats = []string{"tough"}

	base := engine.ComputeSheet(baseFighter(), lib).MaxHP
	boosted := engine.ComputeSheet(char, lib).MaxHP
	assert.Greater(t, boosted, base)
}

func TestComputeSheet_MaxHPFloorsAtHeldHitPoints(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()

	// the rolls derive 44, but the character is holding more than that;
	// displayed capacity never drops below what is held
	char.HP = shared.HPResource{Current: 50, Max: 50, Temporary: 5}

	sheet := engine.ComputeSheet(char, lib)
	assert.Equal(t, 55, sheet.MaxHP)
}

func TestComputeSheet_EffectRoundTrip(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()

	before := engine.ComputeSheet(char, lib)

	char.ActiveEffects = []*shared.ActiveEffect{
		{
			ID: "fx-1", Name: "Haste", DurationType: shared.DurationTypeMinutes, Duration: 1,
			EffectModifiers: []shared.Modifier{
				{Type: shared.ModifierBonus, Target: shared.TargetAC, Value: 2},
				{Type: shared.ModifierBonus, Target: shared.TargetSpeed, Value: 25},
				{Type: shared.ModifierBonus, Target: string(shared.AttributeConstitution), Value: 2},
				{Type: shared.ModifierSet, Target: shared.TargetDarkvision, Value: 120},
			},
		},
	}
	during := engine.ComputeSheet(char, lib)
	assert.Equal(t, before.AC.Value+2, during.AC.Value)
	assert.Equal(t, before.Speed+25, during.Speed)
	assert.Equal(t, 120, during.Darkvision)
	assert.Greater(t, during.MaxHP, before.MaxHP, "the constitution bump reaches every level")

	char.ActiveEffects = nil
	after := engine.ComputeSheet(char, lib)
	assert.Equal(t, before, after, "detaching the source restores every derived value")
}

func TestComputeSheet_LanguagesDeduplicate(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()
	char.Languages = []string{"Common", "Elvish"}
	char.Feats = []string{"linguist"}

	// linguist grants elvish again; the manual spelling wins and shows once
	sheet := engine.ComputeSheet(char, lib)
	assert.Equal(t, []string{"Common", "Elvish", "dwarvish", "draconic"}, sheet.Languages)
}

func TestComputeSheet_Saves(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()

	sheet := engine.ComputeSheet(char, lib)

	// fighter grants str and con save proficiency; proficiency bonus at
	// level 5 is +3
	require.True(t, sheet.Saves[shared.AttributeStrength].Proficient)
	assert.Equal(t, 7, sheet.Saves[shared.AttributeStrength].Bonus)
	require.True(t, sheet.Saves[shared.AttributeConstitution].Proficient)
	assert.Equal(t, 5, sheet.Saves[shared.AttributeConstitution].Bonus)

	assert.False(t, sheet.Saves[shared.AttributeWisdom].Proficient)
	assert.Equal(t, 1, sheet.Saves[shared.AttributeWisdom].Bonus)
}

func TestComputeSheet_SkillsAndExpertise(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()
	char.SkillProficiencies = map[string]shared.ProficiencyLevel{
		shared.SkillAthletics: shared.ProficiencyLevelProficient,
		shared.SkillStealth:   shared.ProficiencyLevelExpertise,
	}

	sheet := engine.ComputeSheet(char, lib)

	// str mod +4, prof +3
	assert.Equal(t, 7, sheet.Skills[shared.SkillAthletics].Bonus)
	// dex mod +2, expertise doubles prof
	assert.Equal(t, 8, sheet.Skills[shared.SkillStealth].Bonus)
	assert.Equal(t, shared.ProficiencyLevelExpertise, sheet.Skills[shared.SkillStealth].Level)

	// half-orc menacing trait grants intimidation
	assert.Equal(t, shared.ProficiencyLevelProficient, sheet.Skills[shared.SkillIntimidation].Level)
}

func TestComputeSheet_DarkvisionPooling(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()

	// racial darkvision is a set 60; a bonus on top is ignored while any
	// set is present
	char.ActiveEffects = []*shared.ActiveEffect{
		{
			ID: "fx-1", Name: "Night Sight", DurationType: shared.DurationTypePermanent,
			EffectModifiers: []shared.Modifier{
				{Type: shared.ModifierBonus, Target: shared.TargetDarkvision, Value: 30},
			},
		},
	}

	sheet := engine.ComputeSheet(char, lib)
	assert.Equal(t, 60, sheet.Darkvision)
}

func TestComputeSheet_SpeedAndInitiative(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()
	char.InitiativeBonus = 1
	char.Feats = []string{"alert", "mobile"}

	sheet := engine.ComputeSheet(char, lib)
	assert.Equal(t, 40, sheet.Speed, "race 30 + mobile 10")
	assert.Equal(t, 8, sheet.Initiative, "dex 2 + manual 1 + alert 5")
}

func TestComputeSheet_SpellSlots(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()
	char.Classes = []*character.ClassEntry{
		{ClassKey: "wizard", Level: 3},
		{ClassKey: "paladin", Level: 2},
	}

	sheet := engine.ComputeSheet(char, lib)
	assert.Equal(t, 4, sheet.SpellSlots.CasterLevel)
	assert.Equal(t, map[int]int{1: 4, 2: 3}, sheet.SpellSlots.Slots)
}

func TestComputeSheet_SubclassCasting(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()
	char.Classes = []*character.ClassEntry{
		{ClassKey: "fighter", Level: 9, SubclassKey: "eldritch-knight"},
	}

	sheet := engine.ComputeSheet(char, lib)
	assert.Equal(t, 3, sheet.SpellSlots.CasterLevel, "third caster, floor(9/3)")
	assert.Equal(t, map[int]int{1: 4, 2: 2}, sheet.SpellSlots.Slots)
}

func TestComputeSheet_UnknownContentDegrades(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()
	char.RaceKey = "modron"
	char.Classes = []*character.ClassEntry{{ClassKey: "mystic", Level: 4}}
	char.Feats = []string{"not-a-feat"}

	sheet := engine.ComputeSheet(char, lib)
	assert.Equal(t, 16, sheet.Abilities[shared.AttributeStrength].Score, "no racial bonus from unknown race")
	assert.Equal(t, 30, sheet.Speed, "default speed when race is unknown")
	assert.Empty(t, sheet.SpellSlots.Slots)
}

func TestResolveProficiencies(t *testing.T) {
	lib := rulebook.NewLibrary()
	lib.AddClass(&rulebook.Class{Key: "knight", Name: "Knight"})

	char := baseFighter()
	char.SkillProficiencies = map[string]shared.ProficiencyLevel{
		shared.SkillAthletics: shared.ProficiencyLevelProficient,
	}
	require.NoError(t, char.AddManualProficiency(&rulebook.Proficiency{
		Key: "smiths-tools", Name: "Smith's Tools", Type: rulebook.ProficiencyTypeTool,
	}))

	profs := engine.ResolveProficiencies(char, lib)

	var smiths *engine.ProficiencyEntry
	for i := range profs[rulebook.ProficiencyTypeTool] {
		if profs[rulebook.ProficiencyTypeTool][i].Key == "smiths_tools" {
			smiths = &profs[rulebook.ProficiencyTypeTool][i]
		}
	}
	require.NotNil(t, smiths)
	assert.Equal(t, engine.OriginManual, smiths.Origin)
	assert.True(t, smiths.Removable)

	// fighter saves come from the class with Class origin
	var strSave *engine.ProficiencyEntry
	for i := range profs[rulebook.ProficiencyTypeSavingThrow] {
		if profs[rulebook.ProficiencyTypeSavingThrow][i].Key == "str" {
			strSave = &profs[rulebook.ProficiencyTypeSavingThrow][i]
		}
	}
	require.NotNil(t, strSave)
	assert.Equal(t, engine.OriginClass, strSave.Origin)
	assert.False(t, strSave.Removable)
}

func TestResolveProficiencies_DerivedWinsOverManual(t *testing.T) {
	lib := rulebook.NewLibrary()
	char := baseFighter()

	// intimidation is granted by the half-orc trait and also toggled
	// manually; the derived entry is the visible one
	char.SkillProficiencies = map[string]shared.ProficiencyLevel{
		shared.SkillIntimidation: shared.ProficiencyLevelProficient,
	}

	profs := engine.ResolveProficiencies(char, lib)

	count := 0
	var visible engine.ProficiencyEntry
	for _, entry := range profs[rulebook.ProficiencyTypeSkill] {
		if entry.Key == shared.SkillIntimidation {
			count++
			visible = entry
		}
	}
	assert.Equal(t, 1, count, "duplicates collapse to one entry")
	assert.NotEqual(t, engine.OriginManual, visible.Origin)
}
