package dnd5e

import (
	"log"
	"strconv"
	"strings"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	apiEntities "github.com/fadedpez/dnd5e-api/entities"

	"github.com/ironrations/charsheet/internal/domain/equipment"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
)

func apiReferenceItemToClass(input *apiEntities.ReferenceItem) *rulebook.Class {
	return &rulebook.Class{
		Key:  input.Key,
		Name: input.Name,
	}
}

func apiReferenceItemsToClasses(input []*apiEntities.ReferenceItem) []*rulebook.Class {
	output := make([]*rulebook.Class, len(input))
	for i, apiClass := range input {
		output[i] = apiReferenceItemToClass(apiClass)
	}
	return output
}

func apiClassToClass(input *apiEntities.Class) *rulebook.Class {
	return &rulebook.Class{
		Key:    input.Key,
		Name:   input.Name,
		HitDie: input.HitDie,
	}
}

func apiReferenceItemToRace(input *apiEntities.ReferenceItem) *rulebook.Race {
	return &rulebook.Race{
		Key:  input.Key,
		Name: input.Name,
	}
}

func apiReferenceItemsToRaces(input []*apiEntities.ReferenceItem) []*rulebook.Race {
	output := make([]*rulebook.Race, len(input))
	for i, apiRace := range input {
		output[i] = apiReferenceItemToRace(apiRace)
	}
	return output
}

// apiRaceToRace converts a race, expressing its ability bonuses as a trait
// carrying bonus modifiers so they flow through the aggregator like every
// other source.
func apiRaceToRace(input *apiEntities.Race) *rulebook.Race {
	race := &rulebook.Race{
		Key:   input.Key,
		Name:  input.Name,
		Speed: input.Speed,
	}

	var mods []shared.Modifier
	for _, bonus := range input.AbilityBonuses {
		if bonus == nil || bonus.AbilityScore == nil {
			continue
		}
		attr := shared.ParseAttribute(bonus.AbilityScore.Key)
		if attr == shared.AttributeNone {
			log.Printf("skipping unknown ability %q on race %s", bonus.AbilityScore.Key, input.Key)
			continue
		}
		mods = append(mods, shared.Modifier{
			Type:   shared.ModifierBonus,
			Target: string(attr),
			Value:  bonus.Bonus,
		})
	}

	if len(mods) > 0 {
		race.Traits = append(race.Traits, &rulebook.Trait{
			Key:            input.Key + "-ability-bonuses",
			Name:           input.Name + " Ability Bonuses",
			TraitModifiers: mods,
		})
	}

	return race
}

func apiProficiencyToProficiency(input *apiEntities.Proficiency) *rulebook.Proficiency {
	return &rulebook.Proficiency{
		Key:  input.Key,
		Name: input.Name,
		Type: apiProficiencyTypeToProficiencyType(input.Type),
	}
}

func apiProficiencyTypeToProficiencyType(input apiEntities.ProficiencyType) rulebook.ProficiencyType {
	switch input {
	case apiEntities.ProficiencyTypeArmor:
		return rulebook.ProficiencyTypeArmor
	case apiEntities.ProficiencyTypeWeapon:
		return rulebook.ProficiencyTypeWeapon
	case apiEntities.ProficiencyTypeTool:
		return rulebook.ProficiencyTypeTool
	case apiEntities.ProficiencyTypeSavingThrow:
		return rulebook.ProficiencyTypeSavingThrow
	case apiEntities.ProficiencyTypeSkill:
		return rulebook.ProficiencyTypeSkill
	case apiEntities.ProficiencyTypeInstrument:
		return rulebook.ProficiencyTypeInstrument
	default:
		return rulebook.ProficiencyTypeUnknown
	}
}

func apiEquipmentInterfaceToEquipment(input dnd5e.EquipmentInterface) equipment.Equipment {
	if input == nil {
		return nil
	}

	switch equip := input.(type) {
	case *apiEntities.Equipment:
		return apiEquipmentToEquipment(equip)
	case *apiEntities.Weapon:
		return apiWeaponToWeapon(equip)
	case *apiEntities.Armor:
		return apiArmorToArmor(equip)
	default:
		return nil
	}
}

func apiWeaponToWeapon(input *apiEntities.Weapon) *equipment.Weapon {
	weapon := &equipment.Weapon{
		Base: equipment.BasicEquipment{
			Key:    input.Key,
			Name:   input.Name,
			Weight: int(input.Weight),
		},
		WeaponCategory: input.WeaponCategory,
		WeaponRange:    input.WeaponRange,
		Damage:         apiDamageToDamage(input.Damage),
	}

	for _, prop := range input.Properties {
		if prop != nil {
			weapon.Properties = append(weapon.Properties, prop.Key)
		}
	}

	return weapon
}

func apiDamageToDamage(input *apiEntities.Damage) *equipment.Damage {
	if input == nil {
		return nil
	}

	diceParts := strings.Split(input.DamageDice, "d")
	if len(diceParts) != 2 {
		log.Printf("unknown dice format %s", input.DamageDice)
		return nil
	}

	diceCount, err := strconv.Atoi(diceParts[0])
	if err != nil {
		log.Printf("unknown dice format %s", input.DamageDice)
		return nil
	}

	diceSize, err := strconv.Atoi(diceParts[1])
	if err != nil {
		log.Printf("unknown dice format %s", input.DamageDice)
		return nil
	}

	damage := &equipment.Damage{
		DiceCount: diceCount,
		DiceSize:  diceSize,
	}
	if input.DamageType != nil {
		damage.Type = input.DamageType.Key
	}

	return damage
}

func apiArmorToArmor(input *apiEntities.Armor) *equipment.Armor {
	var category equipment.ArmorCategory
	switch strings.ToLower(input.ArmorCategory) {
	case "light":
		category = equipment.ArmorCategoryLight
	case "medium":
		category = equipment.ArmorCategoryMedium
	case "heavy":
		category = equipment.ArmorCategoryHeavy
	case "shield":
		category = equipment.ArmorCategoryShield
	default:
		category = equipment.ArmorCategoryUnknown
	}

	armor := &equipment.Armor{
		Base: equipment.BasicEquipment{
			Key:    input.Key,
			Name:   input.Name,
			Weight: int(input.Weight),
		},
		ArmorCategory:       category,
		StealthDisadvantage: input.StealthDisadvantage,
	}

	if input.ArmorClass != nil {
		armor.ArmorClass = &equipment.ArmorClass{
			Base:     input.ArmorClass.Base,
			DexBonus: input.ArmorClass.DexBonus,
		}
		// the API does not expose the medium-armor dex cap
		if category == equipment.ArmorCategoryMedium {
			armor.ArmorClass.MaxBonus = 2
		}
	}

	return armor
}

func apiEquipmentToEquipment(input *apiEntities.Equipment) *equipment.BasicEquipment {
	return &equipment.BasicEquipment{
		Key:    input.Key,
		Name:   input.Name,
		Weight: int(input.Weight),
	}
}
