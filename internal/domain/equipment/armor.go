package equipment

import "github.com/ironrations/charsheet/internal/domain/shared"

type ArmorCategory string

const (
	ArmorCategoryLight   ArmorCategory = "light"
	ArmorCategoryMedium  ArmorCategory = "medium"
	ArmorCategoryHeavy   ArmorCategory = "heavy"
	ArmorCategoryShield  ArmorCategory = "shield"
	ArmorCategoryUnknown ArmorCategory = ""
)

// ArmorClass describes how a piece of armor contributes to AC: a base value,
// whether the wearer's dex modifier applies, and the cap on that modifier
// (zero MaxBonus with DexBonus set means uncapped).
type ArmorClass struct {
	Base     int  `json:"armor_class"`
	DexBonus bool `json:"dex_bonus"`
	MaxBonus int  `json:"max_bonus"`
}

type Armor struct {
	Base                BasicEquipment `json:"base"`
	ArmorCategory       ArmorCategory  `json:"armor_category"`
	ArmorClass          *ArmorClass    `json:"armor_class"`
	StrMin              int            `json:"str_minimum"`
	StealthDisadvantage bool           `json:"stealth_disadvantage"`
}

func (e *Armor) GetEquipmentType() EquipmentType {
	return EquipmentTypeArmor
}

func (e *Armor) GetName() string {
	return e.Base.Name
}

func (e *Armor) GetKey() string {
	return e.Base.Key
}

func (e *Armor) GetSlot() shared.Slot {
	if e.ArmorCategory == ArmorCategoryShield {
		return shared.SlotOffHand
	}

	return shared.SlotBody
}

func (e *Armor) GetModifiers() []shared.Modifier {
	return e.Base.ItemModifiers
}

func (e *Armor) NeedsAttunement() bool {
	return e.Base.RequiresAttunement
}
