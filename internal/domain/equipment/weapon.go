package equipment

import "github.com/ironrations/charsheet/internal/domain/shared"

// Damage is a weapon's damage roll
type Damage struct {
	DiceCount int    `json:"dice_count"`
	DiceSize  int    `json:"dice_size"`
	Bonus     int    `json:"bonus"`
	Type      string `json:"type"`
}

type Weapon struct {
	Base            BasicEquipment `json:"base"`
	Damage          *Damage        `json:"damage"`
	Range           int            `json:"range"`
	WeaponCategory  string         `json:"weapon_category"`
	WeaponRange     string         `json:"weapon_range"`
	Properties      []string       `json:"properties"`
	TwoHandedDamage *Damage        `json:"two_handed_damage,omitempty"`
}

func (w *Weapon) IsRanged() bool {
	return w.WeaponRange == "Ranged"
}

func (w *Weapon) IsMelee() bool {
	return w.WeaponRange == "Melee"
}

func (w *Weapon) IsSimple() bool {
	return w.WeaponCategory == "Simple"
}

func (w *Weapon) IsTwoHanded() bool {
	return w.HasProperty("two-handed")
}

func (w *Weapon) IsFinesse() bool {
	return w.HasProperty("finesse")
}

// HasProperty checks if the weapon has a specific property
func (w *Weapon) HasProperty(prop string) bool {
	for _, p := range w.Properties {
		if p == prop {
			return true
		}
	}

	return false
}

func (w *Weapon) GetEquipmentType() EquipmentType {
	return EquipmentTypeWeapon
}

func (w *Weapon) GetName() string {
	return w.Base.Name
}

func (w *Weapon) GetKey() string {
	return w.Base.Key
}

func (w *Weapon) GetSlot() shared.Slot {
	if w.IsTwoHanded() {
		return shared.SlotTwoHanded
	}

	return shared.SlotMainHand
}

func (w *Weapon) GetModifiers() []shared.Modifier {
	return w.Base.ItemModifiers
}

func (w *Weapon) NeedsAttunement() bool {
	return w.Base.RequiresAttunement
}
