package equipment

import "github.com/ironrations/charsheet/internal/domain/shared"

type EquipmentType string

const (
	EquipmentTypeArmor   EquipmentType = "armor"
	EquipmentTypeWeapon  EquipmentType = "weapon"
	EquipmentTypeOther   EquipmentType = "other"
	EquipmentTypeUnknown EquipmentType = ""
)

// Equipment is anything a character can carry and equip. Items contribute to
// the sheet through their modifiers; magic items gate those modifiers behind
// attunement.
type Equipment interface {
	GetEquipmentType() EquipmentType
	GetName() string
	GetKey() string
	GetSlot() shared.Slot
	GetModifiers() []shared.Modifier
	NeedsAttunement() bool
}
