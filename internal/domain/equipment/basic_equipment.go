package equipment

import "github.com/ironrations/charsheet/internal/domain/shared"

// BasicEquipment is the common base of every item plus the catch-all type
// for gear that is neither armor nor weapon (rings, cloaks, wondrous items).
type BasicEquipment struct {
	Key                string            `json:"key"`
	Name               string            `json:"name"`
	Weight             int               `json:"weight,omitempty"`
	ItemModifiers      []shared.Modifier `json:"modifiers,omitempty"`
	RequiresAttunement bool              `json:"requires_attunement,omitempty"`
}

func (e *BasicEquipment) GetEquipmentType() EquipmentType {
	return EquipmentTypeOther
}

func (e *BasicEquipment) GetName() string {
	return e.Name
}

func (e *BasicEquipment) GetKey() string {
	return e.Key
}

func (e *BasicEquipment) GetSlot() shared.Slot {
	return shared.SlotNone
}

func (e *BasicEquipment) GetModifiers() []shared.Modifier {
	return e.ItemModifiers
}

func (e *BasicEquipment) NeedsAttunement() bool {
	return e.RequiresAttunement
}
