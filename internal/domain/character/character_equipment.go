package character

import (
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/domain/equipment"
	"github.com/ironrations/charsheet/internal/domain/shared"
)

// MaxAttunedItems caps how many items can be attuned at once
const MaxAttunedItems = 3

// AddToInventory puts an item into the character's inventory
func (c *Character) AddToInventory(item equipment.Equipment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Inventory = append(c.Inventory, item)
}

// InventoryItem finds an item in the inventory by key
func (c *Character) InventoryItem(key string) equipment.Equipment {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.findInventoryItem(key)
}

func (c *Character) findInventoryItem(key string) equipment.Equipment {
	for _, item := range c.Inventory {
		if item.GetKey() == key {
			return item
		}
	}
	return nil
}

// Equip places an inventory item into its slot, displacing whatever occupies
// it. A two-handed weapon clears both hands; equipping into either hand
// clears a held two-handed weapon.
func (c *Character) Equip(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := c.findInventoryItem(key)
	if item == nil {
		return internalerrors.NotFoundf("item %s is not in the inventory", key)
	}

	if c.EquippedSlots == nil {
		c.EquippedSlots = make(map[shared.Slot]equipment.Equipment)
	}

	slot := item.GetSlot()
	switch slot {
	case shared.SlotTwoHanded:
		delete(c.EquippedSlots, shared.SlotMainHand)
		delete(c.EquippedSlots, shared.SlotOffHand)
	case shared.SlotMainHand, shared.SlotOffHand:
		delete(c.EquippedSlots, shared.SlotTwoHanded)
	}

	c.EquippedSlots[slot] = item
	return nil
}

// Unequip clears a slot. Attunement survives unequipping; it ends only
// through EndAttunement.
func (c *Character) Unequip(slot shared.Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.EquippedSlots, slot)
}

// EquippedIn returns the item in a slot, if any
func (c *Character) EquippedIn(slot shared.Slot) equipment.Equipment {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.EquippedSlots[slot]
}

// Attune marks an owned item as attuned. The item must require attunement
// and the attunement limit applies.
func (c *Character) Attune(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := c.findInventoryItem(key)
	if item == nil {
		return internalerrors.NotFoundf("item %s is not in the inventory", key)
	}
	if !item.NeedsAttunement() {
		return internalerrors.InvalidArgumentf("item %s does not require attunement", key)
	}

	if c.Attuned == nil {
		c.Attuned = make(map[string]bool)
	}
	if c.Attuned[key] {
		return nil
	}

	count := 0
	for _, on := range c.Attuned {
		if on {
			count++
		}
	}
	if count >= MaxAttunedItems {
		return internalerrors.FailedPreconditionf("already attuned to %d items", MaxAttunedItems)
	}

	c.Attuned[key] = true
	return nil
}

// EndAttunement breaks attunement with an item
func (c *Character) EndAttunement(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.Attuned, key)
}
