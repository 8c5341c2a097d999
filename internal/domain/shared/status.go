package shared

// CharacterStatus is the lifecycle state of a character record
type CharacterStatus string

const (
	CharacterStatusDraft    CharacterStatus = "draft"
	CharacterStatusActive   CharacterStatus = "active"
	CharacterStatusDying    CharacterStatus = "dying"
	CharacterStatusDead     CharacterStatus = "dead"
	CharacterStatusArchived CharacterStatus = "archived"
)

// MaxExhaustionLevel is the highest exhaustion level; level 6 is death
const MaxExhaustionLevel = 6

// Slot is an equipment slot on the body
type Slot string

const (
	SlotMainHand  Slot = "main-hand"
	SlotOffHand   Slot = "off-hand"
	SlotTwoHanded Slot = "two-handed"
	SlotBody      Slot = "body"
	SlotNone      Slot = "none"
)
