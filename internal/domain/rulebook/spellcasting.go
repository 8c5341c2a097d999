package rulebook

// SpellcastingType determines how a class's levels count toward the combined
// caster level when multiclassing.
type SpellcastingType string

const (
	SpellcastingFull      SpellcastingType = "full"
	SpellcastingHalf      SpellcastingType = "half"
	SpellcastingArtificer SpellcastingType = "artificer"
	SpellcastingThird     SpellcastingType = "third"
	SpellcastingPact      SpellcastingType = "pact"
	SpellcastingNone      SpellcastingType = "none"
)

// CasterEntry is one class's contribution to spellcasting: its resolved
// casting type (subclass override already applied) and its class level.
type CasterEntry struct {
	Type  SpellcastingType
	Level int
}

// PactMagicSlots is the warlock's independent slot pool. It never merges
// with the standard slot table and recovers on short rest.
type PactMagicSlots struct {
	WarlockLevel int `json:"warlock_level"`
	SlotLevel    int `json:"slot_level"`
	Count        int `json:"count"`
}

// SpellSlotConfig is the computed slot layout for a character
type SpellSlotConfig struct {
	// CasterLevel is the effective caster level used to index the
	// multiclass table
	CasterLevel int `json:"caster_level"`

	// Slots maps spell level (1-9) to slot count; empty when the character
	// has no standard spellcasting.
	Slots map[int]int `json:"slots"`

	// PactMagic is nil unless the character has pact-typed levels
	PactMagic *PactMagicSlots `json:"pact_magic,omitempty"`
}

// multiclassSlots is the standard multiclass spellcaster table: combined
// caster level 1-20 to slots per spell level 1-9.
var multiclassSlots = map[int][]int{
	1:  {2},
	2:  {3},
	3:  {4, 2},
	4:  {4, 3},
	5:  {4, 3, 2},
	6:  {4, 3, 3},
	7:  {4, 3, 3, 1},
	8:  {4, 3, 3, 2},
	9:  {4, 3, 3, 3, 1},
	10: {4, 3, 3, 3, 2},
	11: {4, 3, 3, 3, 2, 1},
	12: {4, 3, 3, 3, 2, 1},
	13: {4, 3, 3, 3, 2, 1, 1},
	14: {4, 3, 3, 3, 2, 1, 1},
	15: {4, 3, 3, 3, 2, 1, 1, 1},
	16: {4, 3, 3, 3, 2, 1, 1, 1},
	17: {4, 3, 3, 3, 2, 1, 1, 1, 1},
	18: {4, 3, 3, 3, 3, 1, 1, 1, 1},
	19: {4, 3, 3, 3, 3, 2, 1, 1, 1},
	20: {4, 3, 3, 3, 3, 2, 2, 1, 1},
}

// pactMagic is the warlock table: class level to slot count and slot level
var pactMagic = map[int]PactMagicSlots{
	1:  {SlotLevel: 1, Count: 1},
	2:  {SlotLevel: 1, Count: 2},
	3:  {SlotLevel: 2, Count: 2},
	4:  {SlotLevel: 2, Count: 2},
	5:  {SlotLevel: 3, Count: 2},
	6:  {SlotLevel: 3, Count: 2},
	7:  {SlotLevel: 4, Count: 2},
	8:  {SlotLevel: 4, Count: 2},
	9:  {SlotLevel: 5, Count: 2},
	10: {SlotLevel: 5, Count: 2},
	11: {SlotLevel: 5, Count: 3},
	12: {SlotLevel: 5, Count: 3},
	13: {SlotLevel: 5, Count: 3},
	14: {SlotLevel: 5, Count: 3},
	15: {SlotLevel: 5, Count: 3},
	16: {SlotLevel: 5, Count: 3},
	17: {SlotLevel: 5, Count: 4},
	18: {SlotLevel: 5, Count: 4},
	19: {SlotLevel: 5, Count: 4},
	20: {SlotLevel: 5, Count: 4},
}

// CasterLevel accumulates the effective caster level across class entries.
// Full casters contribute their whole level, half casters floor(level/2),
// artificers ceil(level/2), third casters floor(level/3). Pact levels are
// excluded; they feed the separate pact pool.
func CasterLevel(entries []CasterEntry) int {
	total := 0
	for _, entry := range entries {
		if entry.Level <= 0 {
			continue
		}
		switch entry.Type {
		case SpellcastingFull:
			total += entry.Level
		case SpellcastingHalf:
			total += entry.Level / 2
		case SpellcastingArtificer:
			total += (entry.Level + 1) / 2
		case SpellcastingThird:
			total += entry.Level / 3
		}
	}

	if total < 0 {
		total = 0
	}
	if total > MaxLevel {
		total = MaxLevel
	}
	return total
}

// CalculateSpellSlots computes the full slot configuration for a set of
// class entries. The standard slot table and the pact pool are independent:
// pact levels never raise the caster level and standard levels never raise
// the pact pool.
func CalculateSpellSlots(entries []CasterEntry) SpellSlotConfig {
	cfg := SpellSlotConfig{
		CasterLevel: CasterLevel(entries),
		Slots:       make(map[int]int),
	}

	if row, ok := multiclassSlots[cfg.CasterLevel]; ok {
		for i, count := range row {
			if count > 0 {
				cfg.Slots[i+1] = count
			}
		}
	}

	warlockLevel := 0
	for _, entry := range entries {
		if entry.Type == SpellcastingPact && entry.Level > 0 {
			warlockLevel += entry.Level
		}
	}
	if warlockLevel > MaxLevel {
		warlockLevel = MaxLevel
	}

	if warlockLevel > 0 {
		slots := pactMagic[warlockLevel]
		slots.WarlockLevel = warlockLevel
		cfg.PactMagic = &slots
	}

	return cfg
}
