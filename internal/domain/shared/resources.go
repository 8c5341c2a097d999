package shared

// HPResource tracks hit points and temporary HP
type HPResource struct {
	Current   int `json:"current"`
	Max       int `json:"max"`
	Temporary int `json:"temporary"`
}

// Damage applies damage, using temp HP first. Current HP floors at zero.
// Returns the total damage dealt.
func (hp *HPResource) Damage(amount int) int {
	if amount <= 0 {
		return 0
	}

	originalAmount := amount

	if hp.Temporary > 0 {
		if hp.Temporary >= amount {
			hp.Temporary -= amount
			return originalAmount
		}
		amount -= hp.Temporary
		hp.Temporary = 0
	}

	hp.Current -= amount
	if hp.Current < 0 {
		hp.Current = 0
	}

	return originalAmount
}

// Heal restores hit points up to max and returns the amount actually healed
func (hp *HPResource) Heal(amount int) int {
	if amount <= 0 || hp.Current >= hp.Max {
		return 0
	}

	oldHP := hp.Current
	hp.Current += amount
	if hp.Current > hp.Max {
		hp.Current = hp.Max
	}

	return hp.Current - oldHP
}

// AddTemporaryHP adds temporary hit points (doesn't stack, highest wins)
func (hp *HPResource) AddTemporaryHP(amount int) {
	if amount > hp.Temporary {
		hp.Temporary = amount
	}
}

// SpellSlotInfo tracks spell slots at a specific level
type SpellSlotInfo struct {
	Max       int    `json:"max"`
	Remaining int    `json:"remaining"`
	Source    string `json:"source"` // "spellcasting" or "pact_magic"
}

// Spell slot sources. Pact magic recovers on short rest, standard
// spellcasting slots on long rest.
const (
	SlotSourceSpellcasting = "spellcasting"
	SlotSourcePactMagic    = "pact_magic"
)

// HitDiceResource tracks one class's hit dice pool for short-rest healing
type HitDiceResource struct {
	DiceType  int `json:"dice_type"` // d6, d8, d10, d12
	Max       int `json:"max"`       // equals the class level
	Remaining int `json:"remaining"`
}

// DeathSaves tracks death saving throw results while dying
type DeathSaves struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// Reset clears both counters, used when the character regains hit points
func (d *DeathSaves) Reset() {
	d.Successes = 0
	d.Failures = 0
}

// RestType distinguishes short and long rests
type RestType string

const (
	RestTypeShort RestType = "short"
	RestTypeLong  RestType = "long"
)
