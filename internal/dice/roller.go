package dice

// Roller provides an interface for rolling dice.
// This allows us to inject deterministic implementations for testing.
type Roller interface {
	// Roll rolls a number of dice with the given sides and adds a bonus
	Roll(count, sides, bonus int) (*RollResult, error)
}
