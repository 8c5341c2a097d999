package character

import (
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/dice"
	"github.com/ironrations/charsheet/internal/domain/shared"
)

// ApplyDamage deducts hit points, temp HP first. Dropping to zero moves an
// active character to dying; damage while dying marks a death save failure.
func (c *Character) ApplyDamage(amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if amount <= 0 {
		return
	}

	if c.Status == shared.CharacterStatusDying {
		c.DeathSaves.Failures++
		if c.DeathSaves.Failures >= 3 {
			c.Status = shared.CharacterStatusDead
		}
		return
	}

	c.HP.Damage(amount)

	if c.HP.Current == 0 && c.Status == shared.CharacterStatusActive {
		c.Status = shared.CharacterStatusDying
		c.DeathSaves.Reset()
	}
}

// ApplyHeal restores hit points. Any healing brings a dying character back
// to active and clears its death saves.
func (c *Character) ApplyHeal(amount int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if amount <= 0 || c.Status == shared.CharacterStatusDead {
		return 0
	}

	healed := c.HP.Heal(amount)
	if c.HP.Current > 0 && c.Status == shared.CharacterStatusDying {
		c.Status = shared.CharacterStatusActive
		c.DeathSaves.Reset()
	}

	return healed
}

// GrantTemporaryHP adds temporary hit points, highest grant wins
func (c *Character) GrantTemporaryHP(amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.HP.AddTemporaryHP(amount)
}

// RecordDeathSave marks one death saving throw result. Three successes
// stabilize at zero HP; three failures kill.
func (c *Character) RecordDeathSave(success bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Status != shared.CharacterStatusDying {
		return internalerrors.FailedPrecondition("character is not dying")
	}

	if success {
		c.DeathSaves.Successes++
		if c.DeathSaves.Successes >= 3 {
			c.Status = shared.CharacterStatusActive
			c.DeathSaves.Reset()
		}
		return nil
	}

	c.DeathSaves.Failures++
	if c.DeathSaves.Failures >= 3 {
		c.Status = shared.CharacterStatusDead
	}
	return nil
}

// UseHitDie spends one hit die from the class's pool and heals the rolled
// amount plus the given constitution modifier (minimum 1 per die).
func (c *Character) UseHitDie(classKey string, conMod int, roller dice.Roller) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pool, ok := c.HitDice[classKey]
	if !ok {
		return 0, internalerrors.NotFoundf("no hit dice for class %s", classKey)
	}
	if pool.Remaining <= 0 {
		return 0, internalerrors.FailedPreconditionf("no hit dice remaining for class %s", classKey)
	}

	result, err := roller.Roll(1, pool.DiceType, 0)
	if err != nil {
		return 0, internalerrors.Wrap(err, "rolling hit die")
	}

	pool.Remaining--

	healed := result.Total + conMod
	if healed < 1 {
		healed = 1
	}
	return c.HP.Heal(healed), nil
}

// UseSpellSlot expends one slot. Pact slots and standard slots are separate
// pools; max counts come from the computed slot layout the caller holds.
func (c *Character) UseSpellSlot(level, maxSlots int, pact bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pact {
		if c.PactSlotsUsed >= maxSlots {
			return internalerrors.FailedPrecondition("no pact slots remaining")
		}
		c.PactSlotsUsed++
		return nil
	}

	if c.SpellSlotsUsed == nil {
		c.SpellSlotsUsed = make(map[int]int)
	}
	if c.SpellSlotsUsed[level] >= maxSlots {
		return internalerrors.FailedPreconditionf("no level %d slots remaining", level)
	}
	c.SpellSlotsUsed[level]++
	return nil
}

// ShortRest recovers pact magic slots and ticks rest-bound effect durations
func (c *Character) ShortRest() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.PactSlotsUsed = 0
	c.expireEffects(shared.DurationTypeUntilRest)
}

// LongRest restores hit points to max, clears temp HP and death saves,
// recovers half the hit dice (minimum one die), reduces exhaustion by one,
// and expires rest-bound effects.
func (c *Character) LongRest() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Status == shared.CharacterStatusDead {
		return
	}

	c.HP.Current = c.HP.Max
	c.HP.Temporary = 0
	c.DeathSaves.Reset()
	if c.Status == shared.CharacterStatusDying {
		c.Status = shared.CharacterStatusActive
	}

	for _, pool := range c.HitDice {
		recovered := pool.Max / 2
		if recovered < 1 {
			recovered = 1
		}
		pool.Remaining += recovered
		if pool.Remaining > pool.Max {
			pool.Remaining = pool.Max
		}
	}

	c.SpellSlotsUsed = nil
	c.PactSlotsUsed = 0

	if c.Exhaustion > 0 {
		c.Exhaustion--
	}

	c.expireEffects(shared.DurationTypeUntilRest)
}

// AddExhaustion raises the exhaustion level; level 6 kills
func (c *Character) AddExhaustion(levels int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if levels <= 0 {
		return
	}

	c.Exhaustion += levels
	if c.Exhaustion >= shared.MaxExhaustionLevel {
		c.Exhaustion = shared.MaxExhaustionLevel
		c.Status = shared.CharacterStatusDead
	}
}

// SetInspiration toggles the inspiration flag
func (c *Character) SetInspiration(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Inspiration = on
}

// ToggleCondition adds the condition when absent and removes it when present.
// Returns true when the condition is active after the call.
func (c *Character) ToggleCondition(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, cond := range c.Conditions {
		if cond == name {
			c.Conditions = append(c.Conditions[:i], c.Conditions[i+1:]...)
			return false
		}
	}

	c.Conditions = append(c.Conditions, name)
	return true
}

// AttachEffect adds an active effect as a modifier source
func (c *Character) AttachEffect(effect *shared.ActiveEffect) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ActiveEffects = append(c.ActiveEffects, effect)
}

// RemoveEffect detaches an active effect by id. Returns false when absent.
func (c *Character) RemoveEffect(effectID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, effect := range c.ActiveEffects {
		if effect.ID == effectID {
			c.ActiveEffects = append(c.ActiveEffects[:i], c.ActiveEffects[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Character) expireEffects(durations ...shared.DurationType) {
	kept := c.ActiveEffects[:0]
	for _, effect := range c.ActiveEffects {
		expired := false
		for _, d := range durations {
			if effect.DurationType == d {
				expired = true
				break
			}
		}
		if !expired {
			kept = append(kept, effect)
		}
	}
	c.ActiveEffects = kept
}
