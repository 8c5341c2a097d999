package character

import (
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/domain/shared"
)

// GrantAbilityPoints adds points to the pool. Non-positive grants are ignored.
func (c *Character) GrantAbilityPoints(points int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if points > 0 {
		c.AbilityPoints += points
	}
}

// SpendAbilityPoints validates and applies a full-pool allocation. The
// distribution must spend the entire balance in one transaction and no base
// score may end above the cap. Any failure leaves pool and scores untouched.
func (c *Character) SpendAbilityPoints(distribution map[shared.Attribute]int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AbilityPoints <= 0 {
		return internalerrors.FailedPrecondition("no ability points to spend")
	}

	total := 0
	for attr, amount := range distribution {
		if amount < 0 {
			return internalerrors.Validationf("negative allocation for %s", attr)
		}
		if _, ok := c.Attributes[attr]; !ok {
			return internalerrors.Validationf("unknown ability %q", attr)
		}
		total += amount
	}

	if total != c.AbilityPoints {
		return internalerrors.Validationf("allocation spends %d of %d points; the full balance must be spent", total, c.AbilityPoints)
	}

	for attr, amount := range distribution {
		if c.Attributes[attr]+amount > shared.AbilityScoreCap {
			return internalerrors.Validationf("%s would exceed %d", attr.Name(), shared.AbilityScoreCap)
		}
	}

	for attr, amount := range distribution {
		c.Attributes[attr] += amount
	}
	c.AbilityPoints = 0

	return nil
}
