package character

import (
	internalerrors "github.com/ironrations/charsheet/internal/errors"
	"github.com/ironrations/charsheet/internal/domain/rulebook"
	"github.com/ironrations/charsheet/internal/domain/shared"
)

// SetSkillProficiency sets the explicit toggle for a skill. The key is
// normalized; unknown skills are rejected.
func (c *Character) SetSkillProficiency(skill string, level shared.ProficiencyLevel) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := shared.NormalizeKey(skill)
	if _, ok := shared.SkillAbilities[key]; !ok {
		return internalerrors.InvalidArgumentf("unknown skill %q", skill)
	}

	if c.SkillProficiencies == nil {
		c.SkillProficiencies = make(map[string]shared.ProficiencyLevel)
	}

	if level == shared.ProficiencyLevelNone {
		delete(c.SkillProficiencies, key)
		return nil
	}

	c.SkillProficiencies[key] = level
	return nil
}

// SetSaveProficiency toggles a manual saving-throw proficiency
func (c *Character) SetSaveProficiency(attr shared.Attribute, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.SaveProficiencies == nil {
		c.SaveProficiencies = make(map[shared.Attribute]bool)
	}

	if on {
		c.SaveProficiencies[attr] = true
		return
	}
	delete(c.SaveProficiencies, attr)
}

// AddManualProficiency records a user-added proficiency entry. Duplicate keys
// within a type are rejected.
func (c *Character) AddManualProficiency(prof *rulebook.Proficiency) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prof == nil || prof.Key == "" {
		return internalerrors.InvalidArgument("proficiency key is required")
	}

	if c.ManualProficiencies == nil {
		c.ManualProficiencies = make(map[rulebook.ProficiencyType][]*rulebook.Proficiency)
	}

	for _, existing := range c.ManualProficiencies[prof.Type] {
		if existing.Key == prof.Key {
			return internalerrors.AlreadyExists("proficiency " + prof.Key + " is already added")
		}
	}

	c.ManualProficiencies[prof.Type] = append(c.ManualProficiencies[prof.Type], prof)
	return nil
}

// RemoveManualProficiency removes a user-added entry. Entries derived from
// class, race, or items are not stored here and cannot be removed.
func (c *Character) RemoveManualProficiency(profType rulebook.ProficiencyType, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	profs := c.ManualProficiencies[profType]
	for i, prof := range profs {
		if prof.Key == key {
			c.ManualProficiencies[profType] = append(profs[:i], profs[i+1:]...)
			return nil
		}
	}

	return internalerrors.NotFoundf("no manual %s proficiency %s", profType, key)
}

// AddLanguage records a known language, skipping duplicates
func (c *Character) AddLanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, known := range c.Languages {
		if known == lang {
			return
		}
	}
	c.Languages = append(c.Languages, lang)
}
