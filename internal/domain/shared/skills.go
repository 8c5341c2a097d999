package shared

import "strings"

// Skill keys use lower snake case ("animal_handling"). NormalizeKey folds the
// other spellings content sources use (spaces, hyphens, mixed case) into that
// canonical form so matching happens in exactly one place.
const (
	SkillAcrobatics     = "acrobatics"
	SkillAnimalHandling = "animal_handling"
	SkillArcana         = "arcana"
	SkillAthletics      = "athletics"
	SkillDeception      = "deception"
	SkillHistory        = "history"
	SkillInsight        = "insight"
	SkillIntimidation   = "intimidation"
	SkillInvestigation  = "investigation"
	SkillMedicine       = "medicine"
	SkillNature         = "nature"
	SkillPerception     = "perception"
	SkillPerformance    = "performance"
	SkillPersuasion     = "persuasion"
	SkillReligion       = "religion"
	SkillSleightOfHand  = "sleight_of_hand"
	SkillStealth        = "stealth"
	SkillSurvival       = "survival"
)

// SkillAbilities maps each skill to its governing ability
var SkillAbilities = map[string]Attribute{
	SkillAcrobatics:     AttributeDexterity,
	SkillAnimalHandling: AttributeWisdom,
	SkillArcana:         AttributeIntelligence,
	SkillAthletics:      AttributeStrength,
	SkillDeception:      AttributeCharisma,
	SkillHistory:        AttributeIntelligence,
	SkillInsight:        AttributeWisdom,
	SkillIntimidation:   AttributeCharisma,
	SkillInvestigation:  AttributeIntelligence,
	SkillMedicine:       AttributeWisdom,
	SkillNature:         AttributeIntelligence,
	SkillPerception:     AttributeWisdom,
	SkillPerformance:    AttributeCharisma,
	SkillPersuasion:     AttributeCharisma,
	SkillReligion:       AttributeIntelligence,
	SkillSleightOfHand:  AttributeDexterity,
	SkillStealth:        AttributeDexterity,
	SkillSurvival:       AttributeWisdom,
}

// SkillKeys lists all skills in display order
var SkillKeys = []string{
	SkillAcrobatics,
	SkillAnimalHandling,
	SkillArcana,
	SkillAthletics,
	SkillDeception,
	SkillHistory,
	SkillInsight,
	SkillIntimidation,
	SkillInvestigation,
	SkillMedicine,
	SkillNature,
	SkillPerception,
	SkillPerformance,
	SkillPersuasion,
	SkillReligion,
	SkillSleightOfHand,
	SkillStealth,
	SkillSurvival,
}

// NormalizeKey folds a target or skill key into canonical lower snake case
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

// ProficiencyLevel is the tier of a manually toggled skill proficiency
type ProficiencyLevel string

const (
	ProficiencyLevelNone       ProficiencyLevel = "none"
	ProficiencyLevelProficient ProficiencyLevel = "proficient"
	ProficiencyLevelExpertise  ProficiencyLevel = "expertise"
)
