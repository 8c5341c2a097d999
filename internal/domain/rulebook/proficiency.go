package rulebook

// ProficiencyType categorizes a proficiency entry
type ProficiencyType string

const (
	ProficiencyTypeArmor       ProficiencyType = "Armor"
	ProficiencyTypeWeapon      ProficiencyType = "Weapons"
	ProficiencyTypeTool        ProficiencyType = "Tools"
	ProficiencyTypeSavingThrow ProficiencyType = "Saving-Throws"
	ProficiencyTypeSkill       ProficiencyType = "Skills"
	ProficiencyTypeLanguage    ProficiencyType = "Languages"
	ProficiencyTypeInstrument  ProficiencyType = "Instruments"
	ProficiencyTypeUnknown     ProficiencyType = "Unknown"
)

// ProficiencyTypes lists categories in display order
var ProficiencyTypes = []ProficiencyType{
	ProficiencyTypeArmor,
	ProficiencyTypeWeapon,
	ProficiencyTypeTool,
	ProficiencyTypeSavingThrow,
	ProficiencyTypeSkill,
	ProficiencyTypeLanguage,
	ProficiencyTypeInstrument,
}

// Proficiency is one granted proficiency entry
type Proficiency struct {
	Key  string          `json:"key"`
	Name string          `json:"name"`
	Type ProficiencyType `json:"type"`
}
