package shared

import "strings"

// Attribute identifies one of the six ability scores. The lowercase short
// form doubles as the canonical modifier target key for that ability.
type Attribute string

const (
	AttributeNone         Attribute = ""
	AttributeStrength     Attribute = "str"
	AttributeDexterity    Attribute = "dex"
	AttributeConstitution Attribute = "con"
	AttributeIntelligence Attribute = "int"
	AttributeWisdom       Attribute = "wis"
	AttributeCharisma     Attribute = "cha"
)

// Attributes lists all six abilities in display order
var Attributes = []Attribute{
	AttributeStrength,
	AttributeDexterity,
	AttributeConstitution,
	AttributeIntelligence,
	AttributeWisdom,
	AttributeCharisma,
}

var attributeNames = map[Attribute]string{
	AttributeStrength:     "Strength",
	AttributeDexterity:    "Dexterity",
	AttributeConstitution: "Constitution",
	AttributeIntelligence: "Intelligence",
	AttributeWisdom:       "Wisdom",
	AttributeCharisma:     "Charisma",
}

// Name returns the full display name for the attribute
func (a Attribute) Name() string {
	if name, ok := attributeNames[a]; ok {
		return name
	}
	return string(a)
}

// Short returns the abbreviated form ("str", "dex", ...)
func (a Attribute) Short() string {
	return string(a)
}

// ParseAttribute resolves an ability key in any common spelling to an
// Attribute. Unknown keys return AttributeNone.
func ParseAttribute(key string) Attribute {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "str", "strength":
		return AttributeStrength
	case "dex", "dexterity":
		return AttributeDexterity
	case "con", "constitution":
		return AttributeConstitution
	case "int", "intelligence":
		return AttributeIntelligence
	case "wis", "wisdom":
		return AttributeWisdom
	case "cha", "charisma":
		return AttributeCharisma
	default:
		return AttributeNone
	}
}

// ParseAttributeList parses a comma-separated ability restriction such as
// "str,dex". Unknown entries are skipped rather than failing the whole list.
func ParseAttributeList(list string) []Attribute {
	if strings.TrimSpace(list) == "" {
		return nil
	}

	var out []Attribute
	for _, part := range strings.Split(list, ",") {
		if attr := ParseAttribute(part); attr != AttributeNone {
			out = append(out, attr)
		}
	}
	return out
}
