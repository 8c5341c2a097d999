package rulebook

import (
	"sort"

	"github.com/ironrations/charsheet/internal/domain/shared"
)

// Library is the in-memory content catalog the engine reads from: class
// definitions with progression data, subclasses, feats, races, and
// backgrounds. Content is externally supplied; NewLibrary seeds the SRD
// material the API does not model and the dnd5e client can merge more in.
type Library struct {
	classes     map[string]*Class
	feats       map[string]*Feat
	races       map[string]*Race
	backgrounds map[string]*Background
}

// NewLibrary creates a library seeded with the builtin SRD content
func NewLibrary() *Library {
	lib := &Library{
		classes:     make(map[string]*Class),
		feats:       make(map[string]*Feat),
		races:       make(map[string]*Race),
		backgrounds: make(map[string]*Background),
	}

	for _, class := range builtinClasses() {
		lib.classes[class.Key] = class
	}
	for _, feat := range builtinFeats() {
		lib.feats[feat.Key] = feat
	}
	for _, race := range builtinRaces() {
		lib.races[race.Key] = race
	}
	for _, bg := range builtinBackgrounds() {
		lib.backgrounds[bg.Key] = bg
	}

	return lib
}

// Class looks up a class definition by key
func (l *Library) Class(key string) (*Class, bool) {
	class, ok := l.classes[key]
	return class, ok
}

// Feat looks up a feat definition by key
func (l *Library) Feat(key string) (*Feat, bool) {
	feat, ok := l.feats[key]
	return feat, ok
}

// Race looks up a race definition by key
func (l *Library) Race(key string) (*Race, bool) {
	race, ok := l.races[key]
	return race, ok
}

// Background looks up a background definition by key
func (l *Library) Background(key string) (*Background, bool) {
	bg, ok := l.backgrounds[key]
	return bg, ok
}

// Classes returns all class definitions sorted by key
func (l *Library) Classes() []*Class {
	out := make([]*Class, 0, len(l.classes))
	for _, class := range l.classes {
		out = append(out, class)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Feats returns all feat definitions sorted by key
func (l *Library) Feats() []*Feat {
	out := make([]*Feat, 0, len(l.feats))
	for _, feat := range l.feats {
		out = append(out, feat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// AddClass registers or replaces a class definition. Externally loaded
// classes merge onto any builtin entry so progression data survives when the
// API only supplies names and hit dice.
func (l *Library) AddClass(class *Class) {
	if class == nil || class.Key == "" {
		return
	}

	if existing, ok := l.classes[class.Key]; ok {
		merged := *existing
		merged.Name = class.Name
		if class.HitDie > 0 {
			merged.HitDie = class.HitDie
		}
		if len(class.SkillChoices) > 0 {
			merged.SkillChoices = class.SkillChoices
			merged.SkillChoiceCount = class.SkillChoiceCount
		}
		if len(class.ArmorProficiencies) > 0 {
			merged.ArmorProficiencies = class.ArmorProficiencies
		}
		if len(class.WeaponProficiencies) > 0 {
			merged.WeaponProficiencies = class.WeaponProficiencies
		}
		l.classes[class.Key] = &merged
		return
	}

	l.classes[class.Key] = class
}

// AddRace registers or replaces a race definition
func (l *Library) AddRace(race *Race) {
	if race == nil || race.Key == "" {
		return
	}
	l.races[race.Key] = race
}

// AddFeat registers or replaces a feat definition
func (l *Library) AddFeat(feat *Feat) {
	if feat == nil || feat.Key == "" {
		return
	}
	l.feats[feat.Key] = feat
}

// AddBackground registers or replaces a background definition
func (l *Library) AddBackground(bg *Background) {
	if bg == nil || bg.Key == "" {
		return
	}
	l.backgrounds[bg.Key] = bg
}

func builtinClasses() []*Class {
	standardASI := []int{4, 8, 12, 16, 19}

	return []*Class{
		{
			Key: "barbarian", Name: "Barbarian", HitDie: 12,
			SpellcastingType: SpellcastingNone,
			SavingThrows:     []shared.Attribute{shared.AttributeStrength, shared.AttributeConstitution},
			SubclassLevel:    3,
			ASILevels:        standardASI,
			Subclasses: []*Subclass{
				{Key: "berserker", Name: "Path of the Berserker"},
				{Key: "totem-warrior", Name: "Path of the Totem Warrior"},
			},
			SkillChoices:        []string{shared.SkillAnimalHandling, shared.SkillAthletics, shared.SkillIntimidation, shared.SkillNature, shared.SkillPerception, shared.SkillSurvival},
			SkillChoiceCount:    2,
			ArmorProficiencies:  []string{"light", "medium", "shield"},
			WeaponProficiencies: []string{"simple", "martial"},
		},
		{
			Key: "bard", Name: "Bard", HitDie: 8,
			SpellcastingType: SpellcastingFull,
			SavingThrows:     []shared.Attribute{shared.AttributeDexterity, shared.AttributeCharisma},
			SubclassLevel:    3,
			ASILevels:        standardASI,
			Subclasses: []*Subclass{
				{Key: "lore", Name: "College of Lore"},
				{Key: "valor", Name: "College of Valor"},
			},
			SkillChoices:        shared.SkillKeys,
			SkillChoiceCount:    3,
			ArmorProficiencies:  []string{"light"},
			WeaponProficiencies: []string{"simple"},
		},
		{
			Key: "cleric", Name: "Cleric", HitDie: 8,
			SpellcastingType: SpellcastingFull,
			SavingThrows:     []shared.Attribute{shared.AttributeWisdom, shared.AttributeCharisma},
			SubclassLevel:    1,
			ASILevels:        standardASI,
			Subclasses: []*Subclass{
				{Key: "knowledge", Name: "Knowledge Domain"},
				{Key: "life", Name: "Life Domain"},
				{Key: "light", Name: "Light Domain"},
				{Key: "war", Name: "War Domain"},
			},
			SkillChoices:        []string{shared.SkillHistory, shared.SkillInsight, shared.SkillMedicine, shared.SkillPersuasion, shared.SkillReligion},
			SkillChoiceCount:    2,
			ArmorProficiencies:  []string{"light", "medium", "shield"},
			WeaponProficiencies: []string{"simple"},
		},
		{
			Key: "druid", Name: "Druid", HitDie: 8,
			SpellcastingType: SpellcastingFull,
			SavingThrows:     []shared.Attribute{shared.AttributeIntelligence, shared.AttributeWisdom},
			SubclassLevel:    2,
			ASILevels:        standardASI,
			Subclasses: []*Subclass{
				{Key: "land", Name: "Circle of the Land"},
				{Key: "moon", Name: "Circle of the Moon"},
			},
			SkillChoices:       []string{shared.SkillArcana, shared.SkillAnimalHandling, shared.SkillInsight, shared.SkillMedicine, shared.SkillNature, shared.SkillPerception, shared.SkillReligion, shared.SkillSurvival},
			SkillChoiceCount:   2,
			ArmorProficiencies: []string{"light", "medium", "shield"},
		},
		{
			Key: "fighter", Name: "Fighter", HitDie: 10,
			SpellcastingType: SpellcastingNone,
			SavingThrows:     []shared.Attribute{shared.AttributeStrength, shared.AttributeConstitution},
			SubclassLevel:    3,
			ASILevels:        []int{4, 6, 8, 12, 14, 16, 19},
			Subclasses: []*Subclass{
				{Key: "champion", Name: "Champion"},
				{Key: "battle-master", Name: "Battle Master"},
				{Key: "eldritch-knight", Name: "Eldritch Knight", SpellcastingType: SpellcastingThird},
			},
			SkillChoices:        []string{shared.SkillAcrobatics, shared.SkillAnimalHandling, shared.SkillAthletics, shared.SkillHistory, shared.SkillInsight, shared.SkillIntimidation, shared.SkillPerception, shared.SkillSurvival},
			SkillChoiceCount:    2,
			ArmorProficiencies:  []string{"light", "medium", "heavy", "shield"},
			WeaponProficiencies: []string{"simple", "martial"},
		},
		{
			Key: "monk", Name: "Monk", HitDie: 8,
			SpellcastingType: SpellcastingNone,
			SavingThrows:     []shared.Attribute{shared.AttributeStrength, shared.AttributeDexterity},
			SubclassLevel:    3,
			ASILevels:        standardASI,
			Subclasses: []*Subclass{
				{Key: "open-hand", Name: "Way of the Open Hand"},
				{Key: "shadow", Name: "Way of Shadow"},
			},
			SkillChoices:        []string{shared.SkillAcrobatics, shared.SkillAthletics, shared.SkillHistory, shared.SkillInsight, shared.SkillReligion, shared.SkillStealth},
			SkillChoiceCount:    2,
			WeaponProficiencies: []string{"simple"},
		},
		{
			Key: "paladin", Name: "Paladin", HitDie: 10,
			SpellcastingType: SpellcastingHalf,
			SavingThrows:     []shared.Attribute{shared.AttributeWisdom, shared.AttributeCharisma},
			SubclassLevel:    3,
			ASILevels:        standardASI,
			Subclasses: []*Subclass{
				{Key: "devotion", Name: "Oath of Devotion"},
				{Key: "vengeance", Name: "Oath of Vengeance"},
			},
			SkillChoices:        []string{shared.SkillAthletics, shared.SkillInsight, shared.SkillIntimidation, shared.SkillMedicine, shared.SkillPersuasion, shared.SkillReligion},
			SkillChoiceCount:    2,
			ArmorProficiencies:  []string{"light", "medium", "heavy", "shield"},
			WeaponProficiencies: []string{"simple", "martial"},
		},
		{
			Key: "ranger", Name: "Ranger", HitDie: 10,
			SpellcastingType: SpellcastingHalf,
			SavingThrows:     []shared.Attribute{shared.AttributeStrength, shared.AttributeDexterity},
			SubclassLevel:    3,
			ASILevels:        standardASI,
			Subclasses: []*Subclass{
				{Key: "hunter", Name: "Hunter"},
				{Key: "beast-master", Name: "Beast Master"},
			},
			SkillChoices:        []string{shared.SkillAnimalHandling, shared.SkillAthletics, shared.SkillInsight, shared.SkillInvestigation, shared.SkillNature, shared.SkillPerception, shared.SkillStealth, shared.SkillSurvival},
			SkillChoiceCount:    3,
			ArmorProficiencies:  []string{"light", "medium", "shield"},
			WeaponProficiencies: []string{"simple", "martial"},
		},
		{
			Key: "rogue", Name: "Rogue", HitDie: 8,
			SpellcastingType: SpellcastingNone,
			SavingThrows:     []shared.Attribute{shared.AttributeDexterity, shared.AttributeIntelligence},
			SubclassLevel:    3,
			ASILevels:        []int{4, 8, 10, 12, 16, 19},
			Subclasses: []*Subclass{
				{Key: "thief", Name: "Thief"},
				{Key: "assassin", Name: "Assassin"},
				{Key: "arcane-trickster", Name: "Arcane Trickster", SpellcastingType: SpellcastingThird},
			},
			SkillChoices:        []string{shared.SkillAcrobatics, shared.SkillAthletics, shared.SkillDeception, shared.SkillInsight, shared.SkillIntimidation, shared.SkillInvestigation, shared.SkillPerception, shared.SkillPerformance, shared.SkillPersuasion, shared.SkillSleightOfHand, shared.SkillStealth},
			SkillChoiceCount:    4,
			ArmorProficiencies:  []string{"light"},
			WeaponProficiencies: []string{"simple"},
		},
		{
			Key: "sorcerer", Name: "Sorcerer", HitDie: 6,
			SpellcastingType: SpellcastingFull,
			SavingThrows:     []shared.Attribute{shared.AttributeConstitution, shared.AttributeCharisma},
			SubclassLevel:    1,
			ASILevels:        standardASI,
			Subclasses: []*Subclass{
				{Key: "draconic", Name: "Draconic Bloodline"},
				{Key: "wild-magic", Name: "Wild Magic"},
			},
			SkillChoices:     []string{shared.SkillArcana, shared.SkillDeception, shared.SkillInsight, shared.SkillIntimidation, shared.SkillPersuasion, shared.SkillReligion},
			SkillChoiceCount: 2,
		},
		{
			Key: "warlock", Name: "Warlock", HitDie: 8,
			SpellcastingType: SpellcastingPact,
			SavingThrows:     []shared.Attribute{shared.AttributeWisdom, shared.AttributeCharisma},
			SubclassLevel:    1,
			ASILevels:        standardASI,
			Subclasses: []*Subclass{
				{Key: "archfey", Name: "The Archfey"},
				{Key: "fiend", Name: "The Fiend"},
				{Key: "great-old-one", Name: "The Great Old One"},
			},
			SkillChoices:        []string{shared.SkillArcana, shared.SkillDeception, shared.SkillHistory, shared.SkillIntimidation, shared.SkillInvestigation, shared.SkillNature, shared.SkillReligion},
			SkillChoiceCount:    2,
			ArmorProficiencies:  []string{"light"},
			WeaponProficiencies: []string{"simple"},
		},
		{
			Key: "wizard", Name: "Wizard", HitDie: 6,
			SpellcastingType: SpellcastingFull,
			SavingThrows:     []shared.Attribute{shared.AttributeIntelligence, shared.AttributeWisdom},
			SubclassLevel:    2,
			ASILevels:        standardASI,
			Subclasses: []*Subclass{
				{Key: "evocation", Name: "School of Evocation"},
				{Key: "abjuration", Name: "School of Abjuration"},
			},
			SkillChoices:     []string{shared.SkillArcana, shared.SkillHistory, shared.SkillInsight, shared.SkillInvestigation, shared.SkillMedicine, shared.SkillReligion},
			SkillChoiceCount: 2,
		},
		{
			Key: "artificer", Name: "Artificer", HitDie: 8,
			SpellcastingType: SpellcastingArtificer,
			SavingThrows:     []shared.Attribute{shared.AttributeConstitution, shared.AttributeIntelligence},
			SubclassLevel:    3,
			ASILevels:        standardASI,
			Subclasses: []*Subclass{
				{Key: "alchemist", Name: "Alchemist"},
				{Key: "artillerist", Name: "Artillerist"},
			},
			SkillChoices:        []string{shared.SkillArcana, shared.SkillHistory, shared.SkillInvestigation, shared.SkillMedicine, shared.SkillNature, shared.SkillPerception, shared.SkillSleightOfHand},
			SkillChoiceCount:    2,
			ArmorProficiencies:  []string{"light", "medium", "shield"},
			WeaponProficiencies: []string{"simple"},
		},
	}
}

func builtinFeats() []*Feat {
	return []*Feat{
		{
			Key: "alert", Name: "Alert",
			Description: "Always on the lookout for danger: +5 to initiative.",
			FeatModifiers: []shared.Modifier{
				{Type: shared.ModifierBonus, Target: shared.TargetInitiative, Value: 5},
			},
		},
		{
			Key: "tough", Name: "Tough",
			Description: "Your hit point maximum increases.",
			FeatModifiers: []shared.Modifier{
				{Type: shared.ModifierBonus, Target: shared.TargetMaxHP, Value: 2},
			},
		},
		{
			Key: "athlete", Name: "Athlete",
			Description: "Intensive training: increase Strength or Dexterity by 1.",
			FeatModifiers: []shared.Modifier{
				{Type: shared.ModifierAbilityPointGrant, Value: 1, Condition: "str,dex"},
			},
		},
		{
			Key: "actor", Name: "Actor",
			Description: "Skilled at mimicry and dramatics: increase Charisma by 1.",
			FeatModifiers: []shared.Modifier{
				{Type: shared.ModifierAbilityPointGrant, Value: 1, Condition: "cha"},
			},
		},
		{
			Key: "observant", Name: "Observant",
			Description: "Quick to notice details: increase Intelligence or Wisdom by 1.",
			FeatModifiers: []shared.Modifier{
				{Type: shared.ModifierAbilityPointGrant, Value: 1, Condition: "int,wis"},
			},
		},
		{
			Key: "resilient", Name: "Resilient",
			Description: "Increase one ability score by 1 and gain proficiency in its saving throws.",
			FeatModifiers: []shared.Modifier{
				{Type: shared.ModifierAbilityPointGrant, Value: 1},
			},
		},
		{
			Key: "mobile", Name: "Mobile",
			Description: "You are exceptionally speedy.",
			FeatModifiers: []shared.Modifier{
				{Type: shared.ModifierBonus, Target: shared.TargetSpeed, Value: 10},
			},
		},
		{
			Key: "skilled", Name: "Skilled",
			Description: "You gain proficiency in athletics, perception, and survival.",
			FeatModifiers: []shared.Modifier{
				{Type: shared.ModifierSkillProficiency, Target: shared.SkillAthletics},
				{Type: shared.ModifierSkillProficiency, Target: shared.SkillPerception},
				{Type: shared.ModifierSkillProficiency, Target: shared.SkillSurvival},
			},
		},
		{
			Key: "eldritch-sight", Name: "Eldritch Sight",
			Description: "Your eyes pierce the dark.",
			FeatModifiers: []shared.Modifier{
				{Type: shared.ModifierSet, Target: shared.TargetDarkvision, Value: 60},
			},
		},
		{
			Key: "linguist", Name: "Linguist",
			Description: "You have studied languages and codes.",
			FeatModifiers: []shared.Modifier{
				{Type: shared.ModifierLanguage, Target: "elvish"},
				{Type: shared.ModifierLanguage, Target: "dwarvish"},
				{Type: shared.ModifierLanguage, Target: "draconic"},
			},
		},
	}
}

func builtinRaces() []*Race {
	return []*Race{
		{
			Key: "human", Name: "Human", Speed: 30,
			Traits: []*Trait{
				{
					Key: "human-versatility", Name: "Versatility",
					TraitModifiers: []shared.Modifier{
						{Type: shared.ModifierBonus, Target: "str", Value: 1},
						{Type: shared.ModifierBonus, Target: "dex", Value: 1},
						{Type: shared.ModifierBonus, Target: "con", Value: 1},
						{Type: shared.ModifierBonus, Target: "int", Value: 1},
						{Type: shared.ModifierBonus, Target: "wis", Value: 1},
						{Type: shared.ModifierBonus, Target: "cha", Value: 1},
					},
				},
			},
		},
		{
			Key: "elf", Name: "Elf", Speed: 30,
			Traits: []*Trait{
				{
					Key: "elf-ability", Name: "Elven Grace",
					TraitModifiers: []shared.Modifier{
						{Type: shared.ModifierBonus, Target: "dex", Value: 2},
					},
				},
				{
					Key: "elf-darkvision", Name: "Darkvision",
					TraitModifiers: []shared.Modifier{
						{Type: shared.ModifierSet, Target: shared.TargetDarkvision, Value: 60},
					},
				},
				{
					Key: "elf-keen-senses", Name: "Keen Senses",
					TraitModifiers: []shared.Modifier{
						{Type: shared.ModifierSkillProficiency, Target: shared.SkillPerception},
					},
				},
			},
		},
		{
			Key: "dwarf", Name: "Dwarf", Speed: 25,
			Traits: []*Trait{
				{
					Key: "dwarf-ability", Name: "Dwarven Toughness",
					TraitModifiers: []shared.Modifier{
						{Type: shared.ModifierBonus, Target: "con", Value: 2},
					},
				},
				{
					Key: "dwarf-darkvision", Name: "Darkvision",
					TraitModifiers: []shared.Modifier{
						{Type: shared.ModifierSet, Target: shared.TargetDarkvision, Value: 60},
					},
				},
			},
		},
		{
			Key: "half-orc", Name: "Half-Orc", Speed: 30,
			Traits: []*Trait{
				{
					Key: "half-orc-ability", Name: "Orcish Might",
					TraitModifiers: []shared.Modifier{
						{Type: shared.ModifierBonus, Target: "str", Value: 2},
						{Type: shared.ModifierBonus, Target: "con", Value: 1},
					},
				},
				{
					Key: "half-orc-darkvision", Name: "Darkvision",
					TraitModifiers: []shared.Modifier{
						{Type: shared.ModifierSet, Target: shared.TargetDarkvision, Value: 60},
					},
				},
				{
					Key: "half-orc-menacing", Name: "Menacing",
					TraitModifiers: []shared.Modifier{
						{Type: shared.ModifierSkillProficiency, Target: shared.SkillIntimidation},
					},
				},
			},
		},
		{
			Key: "tiefling", Name: "Tiefling", Speed: 30,
			Traits: []*Trait{
				{
					Key: "tiefling-ability", Name: "Infernal Legacy",
					TraitModifiers: []shared.Modifier{
						{Type: shared.ModifierBonus, Target: "cha", Value: 2},
						{Type: shared.ModifierBonus, Target: "int", Value: 1},
					},
				},
				{
					Key: "tiefling-darkvision", Name: "Darkvision",
					TraitModifiers: []shared.Modifier{
						{Type: shared.ModifierSet, Target: shared.TargetDarkvision, Value: 60},
					},
				},
			},
		},
	}
}

func builtinBackgrounds() []*Background {
	return []*Background{
		{
			Key: "acolyte", Name: "Acolyte",
			BackgroundModifiers: []shared.Modifier{
				{Type: shared.ModifierSkillProficiency, Target: shared.SkillInsight},
				{Type: shared.ModifierSkillProficiency, Target: shared.SkillReligion},
				{Type: shared.ModifierLanguage, Target: "celestial"},
			},
		},
		{
			Key: "criminal", Name: "Criminal",
			BackgroundModifiers: []shared.Modifier{
				{Type: shared.ModifierSkillProficiency, Target: shared.SkillDeception},
				{Type: shared.ModifierSkillProficiency, Target: shared.SkillStealth},
			},
		},
		{
			Key: "sage", Name: "Sage",
			BackgroundModifiers: []shared.Modifier{
				{Type: shared.ModifierSkillProficiency, Target: shared.SkillArcana},
				{Type: shared.ModifierSkillProficiency, Target: shared.SkillHistory},
				{Type: shared.ModifierLanguage, Target: "draconic"},
			},
		},
		{
			Key: "soldier", Name: "Soldier",
			BackgroundModifiers: []shared.Modifier{
				{Type: shared.ModifierSkillProficiency, Target: shared.SkillAthletics},
				{Type: shared.ModifierSkillProficiency, Target: shared.SkillIntimidation},
			},
		},
	}
}
