package rulebook

// MaxLevel is the level cap
const MaxLevel = 20

// xpThresholds maps a character level to the total XP required to be that
// level, per the standard advancement table.
var xpThresholds = map[int]int{
	1:  0,
	2:  300,
	3:  900,
	4:  2700,
	5:  6500,
	6:  14000,
	7:  23000,
	8:  34000,
	9:  48000,
	10: 64000,
	11: 85000,
	12: 100000,
	13: 120000,
	14: 140000,
	15: 165000,
	16: 195000,
	17: 225000,
	18: 265000,
	19: 305000,
	20: 355000,
}

// XPForLevel returns the total XP required to reach the given level. Levels
// past the cap report the level 20 threshold.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return xpThresholds[level]
}

// ProficiencyBonus returns the level-derived proficiency bonus:
// +2 at levels 1-4 up to +6 at levels 17-20.
func ProficiencyBonus(level int) int {
	if level < 1 {
		return 2
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return (level+3)/4 + 1
}
