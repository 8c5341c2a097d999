package shared

// AbilityScoreCap is the ceiling on ability scores through normal advancement
const AbilityScoreCap = 20

// AbilityModifier converts an ability score to its modifier,
// floor((score-10)/2), so 8 gives -1 and 15 gives +2.
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}
