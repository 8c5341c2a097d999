package rulebook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironrations/charsheet/internal/domain/rulebook"
)

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level    int
		expected int
	}{
		{0, 0},
		{1, 0},
		{2, 300},
		{3, 900},
		{5, 6500},
		{10, 64000},
		{20, 355000},
		{25, 355000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, rulebook.XPForLevel(tt.level), "level %d", tt.level)
	}
}

func TestProficiencyBonus(t *testing.T) {
	tests := []struct {
		level    int
		expected int
	}{
		{1, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
		{12, 4},
		{13, 5},
		{16, 5},
		{17, 6},
		{20, 6},
		{0, 2},
		{30, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, rulebook.ProficiencyBonus(tt.level), "level %d", tt.level)
	}
}
