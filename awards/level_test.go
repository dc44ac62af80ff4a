package awards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelSteppingRule(t *testing.T) {
	cases := []struct {
		count, level int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{250, 2},
		{1000, 10},
		{1050, 10}, // factor 10 still maps one-to-one
		{1100, 10}, // factor 11 rounds to 10
		{1200, 10}, // factor 12 rounds to 10
		{1300, 15}, // factor 13 rounds to 15
		{1500, 15},
		{1800, 20},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, Level(tc.count, 100), "count %d", tc.count)
	}
}

func TestNextLevelAndRemaining(t *testing.T) {
	assert.Equal(t, 1, NextLevel(0, 100))
	assert.Equal(t, 1, NextLevel(99, 100))
	assert.Equal(t, 2, NextLevel(100, 100))
	assert.Equal(t, 10, NextLevel(950, 100))
	assert.Equal(t, 15, NextLevel(1000, 100)) // above 10, milestones step by 5
	assert.Equal(t, 15, NextLevel(1400, 100))
	assert.Equal(t, 20, NextLevel(1500, 100))

	assert.Equal(t, 100, Remaining(0, 100))
	assert.Equal(t, 1, Remaining(99, 100))
	assert.Equal(t, 50, Remaining(150, 100))
	assert.Equal(t, 500, Remaining(1000, 100))
	assert.Equal(t, 100, Remaining(1400, 100))
}

func TestLevelZeroIncrement(t *testing.T) {
	assert.Equal(t, 0, Level(500, 0))
	assert.Equal(t, 0, NextLevel(500, 0))
	assert.Equal(t, 0, Remaining(500, 0))
}
