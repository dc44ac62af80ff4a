package contest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(y int, m time.Month, d, h, min, s int) time.Time {
	return time.Date(y, m, d, h, min, s, 0, time.UTC)
}

func windowByName(t *testing.T, year int, month time.Month, name string) Window {
	t.Helper()
	for _, w := range Windows(year, month) {
		if w.Name == name {
			return w
		}
	}
	t.Fatalf("no window %s for %d-%d", name, year, month)
	return Window{}
}

func TestWindowAnchors(t *testing.T) {
	// June 2026: second Saturday is the 13th, fourth Wednesday the 24th,
	// first Thursday the 4th, second Friday the 12th.
	wes := windowByName(t, 2026, time.June, "WES")
	assert.Equal(t, utc(2026, time.June, 13, 12, 0, 0), wes.Start)
	assert.Equal(t, utc(2026, time.June, 15, 0, 0, 0), wes.End)

	sks := windowByName(t, 2026, time.June, "SKS")
	assert.Equal(t, utc(2026, time.June, 24, 0, 0, 0), sks.Start)
	assert.Equal(t, utc(2026, time.June, 24, 2, 0, 0), sks.End)

	skse := windowByName(t, 2026, time.June, "SKSE")
	assert.Equal(t, utc(2026, time.June, 4, 19, 0, 0), skse.Start)

	sksa := windowByName(t, 2026, time.June, "SKSA")
	assert.Equal(t, utc(2026, time.June, 12, 12, 0, 0), sksa.Start)
}

// The evening sprints shift their start hour with the season.
func TestMonthDependentStartHours(t *testing.T) {
	skse := windowByName(t, 2026, time.January, "SKSE")
	assert.Equal(t, 20, skse.Start.Hour())
	skse = windowByName(t, 2026, time.June, "SKSE")
	assert.Equal(t, 19, skse.Start.Hour())

	sksa := windowByName(t, 2026, time.January, "SKSA")
	assert.Equal(t, 10, sksa.Start.Hour())
	sksa = windowByName(t, 2026, time.June, "SKSA")
	assert.Equal(t, 12, sksa.Start.Hour())
}

func TestBoundariesAreInclusive(t *testing.T) {
	wes := windowByName(t, 2026, time.June, "WES")
	require.True(t, IsDuringContest(wes.Start))
	require.True(t, IsDuringContest(wes.End))
	assert.False(t, IsDuringContest(wes.Start.Add(-time.Second)))

	// One second past the WES end on June 15 must miss every June window.
	assert.False(t, IsDuringContest(wes.End.Add(time.Second)))
}

func TestQuietInstant(t *testing.T) {
	// Early morning on a first Monday: no window covers it.
	assert.False(t, IsDuringContest(utc(2026, time.June, 1, 3, 0, 0)))
}

func TestFirstOfMonthAnchor(t *testing.T) {
	// January 2026 starts on a Thursday, so SKSE runs on the 1st.
	skse := windowByName(t, 2026, time.January, "SKSE")
	assert.Equal(t, utc(2026, time.January, 1, 20, 0, 0), skse.Start)
}
