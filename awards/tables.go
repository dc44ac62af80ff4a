package awards

import (
	"time"

	"github.com/K7MJG/skcc-skimmer-sub000/roster"
)

// MemberEntry is the earliest qualifying contact evidence for one member in
// the Centurion/Tribune/Senator tables.
type MemberEntry struct {
	Date   time.Time
	Number int
	Call   string
}

// WASEntry is the earliest qualifying contact for one state in a
// Worked-All-States table.
type WASEntry struct {
	State  string
	Date   time.Time
	Number int
	Call   string
}

// PrefixEntry carries the highest member number seen for one callsign prefix.
// Unlike every other table the later, larger number wins.
type PrefixEntry struct {
	Prefix string
	Number int
	Call   string
	Date   time.Time
}

// BragEntry is the first contact per member qualifying for the monthly brag.
type BragEntry struct {
	Number  int
	Date    time.Time
	Call    string
	FreqKHz float64
}

// Tables is one complete, immutable award-progress snapshot. Refresh builds a
// new set from scratch and swaps it in atomically; nothing ever patches a
// live snapshot.
type Tables struct {
	Centurion map[int]MemberEntry
	Tribune   map[int]MemberEntry
	Senator   map[int]MemberEntry

	WAS  map[string]WASEntry
	WASC map[string]WASEntry
	WAST map[string]WASEntry
	WASS map[string]WASEntry

	Prefixes map[string]PrefixEntry

	// K3Y maps special-event suffix -> band meters -> first callsign worked.
	K3Y map[string]map[int]string

	Brag      map[int]BragEntry
	BragMonth time.Time // first instant of the month the brag table covers

	// Me is the operator's own membership record as of this snapshot; nil
	// when the operator's callsign is not in the directory.
	Me *roster.Member

	ContactCount int // CW contacts considered
	SkippedLog   int // malformed log records dropped
}

func newTables() *Tables {
	return &Tables{
		Centurion: make(map[int]MemberEntry),
		Tribune:   make(map[int]MemberEntry),
		Senator:   make(map[int]MemberEntry),
		WAS:       make(map[string]WASEntry),
		WASC:      make(map[string]WASEntry),
		WAST:      make(map[string]WASEntry),
		WASS:      make(map[string]WASEntry),
		Prefixes:  make(map[string]PrefixEntry),
		K3Y:       make(map[string]map[int]string),
		Brag:      make(map[int]BragEntry),
	}
}

// PrefixScore is the sum of kept member numbers across all prefixes.
func (t *Tables) PrefixScore() int {
	total := 0
	for _, e := range t.Prefixes {
		total += e.Number
	}
	return total
}
