package notify

import (
	"log"

	"github.com/agnivade/levenshtein"
)

// bustedHint checks an unresolved spotted callsign against the friends list.
// Skimmers regularly miscopy one character; when an unknown call is a single
// edit away from a friend it is worth a log line, nothing more.
func (f *Filter) bustedHint(raw string) {
	if len(f.friends) == 0 || len(raw) < 3 {
		return
	}
	for friend := range f.friends {
		if levenshtein.ComputeDistance(raw, friend) == 1 {
			log.Printf("Possible busted spot: %s (one edit from %s)", raw, friend)
			return
		}
	}
}
