// Package roster holds the club member directory used to qualify spots and
// log contacts. The directory is immutable once built; a refresh replaces it
// wholesale (callers keep it behind an atomic pointer).
package roster

import (
	"strings"
	"time"
)

// Member is one club membership record. A member may hold several callsigns;
// only PrimaryCall is used for progress bookkeeping. Zero time values mean
// the corresponding level was never reached.
type Member struct {
	Number        int
	Name          string
	SPC           string // state/province/country code
	PrimaryCall   string
	OtherCalls    []string
	Joined        time.Time
	CenturionDate time.Time
	TribuneDate   time.Time
	TribuneX8Date time.Time
	SenatorDate   time.Time
}

// IsCenturion reports whether the member reached Centurion.
func (m *Member) IsCenturion() bool { return !m.CenturionDate.IsZero() }

// IsTribune reports whether the member reached Tribune.
func (m *Member) IsTribune() bool { return !m.TribuneDate.IsZero() }

// IsSenator reports whether the member reached Senator.
func (m *Member) IsSenator() bool { return !m.SenatorDate.IsZero() }

// Directory maps callsigns (primary and secondary) to member records.
type Directory struct {
	byCall map[string]*Member
	count  int
}

// New builds a directory from member records. Later duplicates of a callsign
// are ignored so the first roster entry wins.
func New(members []Member) *Directory {
	d := &Directory{byCall: make(map[string]*Member, len(members)*2)}
	for i := range members {
		m := &members[i]
		m.PrimaryCall = strings.ToUpper(strings.TrimSpace(m.PrimaryCall))
		if m.PrimaryCall == "" {
			continue
		}
		d.add(m.PrimaryCall, m)
		for _, alias := range m.OtherCalls {
			d.add(alias, m)
		}
		d.count++
	}
	return d
}

func (d *Directory) add(call string, m *Member) {
	call = strings.ToUpper(strings.TrimSpace(call))
	if call == "" {
		return
	}
	if _, exists := d.byCall[call]; !exists {
		d.byCall[call] = m
	}
}

// Size returns the number of member records.
func (d *Directory) Size() int {
	if d == nil {
		return 0
	}
	return d.count
}

// Lookup finds the member owning the exact callsign. The input is uppercased
// but not otherwise normalized.
func (d *Directory) Lookup(call string) (*Member, bool) {
	if d == nil {
		return nil, false
	}
	m, ok := d.byCall[strings.ToUpper(strings.TrimSpace(call))]
	return m, ok
}

// suffix tokens that never identify the station on their own
var portableTokens = map[string]bool{
	"P": true, "QRP": true, "M": true, "MM": true, "AM": true,
	"A": true, "B": true,
}

// Resolve maps a raw spotted callsign to a member. Punctuation other than the
// slash separator is stripped, and PREFIX/SUFFIX forms are resolved by testing
// each slash-separated part against the directory (longest part first, skipping
// the common portable suffixes).
func (d *Directory) Resolve(raw string) (*Member, bool) {
	if d == nil {
		return nil, false
	}
	call := CleanCallsign(raw)
	if call == "" {
		return nil, false
	}
	if m, ok := d.byCall[call]; ok {
		return m, true
	}
	if !strings.Contains(call, "/") {
		return nil, false
	}

	parts := strings.Split(call, "/")
	best := ""
	for _, p := range parts {
		if p == "" || portableTokens[p] {
			continue
		}
		if _, ok := d.byCall[p]; ok && len(p) > len(best) {
			best = p
		}
	}
	if best == "" {
		return nil, false
	}
	return d.byCall[best], true
}

// CleanCallsign uppercases the input and removes every character that is not
// a letter, digit or slash.
func CleanCallsign(raw string) string {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '/':
			b.WriteRune(r)
		}
	}
	return b.String()
}
