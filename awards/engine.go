// Package awards rebuilds the operator's award-progress tables from the
// contact log and answers the two per-spot queries the notification filter
// needs: what the operator still wants from a contact, and what the
// counterparty still wants back.
package awards

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/K7MJG/skcc-skimmer-sub000/contest"
	"github.com/K7MJG/skcc-skimmer-sub000/roster"
	"github.com/K7MJG/skcc-skimmer-sub000/spot"
)

// Historical award cutoff dates. These are program-rule constants; contacts
// below them predate the award in question and never qualify.
var (
	tribuneCutoff = time.Date(2007, time.March, 1, 0, 0, 0, 0, time.UTC)
	senatorCutoff = time.Date(2013, time.August, 1, 0, 0, 0, 0, time.UTC)
	wasCCutoff    = time.Date(2011, time.June, 12, 0, 0, 0, 0, time.UTC)
	wasTSCutoff   = time.Date(2016, time.February, 6, 0, 0, 0, 0, time.UTC)
	prefixCutoff  = time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)
)

var prefixRE = regexp.MustCompile(`^\d*[A-Z]+\d+`)

// k3ySuffixRE matches the special-event station token logbooks put in the
// comment field: call districts, the island prefixes, or a continent.
var k3ySuffixRE = regexp.MustCompile(`(?:K3Y|SKM)[/-]([0-9]|KH6|KL7|KP4|AF|AS|EU|NA|OC|SA)\b`)

// eventCalls are never treated as member contacts; they feed the K3Y table.
var eventCalls = map[string]bool{"K3Y": true, "SKM": true}

// IsEventCall reports whether the callsign belongs to the special-event
// stations rather than a member.
func IsEventCall(call string) bool {
	call = strings.ToUpper(call)
	if eventCalls[call] {
		return true
	}
	base, _, found := strings.Cut(call, "/")
	return found && eventCalls[base]
}

// Settings configures the engine; all fields are fixed for the process
// lifetime.
type Settings struct {
	MyCallsign string
	AdiFile    string
	Goals      map[string]bool
	Targets    map[string]bool
	K3YYear    int
}

// Engine owns the award tables. Refresh replaces the snapshot wholesale;
// readers on other goroutines always see either the old or the new complete
// set.
type Engine struct {
	settings Settings
	dir      *roster.Provider
	tables   atomic.Pointer[Tables]
	nowFn    func() time.Time
}

// New creates an engine bound to the shared member directory. Call Refresh
// before the first query.
func New(settings Settings, dir *roster.Provider) *Engine {
	settings.MyCallsign = strings.ToUpper(strings.TrimSpace(settings.MyCallsign))
	e := &Engine{
		settings: settings,
		dir:      dir,
		nowFn:    time.Now,
	}
	e.tables.Store(newTables())
	return e
}

// Tables returns the current snapshot.
func (e *Engine) Tables() *Tables {
	return e.tables.Load()
}

// Refresh re-reads the contact log and rebuilds every table from scratch.
// The new snapshot replaces the old one in a single pointer swap.
func (e *Engine) Refresh() error {
	dir := e.dir.Current()
	if dir == nil {
		return fmt.Errorf("awards: no member directory loaded")
	}
	contacts, skipped, err := ReadLog(e.settings.AdiFile)
	if err != nil {
		return err
	}

	t := e.build(dir, contacts)
	t.SkippedLog = skipped
	e.tables.Store(t)

	log.Printf("Awards: %s contacts, C:%s T:%s S:%s WAS:%d P-score:%s",
		humanize.Comma(int64(t.ContactCount)),
		humanize.Comma(int64(len(t.Centurion))),
		humanize.Comma(int64(len(t.Tribune))),
		humanize.Comma(int64(len(t.Senator))),
		len(t.WAS),
		humanize.Comma(int64(t.PrefixScore())))
	if skipped > 0 {
		log.Printf("Awards: skipped %d malformed log records", skipped)
	}
	return nil
}

func (e *Engine) build(dir *roster.Directory, contacts []Contact) *Tables {
	t := newTables()
	me, _ := dir.Lookup(e.settings.MyCallsign)
	t.Me = me

	now := e.nowFn().UTC()
	t.BragMonth = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := t.BragMonth.AddDate(0, 1, 0)

	for _, c := range contacts {
		if IsEventCall(c.Call) {
			e.recordK3Y(t, c)
			continue
		}
		m, ok := dir.Resolve(c.Call)
		if !ok {
			continue
		}
		t.ContactCount++

		e.recordMemberAwards(t, me, m, c)
		e.recordWAS(t, me, m, c)
		e.recordPrefix(t, m, c)
		e.recordBrag(t, m, c, t.BragMonth, nextMonth)
	}
	return t
}

// recordMemberAwards applies the tiered C/T/S rules. First qualifying
// contact per member wins; later contacts never overwrite. Every tier gates
// on BOTH parties' prior-tier dates: join dates for Centurion, Centurion
// dates for Tribune, Tx8 dates for Senator. Keep the blocks symmetric when
// editing; only the date pair and the cutoff differ.
func (e *Engine) recordMemberAwards(t *Tables, me, m *roster.Member, c Contact) {
	if me == nil {
		return
	}
	entry := MemberEntry{Date: c.When, Number: m.Number, Call: m.PrimaryCall}

	if _, seen := t.Centurion[m.Number]; !seen &&
		!c.When.Before(m.Joined) && !c.When.Before(me.Joined) {
		t.Centurion[m.Number] = entry
	}
	if _, seen := t.Tribune[m.Number]; !seen &&
		m.IsCenturion() && me.IsCenturion() &&
		!c.When.Before(m.CenturionDate) && !c.When.Before(me.CenturionDate) &&
		!c.When.Before(tribuneCutoff) {
		t.Tribune[m.Number] = entry
	}
	if _, seen := t.Senator[m.Number]; !seen &&
		!m.TribuneX8Date.IsZero() && !me.TribuneX8Date.IsZero() &&
		!c.When.Before(m.TribuneX8Date) && !c.When.Before(me.TribuneX8Date) &&
		!c.When.Before(senatorCutoff) {
		t.Senator[m.Number] = entry
	}
}

func (e *Engine) recordWAS(t *Tables, me, m *roster.Member, c Contact) {
	state := c.SPC
	if state == "" {
		state = m.SPC
	}
	if !IsUSState(state) {
		return
	}
	if me == nil {
		return
	}
	entry := WASEntry{State: state, Date: c.When, Number: m.Number, Call: m.PrimaryCall}

	if _, seen := t.WAS[state]; !seen &&
		!c.When.Before(m.Joined) && !c.When.Before(me.Joined) {
		t.WAS[state] = entry
	}
	if _, seen := t.WASC[state]; !seen &&
		m.IsCenturion() && me.IsCenturion() &&
		!c.When.Before(m.CenturionDate) && !c.When.Before(me.CenturionDate) &&
		!c.When.Before(wasCCutoff) {
		t.WASC[state] = entry
	}
	if _, seen := t.WAST[state]; !seen &&
		m.IsTribune() && me.IsTribune() &&
		!c.When.Before(m.TribuneDate) && !c.When.Before(me.TribuneDate) &&
		!c.When.Before(wasTSCutoff) {
		t.WAST[state] = entry
	}
	if _, seen := t.WASS[state]; !seen &&
		m.IsSenator() && me.IsSenator() &&
		!c.When.Before(m.SenatorDate) && !c.When.Before(me.SenatorDate) &&
		!c.When.Before(wasTSCutoff) {
		t.WASS[state] = entry
	}
}

// recordPrefix keeps the highest member number per callsign prefix.
func (e *Engine) recordPrefix(t *Tables, m *roster.Member, c Contact) {
	if c.When.Before(prefixCutoff) {
		return
	}
	pfx := prefixRE.FindString(m.PrimaryCall)
	if pfx == "" {
		return
	}
	if existing, seen := t.Prefixes[pfx]; !seen || m.Number > existing.Number {
		t.Prefixes[pfx] = PrefixEntry{Prefix: pfx, Number: m.Number, Call: m.PrimaryCall, Date: c.When}
	}
}

// recordK3Y fills the special-event table: first callsign per suffix/band,
// add-only, and only for contacts inside the configured year's event window.
func (e *Engine) recordK3Y(t *Tables, c Contact) {
	if e.settings.K3YYear == 0 {
		return
	}
	start, end := K3YWindow(e.settings.K3YYear)
	if c.When.Before(start) || !c.When.Before(end) {
		return
	}
	match := k3ySuffixRE.FindStringSubmatch(strings.ToUpper(c.Comment))
	if match == nil {
		// fall back to the logged call itself, e.g. "K3Y/5"
		match = k3ySuffixRE.FindStringSubmatch(strings.ToUpper(c.Call))
	}
	if match == nil {
		return
	}
	suffix := match[1]
	band, ok := spot.FreqToBand(c.FreqKHz)
	if !ok {
		return
	}
	if t.K3Y[suffix] == nil {
		t.K3Y[suffix] = make(map[int]string)
	}
	if _, seen := t.K3Y[suffix][band]; !seen {
		t.K3Y[suffix][band] = c.Call
	}
}

// recordBrag keeps the first contact per member inside the brag month that is
// either on a WARC band or outside every sprint window.
func (e *Engine) recordBrag(t *Tables, m *roster.Member, c Contact, monthStart, monthEnd time.Time) {
	if c.When.Before(monthStart) || !c.When.Before(monthEnd) {
		return
	}
	if !c.When.After(m.Joined) {
		return
	}
	band, haveBand := spot.FreqToBand(c.FreqKHz)
	onWARC := haveBand && spot.IsWARC(band)
	if !onWARC && contest.IsDuringContest(c.When) {
		return
	}
	if _, seen := t.Brag[m.Number]; !seen {
		t.Brag[m.Number] = BragEntry{Number: m.Number, Date: c.When, Call: m.PrimaryCall, FreqKHz: c.FreqKHz}
	}
}

// K3YWindow returns the event boundaries for the configured year: January 2
// 0000Z through February 1 0000Z, end exclusive. The month and day are fixed;
// the event recurs on the same calendar dates every year.
func K3YWindow(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 2, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.February, 1, 0, 0, 0, 0, time.UTC)
}

var usStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "FL": true, "GA": true, "HI": true, "ID": true,
	"IL": true, "IN": true, "IA": true, "KS": true, "KY": true, "LA": true,
	"ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true,
}

// IsUSState reports whether the SPC code is one of the fifty states.
func IsUSState(code string) bool {
	return usStates[strings.ToUpper(code)]
}
