package awards

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/K7MJG/skcc-skimmer-sub000/contest"
	"github.com/K7MJG/skcc-skimmer-sub000/spot"
)

// GoalHits returns the labels of every configured goal the operator could
// advance by working the given callsign. freqKHz may be 0 when unknown.
// Unknown callsigns produce no hits; this query never fails.
func (e *Engine) GoalHits(call string, freqKHz float64) []string {
	t := e.Tables()
	m, ok := e.dir.Current().Resolve(call)
	if !ok {
		return nil
	}
	if m.PrimaryCall == e.settings.MyCallsign {
		return nil
	}
	goals := e.settings.Goals
	var hits []string

	if goals["C"] {
		if _, seen := t.Centurion[m.Number]; !seen {
			hits = append(hits, levelLabel("C", len(t.Centurion), CenturionIncrement))
		}
	}
	if goals["T"] && t.Me != nil && t.Me.IsCenturion() && m.IsCenturion() {
		if _, seen := t.Tribune[m.Number]; !seen {
			hits = append(hits, levelLabel("T", len(t.Tribune), TribuneIncrement))
		}
	}
	if goals["S"] && t.Me != nil && !t.Me.TribuneX8Date.IsZero() && !m.TribuneX8Date.IsZero() {
		if _, seen := t.Senator[m.Number]; !seen {
			hits = append(hits, levelLabel("S", len(t.Senator), SenatorIncrement))
		}
	}

	state := m.SPC
	if IsUSState(state) {
		if goals["WAS"] {
			if _, seen := t.WAS[state]; !seen {
				hits = append(hits, "WAS")
			}
		}
		if goals["WAS-C"] && t.Me != nil && t.Me.IsCenturion() && m.IsCenturion() {
			if _, seen := t.WASC[state]; !seen {
				hits = append(hits, "WAS-C")
			}
		}
		if goals["WAS-T"] && t.Me != nil && t.Me.IsTribune() && m.IsTribune() {
			if _, seen := t.WAST[state]; !seen {
				hits = append(hits, "WAS-T")
			}
		}
		if goals["WAS-S"] && t.Me != nil && t.Me.IsSenator() && m.IsSenator() {
			if _, seen := t.WASS[state]; !seen {
				hits = append(hits, "WAS-S")
			}
		}
	}

	if goals["P"] {
		if pfx := prefixRE.FindString(m.PrimaryCall); pfx != "" {
			existing := t.Prefixes[pfx]
			if m.Number > existing.Number {
				hits = append(hits, fmt.Sprintf("P(+%s)", humanize.Comma(int64(m.Number-existing.Number))))
			}
		}
	}

	if goals["BRAG"] {
		if _, seen := t.Brag[m.Number]; !seen {
			now := e.nowFn().UTC()
			band, haveBand := spot.FreqToBand(freqKHz)
			onWARC := haveBand && spot.IsWARC(band)
			if onWARC || !contest.IsDuringContest(now) {
				hits = append(hits, "BRAG")
			}
		}
	}

	return hits
}

// K3YHits is the special-event counterpart of GoalHits: given the event
// station's suffix and the spotted frequency, it reports whether that
// suffix/band slot is still open. Only meaningful inside the event window.
func (e *Engine) K3YHits(suffix string, freqKHz float64) []string {
	if !e.settings.Goals["K3Y"] || e.settings.K3YYear == 0 {
		return nil
	}
	now := e.nowFn().UTC()
	start, end := K3YWindow(e.settings.K3YYear)
	if now.Before(start) || !now.Before(end) {
		return nil
	}
	if !validK3YSuffix(suffix) {
		return nil
	}
	band, ok := spot.FreqToBand(freqKHz)
	if !ok {
		return nil
	}
	t := e.Tables()
	if _, seen := t.K3Y[suffix][band]; seen {
		return nil
	}
	return []string{fmt.Sprintf("K3Y/%s (%dm)", suffix, band)}
}

// TargetHits mirrors GoalHits for the counterparty: the levels they could
// advance by working the operator, inferred from their roster dates. The
// roster records one date per tier, so Tx8 is as far as the inference can
// reach; progress past that (Tx9, Tx10) is invisible here and the labels
// stop at Tx8 until the Senator date appears. Unknown callsigns produce no
// hits.
func (e *Engine) TargetHits(call string) []string {
	t := e.Tables()
	m, ok := e.dir.Current().Resolve(call)
	if !ok {
		return nil
	}
	if m.PrimaryCall == e.settings.MyCallsign {
		return nil
	}
	targets := e.settings.Targets
	var hits []string

	if targets["C"] && !m.IsCenturion() {
		hits = append(hits, "C")
	}
	if targets["T"] && t.Me != nil && t.Me.IsCenturion() && m.IsCenturion() {
		switch {
		case !m.IsTribune():
			hits = append(hits, "T")
		case m.TribuneX8Date.IsZero():
			hits = append(hits, "Tx8")
		}
	}
	if targets["S"] && t.Me != nil && !t.Me.TribuneX8Date.IsZero() &&
		!m.TribuneX8Date.IsZero() && !m.IsSenator() {
		hits = append(hits, "S")
	}
	return hits
}

// levelLabel renders a goal label, annotated with the next x-factor once the
// base award is earned ("C" before Centurion, "Cx2" when working toward the
// second hundred).
func levelLabel(code string, count, increment int) string {
	if count < increment {
		return code
	}
	return fmt.Sprintf("%sx%d", code, NextLevel(count, increment))
}

func validK3YSuffix(suffix string) bool {
	switch suffix {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
		"KH6", "KL7", "KP4", "AF", "AS", "EU", "NA", "OC", "SA":
		return true
	}
	return false
}
