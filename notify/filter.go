// Package notify decides which parsed spots the operator actually sees. It
// resolves spotted callsigns against the member directory, applies the band,
// frequency and speed policies, annotates award goal/target hits, and
// deduplicates repeats within a cooldown window.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/K7MJG/skcc-skimmer-sub000/awards"
	"github.com/K7MJG/skcc-skimmer-sub000/config"
	"github.com/K7MJG/skcc-skimmer-sub000/roster"
	"github.com/K7MJG/skcc-skimmer-sub000/spot"
)

// Sink receives one formatted line per accepted spot. alert asks for the
// audible side effect on top of the line.
type Sink interface {
	Notify(line string, alert bool)
}

// Archiver records accepted spots for offline review. Implementations must
// be cheap; errors are theirs to log.
type Archiver interface {
	Record(ev *spot.Event, band int, fresh bool)
}

// lastSpottedTTL controls the "recently spotted" table consulted by the sked
// poller; deliberately longer than the alert cooldown.
const lastSpottedTTL = 15 * time.Minute

// Filter is the per-spot decision pipeline. All mutation of the cooldown and
// last-spotted caches happens on the ingestion goroutine; other goroutines
// only read through RecentlySpotted.
type Filter struct {
	cfg      *config.Config
	friends  map[string]bool
	excluded map[string]bool
	spotters map[string]int // nearby spotter call -> miles
	alertOn  map[string]bool

	dir    *roster.Provider
	engine *awards.Engine
	sink   Sink

	archive     Archiver
	cooldown    *ttlCache
	lastSpotted *ttlCache
	nowFn       func() time.Time
}

// New builds the filter from the validated configuration and its
// collaborators. archive may be nil.
func New(cfg *config.Config, dir *roster.Provider, engine *awards.Engine, sink Sink, archive Archiver) *Filter {
	friends := make(map[string]bool, len(cfg.Friends))
	for _, f := range cfg.Friends {
		friends[f] = true
	}
	excluded := make(map[string]bool, len(cfg.Exclusions))
	for _, e := range cfg.Exclusions {
		excluded[e] = true
	}
	spotters := make(map[string]int, len(cfg.Spotters))
	for _, s := range cfg.Spotters {
		spotters[s.Call] = s.Miles
	}
	alertOn := make(map[string]bool, len(cfg.Notification.Condition))
	for _, c := range cfg.Notification.Condition {
		alertOn[c] = true
	}
	return &Filter{
		cfg:         cfg,
		friends:     friends,
		excluded:    excluded,
		spotters:    spotters,
		alertOn:     alertOn,
		dir:         dir,
		engine:      engine,
		sink:        sink,
		archive:     archive,
		cooldown:    newTTLCache(time.Duration(cfg.Notification.DelaySeconds) * time.Second),
		lastSpotted: newTTLCache(lastSpottedTTL),
		nowFn:       time.Now,
	}
}

// RecentlySpotted reports whether the call was displayed within the
// last-spotted window. Used by the sked poller to avoid duplicate reports.
func (f *Filter) RecentlySpotted(call string) bool {
	return f.lastSpotted.Live(call, f.nowFn())
}

// HandleSpot runs one decoded spot through the pipeline. Rejections are
// silent; the feed is noisy and most spots are not interesting.
func (f *Filter) HandleSpot(ev *spot.Event) {
	raw := strings.ToUpper(ev.Call)
	isEvent := awards.IsEventCall(raw)

	var member *roster.Member
	displayCall := raw
	if isEvent {
		if ev.Suffix != "" {
			displayCall = raw + "/" + ev.Suffix
		}
	} else {
		m, ok := f.dir.Current().Resolve(rawWithSuffix(raw, ev.Suffix))
		if !ok {
			f.bustedHint(raw)
			return
		}
		member = m
		displayCall = member.PrimaryCall
	}

	if f.excluded[raw] || (member != nil && f.excluded[member.PrimaryCall]) {
		return
	}
	if !spot.InConfiguredBand(ev.FreqKHz, f.cfg.Bands) {
		return
	}

	var notes []string
	// The special-event stations camp wherever they like; only members get
	// the calling-frequency policy.
	if !isEvent && !spot.OnCallingFrequency(ev.FreqKHz, f.cfg.OffFrequency.ToleranceKHz) {
		switch f.cfg.OffFrequency.Action {
		case config.ActionSuppress:
			return
		case config.ActionWarn:
			notes = append(notes, "OFF-FREQ")
		}
	}
	if ev.WPM > f.cfg.HighWPM.Threshold {
		switch f.cfg.HighWPM.Action {
		case config.ActionSuppress:
			return
		case config.ActionWarn:
			notes = append(notes, "FAST")
		}
	}

	var goalHits, targetHits []string
	if isEvent {
		goalHits = f.engine.K3YHits(ev.Suffix, ev.FreqKHz)
	} else {
		goalHits = f.engine.GoalHits(member.PrimaryCall, ev.FreqKHz)
		targetHits = f.engine.TargetHits(member.PrimaryCall)
	}

	isSelf := raw == f.cfg.Callsign || (member != nil && member.PrimaryCall == f.cfg.Callsign)
	isFriend := member != nil && (f.friends[member.PrimaryCall] || f.friends[raw])
	miles, nearby := f.spotters[strings.ToUpper(ev.Spotter)]

	interesting := len(goalHits) > 0 || len(targetHits) > 0
	if !(nearby && interesting) && !isSelf && !isFriend {
		return
	}

	now := f.nowFn()
	fresh := !f.cooldown.Live(displayCall, now)
	f.lastSpotted.Mark(displayCall, now)
	if fresh {
		f.cooldown.Mark(displayCall, now)
	}

	alert := fresh && f.cfg.Notification.Enabled && f.wantsAlert(goalHits, targetHits, isFriend)
	line := f.formatLine(ev, displayCall, goalHits, targetHits, notes, miles, nearby, fresh, isFriend)
	f.sink.Notify(line, alert)

	if f.archive != nil {
		if band, ok := spot.FreqToBand(ev.FreqKHz); ok {
			f.archive.Record(ev, band, fresh)
		}
	}
}

func (f *Filter) wantsAlert(goalHits, targetHits []string, isFriend bool) bool {
	switch {
	case f.alertOn["goals"] && len(goalHits) > 0:
		return true
	case f.alertOn["targets"] && len(targetHits) > 0:
		return true
	case f.alertOn["friends"] && isFriend:
		return true
	}
	return false
}

func (f *Filter) formatLine(ev *spot.Event, call string, goalHits, targetHits, notes []string, miles int, nearby, fresh, isFriend bool) string {
	marker := " "
	if fresh {
		marker = "+"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %-10s %8.1f %3ddB %2dWPM", marker, ev.Zulu, call, ev.FreqKHz, ev.SNR, ev.WPM)
	if len(goalHits) > 0 {
		fmt.Fprintf(&b, "  you need: %s", strings.Join(goalHits, ","))
	}
	if len(targetHits) > 0 {
		fmt.Fprintf(&b, "  they need: %s", strings.Join(targetHits, ","))
	}
	if isFriend {
		b.WriteString("  friend")
	}
	for _, n := range notes {
		fmt.Fprintf(&b, "  [%s]", n)
	}
	if nearby {
		fmt.Fprintf(&b, "  (%s @%dmi)", ev.Spotter, miles)
	}
	return b.String()
}

// rawWithSuffix reattaches the parser-split suffix so directory resolution
// can consider both halves of a PREFIX/SUFFIX call.
func rawWithSuffix(call, suffix string) string {
	if suffix == "" {
		return call
	}
	return call + "/" + suffix
}
