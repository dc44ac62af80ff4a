package notify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/K7MJG/skcc-skimmer-sub000/awards"
	"github.com/K7MJG/skcc-skimmer-sub000/config"
	"github.com/K7MJG/skcc-skimmer-sub000/roster"
	"github.com/K7MJG/skcc-skimmer-sub000/spot"
)

type fakeSink struct {
	lines  []string
	alerts []bool
}

func (s *fakeSink) Notify(line string, alert bool) {
	s.lines = append(s.lines, line)
	s.alerts = append(s.alerts, alert)
}

func testProvider() *roster.Provider {
	members := []roster.Member{
		{
			Number: 1, PrimaryCall: "W1ME", SPC: "NH",
			Joined:        time.Date(2008, 5, 1, 0, 0, 0, 0, time.UTC),
			CenturionDate: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Number: 7777, PrimaryCall: "K9NEW", SPC: "IN",
			Joined:        time.Date(2012, 4, 1, 0, 0, 0, 0, time.UTC),
			CenturionDate: time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Number: 55, PrimaryCall: "K5FRD", SPC: "TX",
			Joined: time.Date(2010, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	return roster.NewProvider(roster.New(members))
}

func testConfig() *config.Config {
	cfg := &config.Config{
		Callsign: "W1ME",
		AdiFile:  "unused.adi",
		Goals:    []string{"C", "T"},
		Targets:  []string{"C", "T"},
		Friends:  []string{"K5FRD"},
		Spotters: []config.SpotterConfig{{Call: "K3XYZ", Miles: 120}},
	}
	cfg.Notification.Enabled = true
	cfg.ApplyDefaults()
	return cfg
}

func newTestFilter(t *testing.T, cfg *config.Config) (*Filter, *fakeSink, *awards.Engine) {
	t.Helper()
	adi := filepath.Join(t.TempDir(), "log.adi")
	require.NoError(t, os.WriteFile(adi, []byte("<EOH>\n"), 0o644))

	dir := testProvider()
	engine := awards.New(awards.Settings{
		MyCallsign: cfg.Callsign,
		AdiFile:    adi,
		Goals:      cfg.GoalSet(),
		Targets:    cfg.TargetSet(),
	}, dir)
	require.NoError(t, engine.Refresh())

	sink := &fakeSink{}
	return New(cfg, dir, engine, sink, nil), sink, engine
}

func newEvent() *spot.Event {
	return &spot.Event{
		Zulu:    "1231Z",
		Spotter: "K3XYZ",
		FreqKHz: 14050,
		Call:    "K9NEW",
		SNR:     25,
		WPM:     18,
	}
}

func TestNearbySpotterWithHitsIsDisplayed(t *testing.T) {
	f, sink, _ := newTestFilter(t, testConfig())
	f.HandleSpot(newEvent())

	require.Len(t, sink.lines, 1)
	line := sink.lines[0]
	assert.Contains(t, line, "K9NEW")
	assert.Contains(t, line, "you need: C,T")
	assert.Contains(t, line, "they need: T")
	assert.Contains(t, line, "(K3XYZ @120mi)")
	assert.True(t, sink.alerts[0])
}

func TestFarSpotterIsSuppressed(t *testing.T) {
	f, sink, _ := newTestFilter(t, testConfig())
	ev := newEvent()
	ev.Spotter = "DL1FAR"
	f.HandleSpot(ev)
	assert.Empty(t, sink.lines)
}

func TestFriendAlwaysDisplayed(t *testing.T) {
	f, sink, _ := newTestFilter(t, testConfig())
	ev := newEvent()
	ev.Spotter = "DL1FAR"
	ev.Call = "K5FRD"
	f.HandleSpot(ev)

	require.Len(t, sink.lines, 1)
	assert.Contains(t, sink.lines[0], "friend")
}

func TestOwnCallAlwaysDisplayed(t *testing.T) {
	f, sink, _ := newTestFilter(t, testConfig())
	ev := newEvent()
	ev.Spotter = "DL1FAR"
	ev.Call = "W1ME"
	f.HandleSpot(ev)
	require.Len(t, sink.lines, 1)
}

func TestUnknownCallDropped(t *testing.T) {
	f, sink, _ := newTestFilter(t, testConfig())
	ev := newEvent()
	ev.Call = "XX9XX"
	f.HandleSpot(ev)
	assert.Empty(t, sink.lines)
}

func TestExclusionList(t *testing.T) {
	cfg := testConfig()
	cfg.Exclusions = []string{"K9NEW"}
	f, sink, _ := newTestFilter(t, cfg)
	f.HandleSpot(newEvent())
	assert.Empty(t, sink.lines)
}

func TestOutOfBandDropped(t *testing.T) {
	f, sink, _ := newTestFilter(t, testConfig())
	ev := newEvent()
	ev.FreqKHz = 2500
	f.HandleSpot(ev)
	assert.Empty(t, sink.lines)
}

func TestBandFilterHonorsConfiguredBands(t *testing.T) {
	cfg := testConfig()
	cfg.Bands = []int{40}
	f, sink, _ := newTestFilter(t, cfg)
	f.HandleSpot(newEvent()) // 20m spot
	assert.Empty(t, sink.lines)
}

func TestOffFrequencyPolicies(t *testing.T) {
	cfg := testConfig()
	cfg.OffFrequency.Action = config.ActionSuppress
	f, sink, _ := newTestFilter(t, cfg)
	ev := newEvent()
	ev.FreqKHz = 14200 // in band, nowhere near a calling frequency
	f.HandleSpot(ev)
	assert.Empty(t, sink.lines)

	cfg = testConfig()
	cfg.OffFrequency.Action = config.ActionWarn
	f, sink, _ = newTestFilter(t, cfg)
	ev = newEvent()
	ev.FreqKHz = 14200
	f.HandleSpot(ev)
	require.Len(t, sink.lines, 1)
	assert.Contains(t, sink.lines[0], "[OFF-FREQ]")
}

func TestHighWPMPolicies(t *testing.T) {
	cfg := testConfig()
	cfg.HighWPM.Action = config.ActionSuppress
	cfg.HighWPM.Threshold = 20
	f, sink, _ := newTestFilter(t, cfg)
	ev := newEvent()
	ev.WPM = 28
	f.HandleSpot(ev)
	assert.Empty(t, sink.lines)

	cfg = testConfig()
	cfg.HighWPM.Action = config.ActionWarn
	cfg.HighWPM.Threshold = 20
	f, sink, _ = newTestFilter(t, cfg)
	ev = newEvent()
	ev.WPM = 28
	f.HandleSpot(ev)
	require.Len(t, sink.lines, 1)
	assert.Contains(t, sink.lines[0], "[FAST]")
}

func TestCooldownDedup(t *testing.T) {
	f, sink, _ := newTestFilter(t, testConfig())
	base := time.Date(2026, 6, 20, 12, 0, 0, 0, time.UTC)
	now := base
	f.nowFn = func() time.Time { return now }

	f.HandleSpot(newEvent())
	now = now.Add(10 * time.Second)
	f.HandleSpot(newEvent())

	require.Len(t, sink.lines, 2)
	assert.True(t, sink.alerts[0], "first spot alerts")
	assert.False(t, sink.alerts[1], "repeat within cooldown stays quiet")
	assert.Equal(t, byte('+'), sink.lines[0][0])
	assert.Equal(t, byte(' '), sink.lines[1][0])

	// past the cooldown the same call is new again
	now = base.Add(40 * time.Second)
	f.HandleSpot(newEvent())
	require.Len(t, sink.lines, 3)
	assert.True(t, sink.alerts[2])
	assert.Equal(t, byte('+'), sink.lines[2][0])
}

func TestRecentlySpotted(t *testing.T) {
	f, _, _ := newTestFilter(t, testConfig())
	now := time.Date(2026, 6, 20, 12, 0, 0, 0, time.UTC)
	f.nowFn = func() time.Time { return now }

	assert.False(t, f.RecentlySpotted("K9NEW"))
	f.HandleSpot(newEvent())
	assert.True(t, f.RecentlySpotted("K9NEW"))

	now = now.Add(lastSpottedTTL + time.Minute)
	assert.False(t, f.RecentlySpotted("K9NEW"))
}

func TestEventStationOutsideWindowSuppressed(t *testing.T) {
	f, sink, _ := newTestFilter(t, testConfig())
	ev := newEvent()
	ev.Call = "K3Y"
	ev.Suffix = "5"
	f.HandleSpot(ev)
	// K3Y goal not configured, so no hits, and an event call is neither
	// self nor friend.
	assert.Empty(t, sink.lines)
}

func TestAlertConditionFriendsOnly(t *testing.T) {
	cfg := testConfig()
	cfg.Notification.Condition = []string{"friends"}
	f, sink, _ := newTestFilter(t, cfg)

	f.HandleSpot(newEvent()) // goal/target hits, but condition is friends-only
	require.Len(t, sink.lines, 1)
	assert.False(t, sink.alerts[0])

	ev := newEvent()
	ev.Call = "K5FRD"
	f.HandleSpot(ev)
	require.Len(t, sink.lines, 2)
	assert.True(t, sink.alerts[1])
}
