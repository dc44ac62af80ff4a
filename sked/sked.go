// Package sked polls the sked-page status list and surfaces logged-in
// members the operator still needs. Spots already cover on-air activity;
// this catches members who are waiting for a contact instead of calling CQ.
package sked

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/K7MJG/skcc-skimmer-sub000/notify"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Status is one logged-in sked-page user.
type Status struct {
	Call  string
	Notes string
}

// Fetcher retrieves the current status list.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Status, error)
}

// HitSource answers which awards a contact with the call would advance.
// Satisfied by the awards engine.
type HitSource interface {
	GoalHits(call string, freqKHz float64) []string
	TargetHits(call string) []string
}

// HTTPFetcher fetches the status page over HTTP. The page serves a JSON
// array of [callsign, status] pairs.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

func NewHTTPFetcher(url string) *HTTPFetcher {
	return &HTTPFetcher{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sked: status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	return parseStatus(body)
}

func parseStatus(data []byte) ([]Status, error) {
	var rows [][]string
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("sked: parse: %w", err)
	}
	out := make([]Status, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		st := Status{Call: strings.ToUpper(strings.TrimSpace(row[0]))}
		if len(row) > 1 {
			st.Notes = strings.TrimSpace(row[1])
		}
		out = append(out, st)
	}
	return out, nil
}

// Poller periodically fetches the status list and reports members worth a
// sked. Each member is reported once per login session; logging off and back
// on makes them eligible again.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	hits     HitSource
	recently func(call string) bool
	sink     notify.Sink

	lastGood []Status
	reported map[string]bool
}

// NewPoller wires the poller. recently suppresses members already shown by
// the spot pipeline; typically the filter's RecentlySpotted.
func NewPoller(fetcher Fetcher, interval time.Duration, hits HitSource, recently func(string) bool, sink notify.Sink) *Poller {
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		hits:     hits,
		recently: recently,
		sink:     sink,
		reported: make(map[string]bool),
	}
}

// Run polls until ctx is canceled. The first poll happens immediately.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	statuses, err := p.fetcher.Fetch(ctx)
	if err != nil {
		log.Printf("sked: fetch failed: %v (keeping previous status)", err)
		statuses = p.lastGood
	} else {
		p.lastGood = statuses
	}

	current := make(map[string]bool, len(statuses))
	for _, st := range statuses {
		current[st.Call] = true
		if p.reported[st.Call] || p.recently(st.Call) {
			continue
		}
		goalHits := p.hits.GoalHits(st.Call, 0)
		targetHits := p.hits.TargetHits(st.Call)
		if len(goalHits) == 0 && len(targetHits) == 0 {
			continue
		}
		p.reported[st.Call] = true
		p.sink.Notify(formatLine(st, goalHits, targetHits), false)
	}

	// members who logged off become reportable again next time
	for call := range p.reported {
		if !current[call] {
			delete(p.reported, call)
		}
	}
}

func formatLine(st Status, goalHits, targetHits []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "* sked %-10s", st.Call)
	if len(goalHits) > 0 {
		fmt.Fprintf(&b, "  you need: %s", strings.Join(goalHits, ","))
	}
	if len(targetHits) > 0 {
		fmt.Fprintf(&b, "  they need: %s", strings.Join(targetHits, ","))
	}
	if st.Notes != "" {
		fmt.Fprintf(&b, "  %q", st.Notes)
	}
	return b.String()
}
