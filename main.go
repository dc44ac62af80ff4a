// skcc-skimmer watches the Reverse Beacon Network for SKCC members the
// operator still needs, driven by the club roster and the station's ADIF
// contact log.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/K7MJG/skcc-skimmer-sub000/awards"
	"github.com/K7MJG/skcc-skimmer-sub000/config"
	"github.com/K7MJG/skcc-skimmer-sub000/feed"
	"github.com/K7MJG/skcc-skimmer-sub000/notify"
	"github.com/K7MJG/skcc-skimmer-sub000/recorder"
	"github.com/K7MJG/skcc-skimmer-sub000/roster"
	"github.com/K7MJG/skcc-skimmer-sub000/sked"
	"github.com/K7MJG/skcc-skimmer-sub000/spot"
	"github.com/K7MJG/skcc-skimmer-sub000/watch"
)

const (
	shutdownGrace  = 5 * time.Second
	statusInterval = 30 * time.Minute
)

// consoleSink prints accepted spots to stdout, ringing the terminal bell
// when the spot warrants an alert. Log output goes to stderr so the spot
// stream stays pipeable.
type consoleSink struct {
	out io.Writer
}

func (s *consoleSink) Notify(line string, alert bool) {
	if alert {
		fmt.Fprint(s.out, "\a")
	}
	fmt.Fprintln(s.out, line)
}

func main() {
	configPath := flag.String("config", "skcc_skimmer.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	fanout, err := setupLogging(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging: %v (console only)\n", err)
	}
	log.SetFlags(0)
	log.SetOutput(fanout)
	defer fanout.Close()

	cfg.Print()

	dir, err := roster.LoadFile(cfg.RosterFile)
	if err != nil {
		log.Fatalf("roster: %v", err)
	}
	provider := roster.NewProvider(dir)
	log.Printf("roster: %d callsigns loaded from %s", dir.Size(), cfg.RosterFile)

	engine := awards.New(awards.Settings{
		MyCallsign: cfg.Callsign,
		AdiFile:    cfg.AdiFile,
		Goals:      cfg.GoalSet(),
		Targets:    cfg.TargetSet(),
		K3YYear:    cfg.K3YYear,
	}, provider)
	if err := engine.Refresh(); err != nil {
		log.Fatalf("contact log: %v", err)
	}
	for _, line := range engine.StatusLines() {
		log.Printf("progress: %s", line)
	}

	var archive notify.Archiver
	if cfg.Archive.Enabled {
		rec, err := recorder.New(cfg.Archive.Path, cfg.Archive.PerBandLimit)
		if err != nil {
			log.Printf("recorder: %v (archiving disabled)", err)
		} else {
			defer rec.Close()
			archive = rec
		}
	}

	sink := &consoleSink{out: os.Stdout}
	filter := notify.New(cfg, provider, engine, sink, archive)

	feedClient := feed.New(cfg.Feed.Host, cfg.Feed.Port, cfg.Callsign, func(line string) {
		ev, err := spot.Parse(line)
		if err != nil {
			return
		}
		filter.HandleSpot(ev)
	})

	watcher := watch.New(cfg.AdiFile, func() {
		log.Printf("contact log changed, rebuilding award tables")
		if err := engine.Refresh(); err != nil {
			log.Printf("refresh: %v", err)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return feedClient.Run(ctx) })
	g.Go(func() error { return watcher.Run(ctx) })
	if cfg.Sked.Enabled {
		poller := sked.NewPoller(
			sked.NewHTTPFetcher(cfg.Sked.URL),
			time.Duration(cfg.Sked.PollSeconds)*time.Second,
			engine, filter.RecentlySpotted, sink)
		g.Go(func() error { return poller.Run(ctx) })
	}
	g.Go(func() error { return statusTicker(ctx, engine) })

	<-ctx.Done()
	stop()
	log.Printf("shutting down...")

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case <-done:
	case <-time.After(shutdownGrace):
		log.Printf("shutdown: tasks did not stop within %s", shutdownGrace)
	}
	log.Printf("73")
}

// statusTicker logs award progress periodically so long-running sessions
// leave a trail in the daily log.
func statusTicker(ctx context.Context, engine *awards.Engine) error {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, line := range engine.StatusLines() {
				log.Printf("progress: %s", line)
			}
		}
	}
}
