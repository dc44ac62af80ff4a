// Package recorder persists a bounded number of accepted spots per band to
// SQLite for offline review without slowing the live pipeline.
package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/K7MJG/skcc-skimmer-sub000/spot"

	_ "modernc.org/sqlite"
)

// Recorder archives displayed spots. Inserts run on their own goroutine so
// the ingestion path never waits on disk.
type Recorder struct {
	db            *sql.DB
	perBandLimit  int
	mu            sync.Mutex
	perBandCounts map[int]int
}

// New opens (or creates) the SQLite database at path and ensures the schema
// exists. perBandLimit caps how many rows each band may accumulate per run.
func New(path string, perBandLimit int) (*Recorder, error) {
	if perBandLimit <= 0 {
		return nil, errors.New("recorder: per-band limit must be > 0")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("recorder: ensure dir: %w", err)
		}
	}
	if err := preflight(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("recorder: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Recorder{
		db:            db,
		perBandLimit:  perBandLimit,
		perBandCounts: make(map[int]int),
	}, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS spot_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    zulu TEXT,
    spotter TEXT,
    callsign TEXT,
    frequency REAL,
    band INTEGER,
    snr INTEGER,
    wpm INTEGER,
    fresh INTEGER,
    received_at INTEGER
);`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Record inserts the spot if the band's limit has not been reached. It
// satisfies the notification pipeline's archiver hook.
func (r *Recorder) Record(ev *spot.Event, band int, fresh bool) {
	if r == nil || r.db == nil || ev == nil {
		return
	}
	r.mu.Lock()
	count := r.perBandCounts[band]
	if count >= r.perBandLimit {
		r.mu.Unlock()
		return
	}
	r.perBandCounts[band] = count + 1
	r.mu.Unlock()

	go r.insert(ev, band, fresh)
}

func (r *Recorder) insert(ev *spot.Event, band int, fresh bool) {
	freshVal := 0
	if fresh {
		freshVal = 1
	}
	_, err := r.db.Exec(`
INSERT INTO spot_records (
    zulu, spotter, callsign, frequency, band, snr, wpm, fresh, received_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Zulu, ev.Spotter, ev.Call, ev.FreqKHz, band, ev.SNR, ev.WPM,
		freshVal, time.Now().UTC().Unix())
	if err != nil {
		// Archive writes are best effort; one failed row is not worth
		// the pipeline's attention beyond counting it back.
		r.mu.Lock()
		r.perBandCounts[band]--
		r.mu.Unlock()
	}
}

// Count returns the number of archived rows for a band. For tests and the
// shutdown summary.
func (r *Recorder) Count(band int) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM spot_records WHERE band = ?`, band).Scan(&n)
	return n, err
}
