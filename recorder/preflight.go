package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const preflightTimeout = 2 * time.Second

// preflight checks an existing archive before the main open path. A corrupt
// or stalled SQLite file must not block startup, so anything that fails a
// bounded checkpoint plus quick_check is renamed out of the way and the
// recorder starts over with a fresh file.
func preflight(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), preflightTimeout)
	defer cancel()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return quarantine(path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, cpErr := db.ExecContext(ctx, "pragma wal_checkpoint(TRUNCATE)")
	qcErr := quickCheck(ctx, db)
	db.Close()

	if cpErr == nil && qcErr == nil {
		return nil
	}
	if cpErr != nil {
		return quarantine(path, cpErr)
	}
	return quarantine(path, qcErr)
}

func quickCheck(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, "pragma quick_check")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			return err
		}
		if strings.TrimSpace(status) != "ok" {
			return fmt.Errorf("quick_check reported %q", status)
		}
	}
	return rows.Err()
}

// quarantine renames the archive and its sidecar files to a timestamped
// .bad-* name so the next open starts clean. The old rows stay on disk for
// manual inspection.
func quarantine(path string, cause error) error {
	ts := time.Now().UTC().Format("20060102T150405Z")
	log.Printf("recorder: archive %s failed preflight (%v), quarantining", path, cause)
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := os.Rename(p, p+".bad-"+ts); err != nil {
			return fmt.Errorf("recorder: quarantine %s: %w", p, err)
		}
	}
	return nil
}
