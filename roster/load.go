package roster

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// The roster snapshot is a pipe-delimited text dump produced by the roster
// fetcher. One member per line:
//
//	number|primary call|name|spc|joined|c date|t date|tx8 date|s date|other calls
//
// Dates use YYYYMMDD and may be empty. The trailing field is a space-separated
// list of secondary callsigns. Blank lines and lines starting with # are
// ignored.
const snapshotFieldCount = 10

const snapshotDateLayout = "20060102"

// LoadFile reads a roster snapshot from disk and builds the directory.
func LoadFile(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: open snapshot: %w", err)
	}
	defer f.Close()

	var members []Member
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m, err := parseSnapshotLine(line)
		if err != nil {
			return nil, fmt.Errorf("roster: line %d: %w", lineNo, err)
		}
		members = append(members, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("roster: read snapshot: %w", err)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("roster: snapshot %s contains no members", path)
	}
	return New(members), nil
}

func parseSnapshotLine(line string) (Member, error) {
	fields := strings.Split(line, "|")
	if len(fields) != snapshotFieldCount {
		return Member{}, fmt.Errorf("expected %d fields, got %d", snapshotFieldCount, len(fields))
	}
	number, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Member{}, fmt.Errorf("bad member number %q", fields[0])
	}
	m := Member{
		Number:      number,
		PrimaryCall: strings.ToUpper(strings.TrimSpace(fields[1])),
		Name:        strings.TrimSpace(fields[2]),
		SPC:         strings.ToUpper(strings.TrimSpace(fields[3])),
	}
	dates := []*time.Time{&m.Joined, &m.CenturionDate, &m.TribuneDate, &m.TribuneX8Date, &m.SenatorDate}
	for i, dst := range dates {
		raw := strings.TrimSpace(fields[4+i])
		if raw == "" {
			continue
		}
		t, err := time.ParseInLocation(snapshotDateLayout, raw, time.UTC)
		if err != nil {
			return Member{}, fmt.Errorf("bad date %q", raw)
		}
		*dst = t
	}
	for _, alias := range strings.Fields(fields[9]) {
		m.OtherCalls = append(m.OtherCalls, strings.ToUpper(alias))
	}
	return m, nil
}
