package awards

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Contact is one logged QSO. The list handed to the table builders is always
// sorted ascending by When; every award rule depends on that ordering.
type Contact struct {
	When    time.Time
	Call    string
	SPC     string
	FreqKHz float64 // 0 when the log record carries no frequency
	Comment string
}

var adifFieldRE = regexp.MustCompile(`(?i)<(\w+):(\d+)(?::[^>]*)?>`)

// ReadLog reads an ADIF contact log and returns the CW contacts in
// chronological order. Records that cannot be decoded are counted and
// skipped, never fatal; the count lets the caller log one summary line.
func ReadLog(path string) ([]Contact, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("awards: read log: %w", err)
	}

	body := string(data)
	// Everything before <EOH> is header.
	if idx := strings.Index(strings.ToUpper(body), "<EOH>"); idx >= 0 {
		body = body[idx+len("<EOH>"):]
	}

	var contacts []Contact
	skipped := 0
	for _, record := range splitRecords(body) {
		c, ok := parseRecord(record)
		if !ok {
			skipped++
			continue
		}
		if c == nil {
			continue // non-CW, not an error
		}
		contacts = append(contacts, *c)
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].When.Before(contacts[j].When)
	})
	return contacts, skipped, nil
}

func splitRecords(body string) []string {
	var records []string
	for {
		idx := strings.Index(strings.ToUpper(body), "<EOR>")
		if idx < 0 {
			break
		}
		rec := strings.TrimSpace(body[:idx])
		if rec != "" {
			records = append(records, rec)
		}
		body = body[idx+len("<EOR>"):]
	}
	return records
}

// parseRecord decodes one ADIF record. Returns (nil, true) for valid records
// in a mode other than CW, and (nil, false) for records missing required
// fields or with malformed values.
func parseRecord(record string) (*Contact, bool) {
	fields := make(map[string]string)
	for {
		loc := adifFieldRE.FindStringSubmatchIndex(record)
		if loc == nil {
			break
		}
		name := strings.ToUpper(record[loc[2]:loc[3]])
		length, err := strconv.Atoi(record[loc[4]:loc[5]])
		if err != nil || loc[1]+length > len(record) {
			return nil, false
		}
		fields[name] = strings.TrimSpace(record[loc[1] : loc[1]+length])
		record = record[loc[1]+length:]
	}

	if !strings.EqualFold(fields["MODE"], "CW") {
		return nil, true
	}
	call := strings.ToUpper(fields["CALL"])
	date := fields["QSO_DATE"]
	if call == "" || date == "" {
		return nil, false
	}
	timeOn := fields["TIME_ON"]
	switch len(timeOn) {
	case 0:
		timeOn = "000000"
	case 4:
		timeOn += "00"
	case 6:
	default:
		return nil, false
	}
	when, err := time.ParseInLocation("20060102 150405", date+" "+timeOn, time.UTC)
	if err != nil {
		return nil, false
	}

	freqKHz := 0.0
	if raw := fields["FREQ"]; raw != "" {
		mhz, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		freqKHz = mhz * 1000
	}

	return &Contact{
		When:    when,
		Call:    call,
		SPC:     strings.ToUpper(fields["STATE"]),
		FreqKHz: freqKHz,
		Comment: fields["COMMENT"],
	}, true
}
