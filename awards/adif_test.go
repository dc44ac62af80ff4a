package awards

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adifField(name, value string) string {
	return fmt.Sprintf("<%s:%d>%s ", name, len(value), value)
}

type logRecord struct {
	call, date, timeOn, mode, state, freq, comment string
}

func (r logRecord) render() string {
	var b strings.Builder
	b.WriteString(adifField("CALL", r.call))
	b.WriteString(adifField("QSO_DATE", r.date))
	if r.timeOn != "" {
		b.WriteString(adifField("TIME_ON", r.timeOn))
	}
	if r.mode != "" {
		b.WriteString(adifField("MODE", r.mode))
	}
	if r.state != "" {
		b.WriteString(adifField("STATE", r.state))
	}
	if r.freq != "" {
		b.WriteString(adifField("FREQ", r.freq))
	}
	if r.comment != "" {
		b.WriteString(adifField("COMMENT", r.comment))
	}
	b.WriteString("<EOR>\n")
	return b.String()
}

func writeLog(t *testing.T, records ...logRecord) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Generated by test\n<ADIF_VER:5>3.1.4\n<EOH>\n")
	for _, r := range records {
		b.WriteString(r.render())
	}
	path := filepath.Join(t.TempDir(), "log.adi")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestReadLogBasic(t *testing.T) {
	path := writeLog(t,
		logRecord{call: "k5aaa", date: "20240305", timeOn: "1200", mode: "CW", state: "tx", freq: "14.050", comment: "nice op"},
		logRecord{call: "N0BBB", date: "20240301", timeOn: "061530", mode: "CW"},
	)
	contacts, skipped, err := ReadLog(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, contacts, 2)

	// sorted ascending by timestamp, regardless of file order
	assert.Equal(t, "N0BBB", contacts[0].Call)
	assert.Equal(t, "K5AAA", contacts[1].Call)
	assert.Equal(t, "TX", contacts[1].SPC)
	assert.Equal(t, 14050.0, contacts[1].FreqKHz)
	assert.Equal(t, "nice op", contacts[1].Comment)
	assert.Equal(t, 6, contacts[0].When.Hour())
	assert.Equal(t, 15, contacts[0].When.Minute())
}

func TestReadLogKeepsOnlyCW(t *testing.T) {
	path := writeLog(t,
		logRecord{call: "K5AAA", date: "20240305", mode: "CW"},
		logRecord{call: "K1SSB", date: "20240305", mode: "SSB"},
		logRecord{call: "K1FT8", date: "20240305", mode: "FT8"},
	)
	contacts, skipped, err := ReadLog(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, contacts, 1)
	assert.Equal(t, "K5AAA", contacts[0].Call)
}

func TestReadLogCountsMalformedRecords(t *testing.T) {
	path := writeLog(t,
		logRecord{call: "K5AAA", date: "20240305", mode: "CW"},
		logRecord{call: "K5BAD", date: "2024", mode: "CW"},       // bad date
		logRecord{call: "K5BAD2", date: "20240305", mode: "CW", freq: "x"}, // bad freq
		logRecord{date: "20240305", mode: "CW"},                  // missing call
	)
	contacts, skipped, err := ReadLog(path)
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, contacts, 1)
}

func TestReadLogMissingFile(t *testing.T) {
	_, _, err := ReadLog(filepath.Join(t.TempDir(), "absent.adi"))
	assert.Error(t, err)
}
