// Package spot defines the skimmer's spot event structure, the fixed-layout
// RBN line parser, and the band/calling-frequency tables.
package spot

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Event is one decoded feed line.
type Event struct {
	Zulu    string  // time of day as received, e.g. "1231Z"
	Spotter string  // reporting skimmer callsign, SSID stripped
	FreqKHz float64 // spotted frequency in kHz
	Call    string  // spotted callsign without any /SUFFIX
	Suffix  string  // trailing /SUFFIX, upper-cased, empty when absent
	SNR     int     // signal-to-noise in dB
	WPM     int     // measured speed
}

// The feed emits fixed-width 75 character lines. Fields are taken by byte
// position, not by tokenizing, since malformed-but-75-character lines are
// common and must never crash the pipeline.
//
//	0         1         2         3         4         5         6         7
//	0123456789012345678901234567890123456789012345678901234567890123456789012345
//	DX de DK9IP-#:   14036.0  TM750C         CW    29 dB  23 WPM  CQ      1231Z
const LineLength = 75

// Parse rejection reasons, in the order the checks run.
var (
	ErrLineLength   = errors.New("spot: line is not 75 characters")
	ErrNotCW        = errors.New("spot: mode is not CW")
	ErrBeacon       = errors.New("spot: beacon spot")
	ErrBadTime      = errors.New("spot: malformed time field")
	ErrBadSNR       = errors.New("spot: malformed dB field")
	ErrBadWPM       = errors.New("spot: malformed WPM field")
	ErrBadFrequency = errors.New("spot: malformed frequency field")
)

var (
	timeRE = regexp.MustCompile(`^\d{4}Z$`)
	snrRE  = regexp.MustCompile(`^ *\d+ dB$`)
)

// Parse decodes one feed line into an Event. The checks run strictly in
// order: length, mode, beacon marker, time shape, dB shape, WPM integer,
// frequency decimal. Callers log the returned error and drop the line.
func Parse(line string) (*Event, error) {
	if len(line) != LineLength {
		return nil, ErrLineLength
	}
	if strings.TrimRight(line[41:46], " ") != "CW" {
		return nil, ErrNotCW
	}
	if line[62:68] == "BEACON" {
		return nil, ErrBeacon
	}
	zulu := line[70:75]
	if !timeRE.MatchString(zulu) {
		return nil, ErrBadTime
	}
	snrField := line[46:52]
	if !snrRE.MatchString(snrField) {
		return nil, ErrBadSNR
	}
	snr, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(snrField, " dB")))
	if err != nil {
		return nil, ErrBadSNR
	}
	wpm, err := strconv.Atoi(strings.TrimSpace(line[52:56]))
	if err != nil {
		return nil, ErrBadWPM
	}

	spotter, freqStr, found := strings.Cut(line[6:24], "-#:")
	if !found {
		return nil, ErrBadFrequency
	}
	freq, err := strconv.ParseFloat(strings.TrimSpace(freqStr), 64)
	if err != nil {
		return nil, ErrBadFrequency
	}

	call := strings.TrimRight(line[26:41], " ")
	suffix := ""
	// A trailing /SUFFIX is split off; the base call is left untouched for
	// downstream directory resolution.
	if idx := strings.LastIndex(call, "/"); idx > 0 {
		suffix = strings.ToUpper(call[idx+1:])
		call = call[:idx]
	}

	return &Event{
		Zulu:    zulu,
		Spotter: spotter,
		FreqKHz: freq,
		Call:    call,
		Suffix:  suffix,
		SNR:     snr,
		WPM:     wpm,
	}, nil
}
