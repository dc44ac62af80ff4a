package spot

import "math"

// BandInfo describes an amateur band by its meter designation and frequency
// range in kHz. Tolerance widens the range symmetrically; only 60m carries
// one, since its channelized allocation sits right at the range edges.
type BandInfo struct {
	Meters    int
	Min       float64 // minimum frequency in kHz
	Max       float64 // maximum frequency in kHz
	Tolerance float64 // symmetric slack in kHz
	WARC      bool    // no contests are held on WARC bands
}

var bandTable = []BandInfo{
	{Meters: 160, Min: 1800, Max: 2000},
	{Meters: 80, Min: 3500, Max: 4000},
	{Meters: 60, Min: 5330.5, Max: 5406.4, Tolerance: 1.5},
	{Meters: 40, Min: 7000, Max: 7300},
	{Meters: 30, Min: 10100, Max: 10150, WARC: true},
	{Meters: 20, Min: 14000, Max: 14350},
	{Meters: 17, Min: 18068, Max: 18168, WARC: true},
	{Meters: 15, Min: 21000, Max: 21450},
	{Meters: 12, Min: 24890, Max: 24990, WARC: true},
	{Meters: 10, Min: 28000, Max: 29700},
	{Meters: 6, Min: 50000, Max: 54000},
}

// callingFrequencies lists the club calling frequencies in kHz per band.
var callingFrequencies = map[int][]float64{
	160: {1813.5},
	80:  {3530, 3550},
	40:  {7038, 7055, 7114},
	30:  {10120},
	20:  {14050, 14114},
	17:  {18080},
	15:  {21050, 21114},
	12:  {24910},
	10:  {28050, 28114},
	6:   {50090},
}

// Contains reports whether the frequency falls inside the band, respecting
// its tolerance.
func (b BandInfo) Contains(freqKHz float64) bool {
	return freqKHz >= b.Min-b.Tolerance && freqKHz <= b.Max+b.Tolerance
}

// FreqToBand maps a kHz frequency to its band. Returns 0, false when the
// frequency is outside every known band.
func FreqToBand(freqKHz float64) (int, bool) {
	for _, b := range bandTable {
		if b.Contains(freqKHz) {
			return b.Meters, true
		}
	}
	return 0, false
}

// IsWARC reports whether the band is one of the contest-free WARC bands.
func IsWARC(meters int) bool {
	for _, b := range bandTable {
		if b.Meters == meters {
			return b.WARC
		}
	}
	return false
}

// OnCallingFrequency reports whether the frequency sits within toleranceKHz
// of one of the band's calling frequencies.
func OnCallingFrequency(freqKHz, toleranceKHz float64) bool {
	band, ok := FreqToBand(freqKHz)
	if !ok {
		return false
	}
	for _, cf := range callingFrequencies[band] {
		if math.Abs(freqKHz-cf) <= toleranceKHz {
			return true
		}
	}
	return false
}

// InConfiguredBand reports whether the frequency falls inside one of the
// bands the operator enabled.
func InConfiguredBand(freqKHz float64, bands []int) bool {
	band, ok := FreqToBand(freqKHz)
	if !ok {
		return false
	}
	for _, m := range bands {
		if m == band {
			return true
		}
	}
	return false
}
