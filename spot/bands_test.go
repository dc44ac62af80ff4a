package spot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreqToBand(t *testing.T) {
	cases := []struct {
		freq float64
		band int
		ok   bool
	}{
		{1813.5, 160, true},
		{3550, 80, true},
		{7055, 40, true},
		{10120, 30, true},
		{14050, 20, true},
		{21050, 15, true},
		{28050, 10, true},
		{50090, 6, true},
		{2500, 0, false},
		{0, 0, false},
	}
	for _, tc := range cases {
		band, ok := FreqToBand(tc.freq)
		assert.Equal(t, tc.ok, ok, "freq %.1f", tc.freq)
		assert.Equal(t, tc.band, band, "freq %.1f", tc.freq)
	}
}

// 60m is channelized right at the band edges, so it gets a small symmetric
// tolerance.
func TestSixtyMeterTolerance(t *testing.T) {
	band, ok := FreqToBand(5330.0) // 0.5 kHz below nominal minimum
	assert.True(t, ok)
	assert.Equal(t, 60, band)

	band, ok = FreqToBand(5407.0) // 0.6 kHz above nominal maximum
	assert.True(t, ok)
	assert.Equal(t, 60, band)

	_, ok = FreqToBand(5320.0)
	assert.False(t, ok)
}

func TestOnCallingFrequency(t *testing.T) {
	assert.True(t, OnCallingFrequency(14050, 10))
	assert.True(t, OnCallingFrequency(14058.5, 10))
	assert.False(t, OnCallingFrequency(14070, 10))
	assert.True(t, OnCallingFrequency(7047.9, 10)) // within 10 kHz of 7038
	assert.False(t, OnCallingFrequency(2500, 10))  // outside any band
}

func TestWARCBands(t *testing.T) {
	assert.True(t, IsWARC(30))
	assert.True(t, IsWARC(17))
	assert.True(t, IsWARC(12))
	assert.False(t, IsWARC(20))
	assert.False(t, IsWARC(99))
}

func TestInConfiguredBand(t *testing.T) {
	bands := []int{40, 20}
	assert.True(t, InConfiguredBand(7055, bands))
	assert.True(t, InConfiguredBand(14050, bands))
	assert.False(t, InConfiguredBand(21050, bands))
	assert.False(t, InConfiguredBand(2500, bands))
}
