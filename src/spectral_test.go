package dtmfstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 8000.0

func Test_SpectralAnalyzer_PureTonePair(t *testing.T) {
	var sa = newSpectralAnalyzer(testRate, 0.01)

	var frame = toneFrames(testRate, 512, 1, 0.5, 697, 1209)[0]

	var low, high = sa.analyze(frame)

	// 697 and 1209 clearly present...
	assert.Greater(t, low[0], 0.01)
	assert.Greater(t, high[0], 0.01)

	// ...and dominant within their groups.
	for i := 1; i < 4; i++ {
		assert.Greater(t, low[0], low[i], "697 should out-magnitude %d Hz", LOW_TONES[i])
		assert.Greater(t, high[0], high[i], "1209 should out-magnitude %d Hz", HIGH_TONES[i])
	}
}

func Test_SpectralAnalyzer_Silence(t *testing.T) {
	var sa = newSpectralAnalyzer(testRate, 0.01)

	var low, high = sa.analyze(make([]float64, 512))

	assert.Equal(t, [4]float64{}, low, "silence has no low tones")
	assert.Equal(t, [4]float64{}, high, "silence has no high tones")
}

func Test_SpectralAnalyzer_QuietToneIsAbsent(t *testing.T) {
	var sa = newSpectralAnalyzer(testRate, 0.01)

	// Peak normalized magnitude of a sine is about half its amplitude,
	// so 0.01 amplitude sits safely at or under the 0.01 threshold.
	var frame = toneFrames(testRate, 512, 1, 0.01, 697, 1209)[0]

	var low, high = sa.analyze(frame)

	assert.Equal(t, [4]float64{}, low)
	assert.Equal(t, [4]float64{}, high)
}

// The threshold is "at or below means absent".  Floating point makes
// "exactly at" impossible to hit by construction, so measure the tone's
// magnitude first and use that very value as the threshold.
func Test_SpectralAnalyzer_StrengthBoundary(t *testing.T) {
	var frame = toneFrames(testRate, 512, 1, 0.2, 697)[0]

	var probe = newSpectralAnalyzer(testRate, 1e-9)
	var measured, _ = probe.analyze(frame)
	require.Greater(t, measured[0], 0.0)

	// Threshold exactly at the magnitude: absent.
	var at = newSpectralAnalyzer(testRate, measured[0])
	var low, _ = at.analyze(frame)
	assert.Zero(t, low[0], "a tone at the threshold must not count")

	// Threshold just under it: present, magnitude unchanged.
	var under = newSpectralAnalyzer(testRate, measured[0]*0.999)
	low, _ = under.analyze(frame)
	assert.Equal(t, measured[0], low[0], "a tone above the threshold must count")
}

func Test_SpectralAnalyzer_ReusesPlans(t *testing.T) {
	var sa = newSpectralAnalyzer(testRate, 0.01)

	sa.analyze(make([]float64, 512))
	sa.analyze(make([]float64, 512))
	require.Len(t, sa.ffts, 1, "same frame length should reuse one FFT plan")

	sa.analyze(make([]float64, 256))
	require.Len(t, sa.ffts, 2)
}
