package dtmfstream

/*------------------------------------------------------------------
 *
 * Purpose:   	Per-frame spectral analysis for the eight DTMF tones.
 *
 * Description: Takes one frame of mono samples, runs a real-input FFT,
 *		and reads back the magnitude of the spectral bin nearest
 *		each canonical frequency.  Magnitudes are normalized by
 *		the frame length so the strength threshold is independent
 *		of frame size.
 *
 *		This runs inside the audio callback, so the FFT plan for
 *		each frame length is built once and reused.  The driver
 *		normally delivers a fixed frame size, meaning one plan
 *		for the life of the stream.
 *
 *---------------------------------------------------------------*/

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

type spectralAnalyzer struct {
	sampleRate float64
	strength   float64

	ffts  map[int]*fourier.FFT // keyed by frame length
	coeff []complex128         // scratch for FFT output
}

func newSpectralAnalyzer(sampleRate float64, strength float64) *spectralAnalyzer {
	return &spectralAnalyzer{
		sampleRate: sampleRate,
		strength:   strength,
		ffts:       make(map[int]*fourier.FFT),
	}
}

/*------------------------------------------------------------------
 *
 * Name:        analyze
 *
 * Purpose:     Estimate the strength of each DTMF tone in one frame.
 *
 * Inputs:	samples	- One frame of mono audio.  Must be non-empty.
 *
 * Returns:     Normalized magnitude per low-group and high-group tone,
 *		in the same order as LOW_TONES / HIGH_TONES.  A zero
 *		entry means the tone is absent: not usefully above the
 *		configured strength threshold.  Silence gives all zeros,
 *		which is a normal result, not an error.
 *
 *----------------------------------------------------------------*/

func (sa *spectralAnalyzer) analyze(samples []float64) (low [4]float64, high [4]float64) {
	var n = len(samples)

	var fft = sa.ffts[n]
	if fft == nil {
		fft = fourier.NewFFT(n)
		sa.ffts[n] = fft
	}

	// Coefficients demands dst be exactly n/2+1 long (or nil).
	if len(sa.coeff) != n/2+1 {
		sa.coeff = make([]complex128, n/2+1)
	}

	sa.coeff = fft.Coefficients(sa.coeff, samples)

	for i, tone := range LOW_TONES {
		low[i] = sa.magnitudeAt(tone, n)
	}

	for i, tone := range HIGH_TONES {
		high[i] = sa.magnitudeAt(tone, n)
	}

	return low, high
}

// magnitudeAt reads the normalized magnitude of the bin nearest freq,
// zeroing anything at or below the strength threshold.
func (sa *spectralAnalyzer) magnitudeAt(freq int, n int) float64 {
	// Bin spacing is sampleRate/n, so the nearest bin is freq/(spacing),
	// rounded.  Clamp to the top bin for tiny frames where the canonical
	// frequency sits above Nyquist.
	var bin = int(math.Round(float64(freq) * float64(n) / sa.sampleRate))
	if bin >= len(sa.coeff) {
		bin = len(sa.coeff) - 1
	}

	var magnitude = cmplx.Abs(sa.coeff[bin]) / float64(n)

	if magnitude <= sa.strength {
		return 0
	}

	return magnitude
}
