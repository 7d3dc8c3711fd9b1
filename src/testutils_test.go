package dtmfstream

import (
	"math"
	"time"
)

// toneFrames slices one continuous sum-of-sines signal into frames, so
// phase carries across frame boundaries the way a live stream's would.
func toneFrames(rate float64, frameLen int, count int, amplitude float64, freqs ...float64) [][]float64 {
	var frames = make([][]float64, count)
	var sample = 0

	for i := range frames {
		var frame = make([]float64, frameLen)

		for j := range frame {
			var t = float64(sample) / rate
			for _, f := range freqs {
				frame[j] += amplitude * math.Sin(2*math.Pi*f*t)
			}
			sample++
		}

		frames[i] = frame
	}

	return frames
}

func silentFrames(frameLen int, count int) [][]float64 {
	var frames = make([][]float64, count)
	for i := range frames {
		frames[i] = make([]float64, frameLen)
	}

	return frames
}

// frameClock hands out evenly spaced timestamps, standing in for the
// cadence of a real capture callback.
type frameClock struct {
	now  time.Time
	step time.Duration
}

func newFrameClock(step time.Duration) *frameClock {
	return &frameClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), step: step}
}

func (c *frameClock) next() time.Time {
	c.now = c.now.Add(c.step)

	return c.now
}
