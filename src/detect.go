package dtmfstream

/*------------------------------------------------------------------
 *
 * Purpose:   	Decide when a keypad press has started and ended.
 *
 * Description: Each audio frame is reduced to a raw symbol, debounced
 *		against frame-to-frame flicker, and then fed through a
 *		timing state machine:
 *
 *		waiting for press:  a tone confirmed for longer than
 *		ToneTime counts as a press.
 *
 *		waiting for release:  once pressed, sustained silence or
 *		mismatch for longer than HangTime makes the press final.
 *		Seeing the confirmed tone again cancels the hang wait
 *		and goes back to waiting.
 *
 *		Time accounting uses the wall-clock delta between
 *		callback invocations, not sample counts, so scheduling
 *		jitter is charged to the current tone like the ear would.
 *
 *		ProcessFrame runs inside the audio callback and must not
 *		block.  Completion is published by closing a channel;
 *		everything else in DetectionState stays owned by the
 *		callback goroutine.
 *
 *---------------------------------------------------------------*/

import (
	"time"
)

// StreamAction tells the audio adapter what to do after a frame.
type StreamAction int

const (
	StreamContinue StreamAction = iota
	StreamStop
)

// DetectionState is the per-attempt decoding state.  It has exactly one
// writer, the frame callback; only Done (via the Detector's channel)
// is visible to other goroutines before the attempt finishes.
type DetectionState struct {
	RawTone       Symbol        // last frame's matched symbol
	RawCount      int           // consecutive frames RawTone has repeated
	ConfirmedTone Symbol        // symbol that has survived debouncing
	Elapsed       time.Duration // time since ConfirmedTone last changed
	Pressed       Symbol        // set while waiting out the hang time
	Done          bool          // terminal; never reset
}

// observe runs the debounce filter for one frame's raw symbol.
// A tone only becomes ConfirmedTone after `debounce` consecutive
// identical raw readings, so one noisy frame can't flip it.
func (s *DetectionState) observe(raw Symbol, debounce int) {
	if raw == s.RawTone {
		if s.RawCount < debounce {
			s.RawCount++
		} else if raw != s.ConfirmedTone {
			s.ConfirmedTone = raw
			s.Elapsed = 0
		}
	} else {
		s.RawTone = raw
		s.RawCount = 1
	}
}

/*------------------------------------------------------------------
 *
 * Name:        advance
 *
 * Purpose:     Run the press/hang state machine for one frame.
 *
 * Inputs:	delta	- Wall-clock time since the previous frame.
 *
 * Returns:     true once the press is complete and final.
 *
 * Description: Both timing comparisons are strictly greater-than: a
 *		tone confirmed for exactly ToneTime is not yet a press,
 *		and silence for exactly HangTime is not yet a release.
 *
 *		While waiting for release, the raw tone matching the
 *		confirmed tone reverts us to waiting for press, even if
 *		that reappearance is just noise bouncing after a real
 *		release.  Deliberate: this matches long-standing decoder
 *		behavior, and the tests pin it.
 *
 *----------------------------------------------------------------*/

func (s *DetectionState) advance(delta time.Duration, toneTime time.Duration, hangTime time.Duration) bool {
	s.Elapsed += delta

	if s.Pressed == NoSymbol {
		if s.ConfirmedTone != NoSymbol && s.Elapsed > toneTime {
			s.Pressed = s.ConfirmedTone
		}

		return false
	}

	if s.ConfirmedTone == s.RawTone && s.ConfirmedTone != NoSymbol {
		s.Pressed = NoSymbol

		return false
	}

	if s.Elapsed > hangTime {
		s.Done = true
	}

	return s.Done
}

// Detector decodes one keypad press from a stream of audio frames.
type Detector struct {
	cfg      Config
	analyzer *spectralAnalyzer

	state    DetectionState
	lastTime time.Time
	haveLast bool
	frames   int

	scratch []float64
	done    chan struct{}
}

// NewDetector validates the configuration and prepares a detector for
// one press at the given device sample rate.
func NewDetector(cfg Config, sampleRate float64) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Detector{
		cfg:      cfg,
		analyzer: newSpectralAnalyzer(sampleRate, cfg.Strength),
		done:     make(chan struct{}),
	}, nil
}

/*------------------------------------------------------------------
 *
 * Name:        ProcessFrame
 *
 * Purpose:     Consume one frame of mono audio from the capture
 *		callback and advance the decoding state.
 *
 * Inputs:	samples	- The frame.  An empty frame is treated as
 *			  "no tone observed", never an error.
 *		now	- Wall-clock time of this invocation.
 *
 * Returns:     StreamStop once the press is final (and for any frame
 *		delivered after that); StreamContinue otherwise.
 *
 *----------------------------------------------------------------*/

func (d *Detector) ProcessFrame(samples []float64, now time.Time) StreamAction {
	if d.state.Done {
		return StreamStop
	}

	d.frames++

	var raw = NoSymbol
	if len(samples) > 0 {
		var low, high = d.analyzer.analyze(samples)
		raw = matchTone(low, high)
	}

	d.state.observe(raw, d.cfg.Debounce)

	// No delta on the very first frame: elapsed time starts counting
	// between callbacks, not from whenever the detector was built.
	var delta time.Duration
	if d.haveLast {
		delta = now.Sub(d.lastTime)
	}
	d.lastTime = now
	d.haveLast = true

	if d.state.advance(delta, d.cfg.ToneTime, d.cfg.HangTime) {
		close(d.done)

		return StreamStop
	}

	return StreamContinue
}

// processFloat32 adapts the capture callback's sample format, reusing
// one scratch buffer so the callback stays allocation-free after the
// first frame.
func (d *Detector) processFloat32(samples []float32, now time.Time) StreamAction {
	if cap(d.scratch) < len(samples) {
		d.scratch = make([]float64, len(samples))
	}
	d.scratch = d.scratch[:len(samples)]

	for i, s := range samples {
		d.scratch[i] = float64(s)
	}

	return d.ProcessFrame(d.scratch, now)
}

// Done is closed when the press is final.  Safe to receive from any
// goroutine.
func (d *Detector) Done() <-chan struct{} {
	return d.done
}

// Wait blocks, without burning CPU, until the press is final, then
// returns the decoded symbol.
func (d *Detector) Wait() Symbol {
	<-d.done

	return d.state.Pressed
}

// Frames reports how many frames were processed.  Only valid after the
// detector is done; used for the post-run debug summary.
func (d *Detector) Frames() int {
	return d.frames
}
