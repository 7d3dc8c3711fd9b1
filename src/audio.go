package dtmfstream

/*------------------------------------------------------------------
 *
 * Purpose:   	Interface to the audio input device, commonly called a
 *		"sound card" for historical reasons.
 *
 * Description: This wraps PortAudio, which deals with the ALSA / Core
 *		Audio / WASAPI zoo for us.  The capture stream delivers
 *		mono frames to the detector from PortAudio's callback
 *		goroutine; the callback only counts and decodes, never
 *		logs, locks or allocates, because overrunning the buffer
 *		interval drops audio.
 *
 *		The device and configuration are fully checked before
 *		streaming starts, so errors past that point can only be
 *		driver trouble.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
)

var (
	ErrDeviceUnavailable = errors.New("no usable audio input device")
	ErrStreamFailure     = errors.New("audio stream failure")
)

// InputDevice describes one capture-capable device.
type InputDevice struct {
	Name       string
	Channels   int
	SampleRate float64
	Default    bool
}

// ListInputDevices reports every device that can capture audio, in
// host API order, with the system default marked.
func ListInputDevices() ([]InputDevice, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceUnavailable, err)
	}
	defer portaudio.Terminate() //nolint:errcheck

	var all, devErr = portaudio.Devices()
	if devErr != nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceUnavailable, devErr)
	}

	var def, _ = portaudio.DefaultInputDevice()

	var inputs []InputDevice
	for _, dev := range all {
		if dev.MaxInputChannels < 1 {
			continue
		}

		inputs = append(inputs, InputDevice{
			Name:       dev.Name,
			Channels:   dev.MaxInputChannels,
			SampleRate: dev.DefaultSampleRate,
			Default:    def != nil && dev.Name == def.Name,
		})
	}

	return inputs, nil
}

// inputDevice picks the capture device: the system default for an empty
// name, otherwise the first input-capable device whose name contains
// `name` (case-insensitive).
func inputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		var dev, err = portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrDeviceUnavailable, err)
		}

		return dev, nil
	}

	var all, err = portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceUnavailable, err)
	}

	for _, dev := range all {
		if dev.MaxInputChannels > 0 && strings.Contains(strings.ToLower(dev.Name), strings.ToLower(name)) {
			return dev, nil
		}
	}

	return nil, fmt.Errorf("%w: no input device matching %q", ErrDeviceUnavailable, name)
}

// DetectTone listens on the default input device and returns the next
// decoded keypad press.
func DetectTone(cfg Config) (Symbol, error) {
	return DetectToneOnDevice(cfg, "")
}

/*------------------------------------------------------------------
 *
 * Name:        DetectToneOnDevice
 *
 * Purpose:     Decode a single keypad press from a live audio stream.
 *
 * Inputs:	cfg	- Detection settings; validated here, before
 *			  any audio is opened.
 *		device	- Input device name fragment, or "" for the
 *			  system default.
 *
 * Returns:     The decoded symbol, blocking until a complete press-
 *		and-release cycle has been observed.
 *
 *		Errors wrap ErrInvalidConfig or ErrDeviceUnavailable
 *		before streaming starts, and ErrStreamFailure for
 *		driver trouble after.  A stream failure only loses this
 *		attempt; the caller may simply call again.
 *
 *----------------------------------------------------------------*/

func DetectToneOnDevice(cfg Config, device string) (Symbol, error) {
	if err := cfg.Validate(); err != nil {
		return NoSymbol, err
	}

	if err := portaudio.Initialize(); err != nil {
		return NoSymbol, fmt.Errorf("%w: %s", ErrDeviceUnavailable, err)
	}
	defer portaudio.Terminate() //nolint:errcheck

	var dev, devErr = inputDevice(device)
	if devErr != nil {
		return NoSymbol, devErr
	}

	var detector, detErr = NewDetector(cfg, dev.DefaultSampleRate)
	if detErr != nil {
		return NoSymbol, detErr
	}

	// Low latency for short frames: the hang time is only tens of
	// milliseconds, so release timing is only as fine as one buffer.
	var params = portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = 1
	params.FramesPerBuffer = portaudio.FramesPerBufferUnspecified

	var overflows atomic.Int64

	var stream, openErr = portaudio.OpenStream(params, func(in []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		if flags&portaudio.InputOverflow != 0 {
			overflows.Add(1)
		}

		detector.processFloat32(in, time.Now())
	})
	if openErr != nil {
		return NoSymbol, fmt.Errorf("%w: opening stream on %q: %s", ErrDeviceUnavailable, dev.Name, openErr)
	}
	defer stream.Close() //nolint:errcheck

	log.Debug("listening", "device", dev.Name, "rate", dev.DefaultSampleRate)

	if err := stream.Start(); err != nil {
		return NoSymbol, fmt.Errorf("%w: %s", ErrStreamFailure, err)
	}

	var symbol = detector.Wait()

	if err := stream.Stop(); err != nil {
		// The press already decoded; a noisy teardown isn't worth
		// discarding it for.
		log.Warn("stopping stream", "err", err)
	}

	log.Debug("press complete",
		"symbol", symbol,
		"frames", detector.Frames(),
		"overflows", overflows.Load())

	return symbol, nil
}
