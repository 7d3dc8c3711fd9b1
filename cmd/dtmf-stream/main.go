package main

/*------------------------------------------------------------------
 *
 * Purpose:   	Command line streaming DTMF decoder.
 *
 * Description: Listens on an audio input device and prints each
 *		decoded keypad press as it completes, with no
 *		separator, until interrupted.
 *
 *		Fatal problems (no device, bad settings) stop the
 *		program; a mid-stream driver hiccup only loses the
 *		press in progress, so we log it and keep listening.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	dtmfstream "github.com/lpulley/dtmf-stream/src"
)

func main() {
	var (
		toneTime = pflag.Duration("tone-time", 250*time.Millisecond, "How long a tone must last to count as a press")
		hangTime = pflag.Duration("hang-time", 50*time.Millisecond, "How much silence must follow a press to complete it")
		strength = pflag.Float64("strength", 0.01, "Minimum normalized tone magnitude, in (0, 1), to not be considered noise")
		debounce = pflag.Int("debounce", 3, "Frames of debouncing; higher is steadier but less responsive")

		configFile  = pflag.String("config", "", "Optional YAML settings file (flags take precedence)")
		device      = pflag.String("device", "", "Input device name fragment (default: system default input)")
		listDevices = pflag.Bool("list-devices", false, "List audio input devices and exit")
		verbose     = pflag.BoolP("verbose", "v", false, "Log per-press details to stderr")
		version     = pflag.Bool("version", false, "Print version and exit")
	)

	pflag.Parse()

	if *version {
		dtmfstream.PrintVersion()

		return
	}

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *listDevices {
		var devices, err = dtmfstream.ListInputDevices()
		if err != nil {
			log.Fatal("listing devices", "err", err)
		}

		for _, d := range devices {
			var marker = " "
			if d.Default {
				marker = "*"
			}

			fmt.Printf("%s %s (%d ch, %g Hz)\n", marker, d.Name, d.Channels, d.SampleRate)
		}

		return
	}

	var cfg = dtmfstream.DefaultConfig()

	if *configFile != "" {
		var loaded, err = dtmfstream.LoadConfig(*configFile)
		if err != nil {
			log.Fatal("loading config", "err", err)
		}

		cfg = loaded
	}

	// Flags given on the command line win over the file.
	if pflag.CommandLine.Changed("tone-time") {
		cfg.ToneTime = *toneTime
	}
	if pflag.CommandLine.Changed("hang-time") {
		cfg.HangTime = *hangTime
	}
	if pflag.CommandLine.Changed("strength") {
		cfg.Strength = *strength
	}
	if pflag.CommandLine.Changed("debounce") {
		cfg.Debounce = *debounce
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("bad settings", "err", err)
	}

	for {
		var symbol, err = dtmfstream.DetectToneOnDevice(cfg, *device)

		if errors.Is(err, dtmfstream.ErrStreamFailure) {
			log.Error("stream failed, retrying", "err", err)

			continue
		}

		if err != nil {
			log.Fatal("detection failed", "err", err)
		}

		fmt.Print(symbol)
		os.Stdout.Sync() //nolint:errcheck
	}
}
