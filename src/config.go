package dtmfstream

/*------------------------------------------------------------------
 *
 * Purpose:   	Detection settings, their defaults, and validation.
 *
 * Description: Settings can come from an optional YAML file plus
 *		command line flags.  Times are written as seconds in
 *		the file (0.25, not "250ms") to match how people think
 *		about tone durations.
 *
 *		Everything is validated before any audio streaming
 *		starts; a bad value never gets as far as the callback.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// ToneTime is how long a tone must stay confirmed before it
	// counts as a deliberate press.
	ToneTime time.Duration

	// HangTime is how long silence (or a different tone) must follow
	// a press before the press is considered released and final.
	HangTime time.Duration

	// Strength is the minimum normalized spectral magnitude, in
	// (0, 1), for a tone to be treated as present rather than noise.
	Strength float64

	// Debounce is how many consecutive frames must agree before the
	// confirmed tone changes.  Higher is steadier but less responsive.
	Debounce int
}

func DefaultConfig() Config {
	return Config{
		ToneTime: 250 * time.Millisecond,
		HangTime: 50 * time.Millisecond,
		Strength: 0.01,
		Debounce: 3,
	}
}

func (c Config) Validate() error {
	if c.ToneTime <= 0 {
		return fmt.Errorf("%w: tone time must be positive, got %s", ErrInvalidConfig, c.ToneTime)
	}

	if c.HangTime <= 0 {
		return fmt.Errorf("%w: hang time must be positive, got %s", ErrInvalidConfig, c.HangTime)
	}

	if c.Strength <= 0 || c.Strength >= 1 {
		return fmt.Errorf("%w: strength must be in (0, 1), got %g", ErrInvalidConfig, c.Strength)
	}

	if c.Debounce < 1 {
		return fmt.Errorf("%w: debounce must be at least 1, got %d", ErrInvalidConfig, c.Debounce)
	}

	return nil
}

// On-disk shape.  Durations are float seconds; omitted keys keep their
// defaults.
type fileConfig struct {
	ToneTime *float64 `yaml:"tone_time"`
	HangTime *float64 `yaml:"hang_time"`
	Strength *float64 `yaml:"strength"`
	Debounce *int     `yaml:"debounce"`
}

// LoadConfig reads a YAML settings file over the defaults.  The result
// is validated before being returned.
func LoadConfig(path string) (Config, error) {
	var cfg = DefaultConfig()

	var data, readErr = os.ReadFile(path)
	if readErr != nil {
		return cfg, fmt.Errorf("reading config: %w", readErr)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("%w: %s: %s", ErrInvalidConfig, path, err)
	}

	if fc.ToneTime != nil {
		cfg.ToneTime = secondsToDuration(*fc.ToneTime)
	}
	if fc.HangTime != nil {
		cfg.HangTime = secondsToDuration(*fc.HangTime)
	}
	if fc.Strength != nil {
		cfg.Strength = *fc.Strength
	}
	if fc.Debounce != nil {
		cfg.Debounce = *fc.Debounce
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
