package dtmfstream

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DefaultConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func Test_Config_Validate(t *testing.T) {
	var cases = map[string]func(*Config){
		"zero tone time":     func(c *Config) { c.ToneTime = 0 },
		"negative tone time": func(c *Config) { c.ToneTime = -time.Second },
		"zero hang time":     func(c *Config) { c.HangTime = 0 },
		"zero strength":      func(c *Config) { c.Strength = 0 },
		"strength of one":    func(c *Config) { c.Strength = 1 },
		"strength above one": func(c *Config) { c.Strength = 1.5 },
		"zero debounce":      func(c *Config) { c.Debounce = 0 },
	}

	for name, breakIt := range cases {
		t.Run(name, func(t *testing.T) {
			var cfg = DefaultConfig()
			breakIt(&cfg)

			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	var path = filepath.Join(t.TempDir(), "dtmf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func Test_LoadConfig(t *testing.T) {
	var path = writeConfigFile(t, "tone_time: 0.5\ndebounce: 4\n")

	var cfg, err = LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.ToneTime)
	assert.Equal(t, 4, cfg.Debounce)

	// Unmentioned keys keep their defaults.
	assert.Equal(t, DefaultConfig().HangTime, cfg.HangTime)
	assert.Equal(t, DefaultConfig().Strength, cfg.Strength)
}

func Test_LoadConfig_RejectsBadValues(t *testing.T) {
	var path = writeConfigFile(t, "strength: 2.0\n")

	var _, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func Test_LoadConfig_RejectsBadYAML(t *testing.T) {
	var path = writeConfigFile(t, "tone_time: [not a number\n")

	var _, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func Test_LoadConfig_MissingFile(t *testing.T) {
	var _, err = LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func Test_SecondsToDuration(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, secondsToDuration(0.25))
	assert.Equal(t, 50*time.Millisecond, secondsToDuration(0.05))
}
