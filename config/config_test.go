package config_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipelined.dev/synth/config"
)

var envs = []string{
	"SYNTH_DEBUG",
	config.SampleRateEnv,
	config.BufferSizeEnv,
	config.ChannelsEnv,
	config.FrequencyEnv,
	config.AmplitudeEnv,
	config.CutoffEnv,
}

// clearEnv unsets synth variables for the test and restores them after.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envs {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.SampleRateEnv, "44100")
	t.Setenv(config.BufferSizeEnv, "256")
	t.Setenv(config.ChannelsEnv, "1")
	t.Setenv(config.FrequencyEnv, "440")
	t.Setenv(config.AmplitudeEnv, "0.25")
	t.Setenv(config.CutoffEnv, "1000")
	t.Setenv("SYNTH_DEBUG", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Config{
		Debug:      true,
		SampleRate: 44100,
		BufferSize: 256,
		Channels:   1,
		Frequency:  440,
		Amplitude:  0.25,
		Cutoff:     1000,
	}, cfg)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SYNTH_SAMPLE_RATE=96000\nSYNTH_CHANNELS=4\n"), 0o600))
	t.Setenv(config.ChannelsEnv, "6")

	cfg, err := config.Load(filepath.Join(dir, "missing.env"), envFile)
	require.NoError(t, err)
	assert.Equal(t, 96000, cfg.SampleRate)
	assert.Equal(t, 6, cfg.Channels, "environment takes precedence over files")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		env   string
		value string
	}{
		{env: config.SampleRateEnv, value: "fast"},
		{env: config.SampleRateEnv, value: "0"},
		{env: config.BufferSizeEnv, value: "-1"},
		{env: config.ChannelsEnv, value: "0"},
		{env: config.FrequencyEnv, value: "high"},
		{env: config.AmplitudeEnv, value: "loud"},
		{env: config.CutoffEnv, value: "x"},
		{env: "SYNTH_DEBUG", value: "maybe"},
	}
	for _, test := range tests {
		t.Run(test.env+"="+test.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(test.env, test.value)
			_, err := config.Load()
			assert.Error(t, err)
			if _, convErr := strconv.Atoi(test.value); convErr != nil {
				assert.Contains(t, err.Error(), test.env)
			}
		})
	}
}
