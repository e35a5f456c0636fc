// Package config loads synth settings from the environment and optional
// .env files.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"pipelined.dev/synth/log"
)

// Environment variables read by Load.
const (
	SampleRateEnv = "SYNTH_SAMPLE_RATE"
	BufferSizeEnv = "SYNTH_BUFFER_SIZE"
	ChannelsEnv   = "SYNTH_CHANNELS"
	FrequencyEnv  = "SYNTH_FREQUENCY"
	AmplitudeEnv  = "SYNTH_AMPLITUDE"
	CutoffEnv     = "SYNTH_CUTOFF"
)

// Config contains settings of a synth host.
type Config struct {
	Debug      bool
	SampleRate int
	BufferSize int
	Channels   int
	Frequency  float64
	Amplitude  float64
	Cutoff     float64 // zero disables the filter
}

// Default returns default settings.
func Default() Config {
	return Config{
		SampleRate: 48000,
		BufferSize: 512,
		Channels:   2,
		Frequency:  261.62,
		Amplitude:  0.5,
	}
}

// Load reads provided .env files and then environment variables. Missing
// files are ignored, variables that are already set are not overridden by
// files.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %v: %w", f, err)
		}
	}
	cfg := Default()
	var err error
	if cfg.Debug, err = parseBool(log.DebugEnv, cfg.Debug); err != nil {
		return Config{}, err
	}
	if cfg.SampleRate, err = parseInt(SampleRateEnv, cfg.SampleRate); err != nil {
		return Config{}, err
	}
	if cfg.BufferSize, err = parseInt(BufferSizeEnv, cfg.BufferSize); err != nil {
		return Config{}, err
	}
	if cfg.Channels, err = parseInt(ChannelsEnv, cfg.Channels); err != nil {
		return Config{}, err
	}
	if cfg.Frequency, err = parseFloat(FrequencyEnv, cfg.Frequency); err != nil {
		return Config{}, err
	}
	if cfg.Amplitude, err = parseFloat(AmplitudeEnv, cfg.Amplitude); err != nil {
		return Config{}, err
	}
	if cfg.Cutoff, err = parseFloat(CutoffEnv, cfg.Cutoff); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks that host settings are usable. Signal parameters are not
// validated.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be > 0: %d", c.SampleRate)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer size must be > 0: %d", c.BufferSize)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("channels must be > 0: %d", c.Channels)
	}
	return nil
}

func parseBool(env string, def bool) (bool, error) {
	v, ok := os.LookupEnv(env)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", env, err)
	}
	return b, nil
}

func parseInt(env string, def int) (int, error) {
	v, ok := os.LookupEnv(env)
	if !ok || v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", env, err)
	}
	return i, nil
}

func parseFloat(env string, def float64) (float64, error) {
	v, ok := os.LookupEnv(env)
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", env, err)
	}
	return f, nil
}
