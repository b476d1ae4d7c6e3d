// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"glitch/internal/analysis"
	"glitch/internal/log"
	"glitch/pkg/bitint"
)

// LoadConfig loads configuration from the YAML file at path. If path is
// empty it tries DefaultConfigFile in the working directory and falls back
// to the built-in defaults when that is missing. A .env file in the working
// directory is loaded into the environment (without replacing variables
// already set), then GLITCH_* variables override the file, and the result is
// validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DefaultEnvFile, err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every field against its allowed range.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug, info, warn, error, fatal", c.LogLevel))
	}
	if c.Analysis.FFTSize < 2 || !bitint.IsPowerOfTwo(c.Analysis.FFTSize) {
		errs = append(errs, fmt.Errorf("analysis.fft_size must be a power of 2 of at least 2, got %d", c.Analysis.FFTSize))
	}
	if _, err := analysis.ParseWindowFunc(c.Analysis.Window); err != nil {
		errs = append(errs, fmt.Errorf("analysis.window: %w", err))
	}
	if c.Playback.Device < MinDeviceID {
		errs = append(errs, fmt.Errorf("playback.device must be >= %d, got %d", MinDeviceID, c.Playback.Device))
	}
	if c.Playback.FramesPerBuffer < 1 || c.Playback.FramesPerBuffer > MaxBufferFrames {
		errs = append(errs, fmt.Errorf("playback.frames_per_buffer must be in [1, %d], got %d", MaxBufferFrames, c.Playback.FramesPerBuffer))
	}

	return errors.Join(errs...)
}

// WindowFunc returns the parsed analysis window. Only meaningful after
// Validate succeeded.
func (c *Config) WindowFunc() analysis.WindowFunc {
	w, _ := analysis.ParseWindowFunc(c.Analysis.Window)
	return w
}

// applyEnvOverrides reads GLITCH_* variables. A variable that is set but
// malformed is an error rather than silently ignored.
func (c *Config) applyEnvOverrides() error {
	// GLITCH_LOG_LEVEL
	if val, ok := lookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = val
		log.Debugf("config: log_level from env: %s", val)
	}

	// GLITCH_STRICT
	if val, ok := lookupEnv("STRICT"); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return envError("STRICT", val, err)
		}
		c.Strict = b
		log.Debugf("config: strict from env: %v", b)
	}

	// GLITCH_FFT_SIZE
	if val, ok := lookupEnv("FFT_SIZE"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return envError("FFT_SIZE", val, err)
		}
		c.Analysis.FFTSize = n
		log.Debugf("config: analysis.fft_size from env: %d", n)
	}

	// GLITCH_WINDOW
	if val, ok := lookupEnv("WINDOW"); ok {
		c.Analysis.Window = val
		log.Debugf("config: analysis.window from env: %s", val)
	}

	// GLITCH_DEVICE
	if val, ok := lookupEnv("DEVICE"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return envError("DEVICE", val, err)
		}
		c.Playback.Device = n
		log.Debugf("config: playback.device from env: %d", n)
	}

	// GLITCH_FRAMES_PER_BUFFER
	if val, ok := lookupEnv("FRAMES_PER_BUFFER"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return envError("FRAMES_PER_BUFFER", val, err)
		}
		c.Playback.FramesPerBuffer = n
		log.Debugf("config: playback.frames_per_buffer from env: %d", n)
	}

	return nil
}

func lookupEnv(name string) (string, bool) {
	return os.LookupEnv(EnvPrefix + name)
}

func envError(name, val string, err error) error {
	return fmt.Errorf("invalid %s%s=%q: %w", EnvPrefix, name, val, err)
}
