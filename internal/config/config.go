// SPDX-License-Identifier: MIT
package config

// Defaults and limits for the configuration file and environment.
const (
	DefaultConfigFile      = "glitch.yaml"
	DefaultEnvFile         = ".env"
	DefaultLogLevel        = "info"
	DefaultStrict          = false // Preserve NaN and Inf produced by the transforms
	DefaultFFTSize         = 4096
	DefaultWindow          = "Hann"
	DefaultDevice          = MinDeviceID // System default output
	DefaultFramesPerBuffer = 512

	MinDeviceID     = -1   // -1 represents the system default device
	MaxBufferFrames = 8192 // Maximum frames per playback buffer

	EnvPrefix = "GLITCH_"
)

// Config holds the settings read from glitch.yaml, the environment and the
// command line, in increasing order of precedence.
type Config struct {
	LogLevel string         `yaml:"log_level"` // debug, info, warn, error
	Strict   bool           `yaml:"strict"`    // Fail a step that leaves a non-finite sample
	Analysis AnalysisConfig `yaml:"analysis"`
	Playback PlaybackConfig `yaml:"playback"`
}

// AnalysisConfig configures the info report.
type AnalysisConfig struct {
	FFTSize int    `yaml:"fft_size"` // Power of 2
	Window  string `yaml:"window"`   // Hann, Hamming, Blackman, ...
}

// PlaybackConfig configures audition through PortAudio.
type PlaybackConfig struct {
	Device          int `yaml:"device"`            // PortAudio output device index, -1 for default
	FramesPerBuffer int `yaml:"frames_per_buffer"` // Callback buffer size
}

// NewConfig returns the built-in defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Strict:   DefaultStrict,
		Analysis: AnalysisConfig{
			FFTSize: DefaultFFTSize,
			Window:  DefaultWindow,
		},
		Playback: PlaybackConfig{
			Device:          DefaultDevice,
			FramesPerBuffer: DefaultFramesPerBuffer,
		},
	}
}
