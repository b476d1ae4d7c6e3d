// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glitch/internal/analysis"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

// isolate runs the test in an empty working directory so no stray
// glitch.yaml or .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	isolate(t)
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config, got nil")
	}
	if *cfg != *NewConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_DefaultFile(t *testing.T) {
	dir := isolate(t)
	content := "log_level: debug\nanalysis:\n  fft_size: 1024\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.Analysis.FFTSize != 1024 {
		t.Errorf("glitch.yaml not applied: %+v", cfg)
	}
	if cfg.Analysis.Window != DefaultWindow {
		t.Errorf("unset field lost its default: window = %q", cfg.Analysis.Window)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	isolate(t)
	cfg, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Errorf("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	isolate(t)
	path := writeTempConfig(t, ":\n:bad")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoadConfig_FullFile(t *testing.T) {
	isolate(t)
	path := writeTempConfig(t, `
log_level: warn
strict: true
analysis:
  fft_size: 2048
  window: blackman
playback:
  device: 3
  frames_per_buffer: 256
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}

	want := Config{
		LogLevel: "warn",
		Strict:   true,
		Analysis: AnalysisConfig{FFTSize: 2048, Window: "blackman"},
		Playback: PlaybackConfig{Device: 3, FramesPerBuffer: 256},
	}
	if *cfg != want {
		t.Errorf("got %+v, want %+v", *cfg, want)
	}
	if cfg.WindowFunc() != analysis.Blackman {
		t.Errorf("WindowFunc() = %v, want Blackman", cfg.WindowFunc())
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	path := writeTempConfig(t, "log_level: warn\nstrict: false\n")

	t.Setenv("GLITCH_LOG_LEVEL", "error")
	t.Setenv("GLITCH_STRICT", "true")
	t.Setenv("GLITCH_FFT_SIZE", "512")
	t.Setenv("GLITCH_WINDOW", "hamming")
	t.Setenv("GLITCH_DEVICE", "2")
	t.Setenv("GLITCH_FRAMES_PER_BUFFER", "128")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.LogLevel != "error" || !cfg.Strict || cfg.Analysis.FFTSize != 512 ||
		cfg.Analysis.Window != "hamming" || cfg.Playback.Device != 2 || cfg.Playback.FramesPerBuffer != 128 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadConfig_MalformedEnv(t *testing.T) {
	tests := []struct {
		name string
		val  string
	}{
		{"GLITCH_STRICT", "maybe"},
		{"GLITCH_FFT_SIZE", "big"},
		{"GLITCH_DEVICE", "default"},
		{"GLITCH_FRAMES_PER_BUFFER", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.name, tt.val)
			_, err := LoadConfig("")
			if err == nil || !strings.Contains(err.Error(), tt.name) {
				t.Errorf("LoadConfig() = %v, want an error naming %s", err, tt.name)
			}
		})
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte("GLITCH_STRICT=true\nGLITCH_FFT_SIZE=256\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv sets the variables process-wide.
	t.Cleanup(func() {
		os.Unsetenv("GLITCH_STRICT")
		os.Unsetenv("GLITCH_FFT_SIZE")
	})

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if !cfg.Strict || cfg.Analysis.FFTSize != 256 {
		t.Errorf(".env not applied: %+v", cfg)
	}
}

func TestLoadConfig_DotEnvDoesNotOverrideEnv(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte("GLITCH_DEVICE=7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GLITCH_DEVICE", "1")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.Playback.Device != 1 {
		t.Errorf("device = %d, want the environment value 1", cfg.Playback.Device)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		desc   string
		modify func(*Config)
		field  string
	}{
		{"Bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"FFT not pow2", func(c *Config) { c.Analysis.FFTSize = 1000 }, "fft_size"},
		{"FFT too small", func(c *Config) { c.Analysis.FFTSize = 1 }, "fft_size"},
		{"Unknown window", func(c *Config) { c.Analysis.Window = "triangle" }, "analysis.window"},
		{"Device below default", func(c *Config) { c.Playback.Device = -2 }, "playback.device"},
		{"Zero frames", func(c *Config) { c.Playback.FramesPerBuffer = 0 }, "frames_per_buffer"},
		{"Too many frames", func(c *Config) { c.Playback.FramesPerBuffer = MaxBufferFrames + 1 }, "frames_per_buffer"},
	}

	if err := NewConfig().Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Validate() = %v, want an error about %s", err, tt.field)
			}
		})
	}

	cfg := NewConfig()
	cfg.LogLevel = "loud"
	cfg.Analysis.FFTSize = 3
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "log_level") || !strings.Contains(err.Error(), "fft_size") {
		t.Errorf("Validate() should report every problem, got %v", err)
	}
}
