// SPDX-License-Identifier: MIT
package audio

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gordonklaus/portaudio"
)

func setupPortAudio(t *testing.T) {
	t.Helper()
	if err := Initialize(); err != nil {
		t.Skipf("PortAudio unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := Terminate(); err != nil {
			t.Errorf("Failed to terminate PortAudio: %v", err)
		}
	})
}

func mockDevices(t *testing.T, infos []*portaudio.DeviceInfo, err error) {
	t.Helper()
	orig := paDevicesFunc
	t.Cleanup(func() { paDevicesFunc = orig })
	paDevicesFunc = func() ([]*portaudio.DeviceInfo, error) {
		return infos, err
	}
}

var fakeInfos = []*portaudio.DeviceInfo{
	{Name: "Built-in Microphone", MaxInputChannels: 2, DefaultSampleRate: 48000},
	{
		Name:                     "Built-in Output",
		MaxOutputChannels:        2,
		DefaultSampleRate:        44100,
		DefaultLowOutputLatency:  5 * time.Millisecond,
		DefaultHighOutputLatency: 20 * time.Millisecond,
	},
	{Name: "Interface", MaxInputChannels: 8, MaxOutputChannels: 8, DefaultSampleRate: 96000},
}

func TestHostDevices(t *testing.T) {
	setupPortAudio(t)

	devices, err := HostDevices()
	if err != nil {
		t.Fatalf("HostDevices error: %v", err)
	}
	if len(devices) == 0 {
		t.Skip("No audio devices found on system")
	}
	for i, d := range devices {
		if d.ID != i {
			t.Errorf("Device ID mismatch: got %d, want %d", d.ID, i)
		}
		if d.Name == "" {
			t.Errorf("Device %d has empty name", i)
		}
		if d.DefaultSampleRate <= 0 {
			t.Errorf("Device %d has invalid sample rate: %f", i, d.DefaultSampleRate)
		}
	}
}

func TestHostDevicesConversion(t *testing.T) {
	mockDevices(t, fakeInfos, nil)

	devices, err := HostDevices()
	if err != nil {
		t.Fatalf("HostDevices error: %v", err)
	}
	if len(devices) != len(fakeInfos) {
		t.Fatalf("got %d devices, want %d", len(devices), len(fakeInfos))
	}

	out := devices[1]
	if out.ID != 1 || out.Name != "Built-in Output" || out.MaxOutputChannels != 2 {
		t.Errorf("unexpected device: %+v", out)
	}
	if out.LowOutputLatency != 5*time.Millisecond || out.HighOutputLatency != 20*time.Millisecond {
		t.Errorf("latencies not carried over: %+v", out)
	}
}

func TestHostDevices_paDevicesError(t *testing.T) {
	mockDevices(t, nil, fmt.Errorf("mock error"))

	_, err := HostDevices()
	if err == nil || !strings.Contains(err.Error(), "mock error") {
		t.Errorf("expected mock error, got %v", err)
	}
}

func TestOutputDevice(t *testing.T) {
	mockDevices(t, fakeInfos, nil)

	tests := []struct {
		desc    string
		id      int
		want    string
		wantErr string
	}{
		{"Output device", 1, "Built-in Output", ""},
		{"Duplex device", 2, "Interface", ""},
		{"Input only", 0, "", "no output channels"},
		{"Out of range", 3, "", "invalid device ID"},
		{"Negative", -2, "", "invalid device ID"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			dev, err := OutputDevice(tt.id)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("OutputDevice(%d) error = %v, want %q", tt.id, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("OutputDevice(%d) error: %v", tt.id, err)
			}
			if dev.Name != tt.want {
				t.Errorf("OutputDevice(%d) = %q, want %q", tt.id, dev.Name, tt.want)
			}
		})
	}
}

func TestDefaultOutputDevice(t *testing.T) {
	setupPortAudio(t)

	dev, err := OutputDevice(-1)
	if err != nil {
		t.Skipf("No default output device: %v", err)
	}
	if dev.Name == "" {
		t.Error("Default output device has empty name")
	}
}

func TestDeviceType(t *testing.T) {
	tests := []struct {
		in, out int
		want    string
	}{
		{2, 2, "Input/Output"},
		{1, 0, "Input"},
		{0, 2, "Output"},
		{0, 0, "Unavailable"},
	}
	for _, tt := range tests {
		d := Device{MaxInputChannels: tt.in, MaxOutputChannels: tt.out}
		if got := d.Type(); got != tt.want {
			t.Errorf("Type() with %d in / %d out = %q, want %q", tt.in, tt.out, got, tt.want)
		}
	}
}

func TestDeviceCanPlay(t *testing.T) {
	d := Device{MaxOutputChannels: 2}
	if !d.CanPlay(1) || !d.CanPlay(2) {
		t.Error("stereo device should play mono and stereo")
	}
	if d.CanPlay(6) {
		t.Error("stereo device should not play 6 channels")
	}
}

func TestListDevices(t *testing.T) {
	mockDevices(t, fakeInfos, nil)
	devices, err := HostDevices()
	if err != nil {
		t.Fatal(err)
	}

	var all bytes.Buffer
	ListDevices(&all, devices, false)
	for _, want := range []string{
		"Available Audio Devices",
		"[0] Built-in Microphone (Input)",
		"[1] Built-in Output (Output)",
		"[2] Interface (Input/Output)",
		"Output latency: Low=5.00ms, High=20.00ms",
		"Default sample rate: 96000 Hz",
	} {
		if !strings.Contains(all.String(), want) {
			t.Errorf("listing missing %q:\n%s", want, all.String())
		}
	}

	var outputs bytes.Buffer
	ListDevices(&outputs, devices, true)
	if strings.Contains(outputs.String(), "Microphone") {
		t.Errorf("output listing includes an input-only device:\n%s", outputs.String())
	}
	if !strings.Contains(outputs.String(), "[2] Interface") {
		t.Errorf("output listing misses a duplex device:\n%s", outputs.String())
	}
}
