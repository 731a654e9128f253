package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
device: hw:1,0
rate: 48000
out_rate: 16000
duration: 3s
dma_buf_frames: 256
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Device != "hw:1,0" || cfg.Rate != 48000 || cfg.OutRate != 16000 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Duration != 3*time.Second {
		t.Errorf("duration = %v, want 3s", cfg.Duration)
	}
	if cfg.DMABufCount != 4 || cfg.DMABufFrames != 256 {
		t.Errorf("DMA = %d x %d, want 4 x 256", cfg.DMABufCount, cfg.DMABufFrames)
	}

	m := cfg.micConfig()
	if m.SampleRate != 48000 || m.DMABufFrames != 256 {
		t.Errorf("mic config = %+v", m)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("mic config invalid: %v", err)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "rate: [1, 2"},
		{"zero rate", "rate: 0\ndevice: x"},
	}
	for _, tt := range tests {
		if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
			t.Errorf("%s: no error", tt.name)
		}
	}
}
