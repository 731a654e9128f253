package mic

import (
	"math"
	"testing"
)

func TestNarrow(t *testing.T) {
	tests := []struct {
		slot int32
		want int16
	}{
		{0, 0},
		{0x0000_ffff, 0},
		{0x0001_0000, 1},
		{0x7fff_0000, 32767},
		{0x7fff_ffff, 32767},
		{-1, -1},
		{-0x0001_0000, -1},
		{-0x0001_0001, -2},
		{-0x8000_0000, -32768},
		{0x00ab_cd00, 0x00ab},
	}
	src := make([]byte, len(tests)*slotBytes)
	slots := make([]int32, len(tests))
	for i, tt := range tests {
		slots[i] = tt.slot
	}
	PutSlots(src, slots)

	dst := make([]int16, len(tests))
	if n := Narrow(dst, src); n != len(tests) {
		t.Fatalf("Narrow returned %d, want %d", n, len(tests))
	}
	for i, tt := range tests {
		if dst[i] != tt.want {
			t.Errorf("slot %#x: got %d, want %d", uint32(tt.slot), dst[i], tt.want)
		}
	}
}

func TestNarrowPartial(t *testing.T) {
	src := make([]byte, 3*slotBytes+3)
	PutSlots(src, []int32{1 << 16, 2 << 16, 3 << 16})
	dst := make([]int16, 4)
	if n := Narrow(dst, src); n != 3 {
		t.Fatalf("trailing bytes: got %d samples, want 3", n)
	}
	if n := Narrow(dst[:2], src); n != 2 {
		t.Fatalf("short dst: got %d samples, want 2", n)
	}
	if dst[0] != 1 || dst[1] != 2 {
		t.Errorf("dst = %v", dst[:2])
	}
}

func TestConfigValidate(t *testing.T) {
	ok := DefaultConfig()
	if err := ok.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"rate", func(c *Config) { c.SampleRate = 0 }},
		{"count", func(c *Config) { c.DMABufCount = -1 }},
		{"frames", func(c *Config) { c.DMABufFrames = 0 }},
		{"scratch", func(c *Config) { c.MaxReadSamples = -5 }},
		{"scratch overflow", func(c *Config) { c.MaxReadSamples = math.MaxInt/slotBytes + 1 }},
		{"ring overflow", func(c *Config) { c.DMABufCount, c.DMABufFrames = 2, math.MaxInt/slotBytes/2+1 }},
		{"pin", func(c *Config) { c.DIN = PinUnused }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mod(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate accepted %+v", tt.name, cfg)
		}
	}
	if got := ok.scratchSamples(); got != 4096 {
		t.Errorf("default scratch = %d samples, want 4096", got)
	}
}
