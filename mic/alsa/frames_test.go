package alsa

import (
	"bytes"
	"testing"
)

func TestLeftSlots(t *testing.T) {
	src := []byte{
		1, 2, 3, 4, 9, 9, 9, 9,
		5, 6, 7, 8, 9, 9, 9, 9,
		10, 11, 12, 13, 9, 9, // partial frame
	}
	tests := []struct {
		name     string
		dst      int
		channels int
		want     []byte
	}{
		{"stereo", 16, 2, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{"short dst", 4, 2, []byte{1, 2, 3, 4}},
		{"mono", 8, 1, []byte{1, 2, 3, 4, 9, 9, 9, 9}},
		{"no channels", 8, 0, nil},
	}
	for _, tt := range tests {
		dst := make([]byte, tt.dst)
		n := leftSlots(dst, src, tt.channels)
		if !bytes.Equal(dst[:n], tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, dst[:n], tt.want)
		}
	}
}

func TestMatchDevice(t *testing.T) {
	tests := []struct {
		filter string
		info   DeviceInfo
		want   bool
	}{
		{"", DeviceInfo{Path: "/dev/snd/pcmC1D0c"}, true},
		{"hw:1,0", DeviceInfo{CardNumber: 1, Number: 0}, true},
		{"hw:1,0", DeviceInfo{CardNumber: 1, Number: 1}, false},
		{"/dev/snd/pcmC0D0c", DeviceInfo{Path: "/dev/snd/pcmC0D0c"}, true},
		{"usb", DeviceInfo{Card: "USB Audio", Title: "USB Mic"}, true},
		{"i2s", DeviceInfo{Card: "USB Audio", Title: "USB Mic"}, false},
	}
	for _, tt := range tests {
		if got := tt.info.matches(tt.filter); got != tt.want {
			t.Errorf("%+v.matches(%q) = %v, want %v", tt.info, tt.filter, got, tt.want)
		}
	}
}
