package display

import (
	"image/color"
	"testing"
	"time"
)

type fakeDevice struct {
	w, h     int16
	pixels   map[[2]int16]bool
	cleared  int
	displays int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{w: 128, h: 64, pixels: map[[2]int16]bool{}}
}

func (d *fakeDevice) Size() (int16, int16) { return d.w, d.h }

func (d *fakeDevice) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return
	}
	d.pixels[[2]int16{x, y}] = c.A != 0
}

func (d *fakeDevice) Display() error { d.displays++; return nil }

func (d *fakeDevice) ClearBuffer() {
	d.cleared++
	d.pixels = map[[2]int16]bool{}
}

func (d *fakeDevice) maxX() int16 {
	max := int16(-1)
	for p := range d.pixels {
		if p[0] > max {
			max = p[0]
		}
	}
	return max
}

func (d *fakeDevice) row(y int16) int {
	n := 0
	for p := range d.pixels {
		if p[1] == y {
			n++
		}
	}
	return n
}

func TestDrawTextGlyph(t *testing.T) {
	dev := newFakeDevice()
	s := New(dev)
	s.DrawText("I", 10, 5)
	// 'I' is a vertical bar in column 2 spanning all 7 rows.
	for row := int16(0); row < glyphHeight; row++ {
		if !dev.pixels[[2]int16{12, 5 + row}] {
			t.Errorf("pixel (12,%d) not set", 5+row)
		}
	}
	if dev.pixels[[2]int16{10, 8}] {
		t.Error("blank column drawn")
	}
}

func TestDrawTextUnknownIsBox(t *testing.T) {
	dev := newFakeDevice()
	s := New(dev)
	s.DrawText("é", 0, 0)
	for _, p := range [][2]int16{{0, 0}, {4, 0}, {0, 6}, {4, 6}} {
		if !dev.pixels[p] {
			t.Errorf("box corner %v not set", p)
		}
	}
}

func TestDrawTextClips(t *testing.T) {
	dev := newFakeDevice()
	s := New(dev)
	s.DrawText("WWWWWWWWWWWWWWWWWWWWWWWWWWWWWW", 0, 0)
	if got := dev.maxX(); got >= dev.w {
		t.Fatalf("drew at x=%d beyond width %d", got, dev.w)
	}
	if got := dev.maxX(); got < 120 {
		t.Errorf("last glyph ends at x=%d, want the line filled", got)
	}
}

func TestMessageClearsAndDisplays(t *testing.T) {
	dev := newFakeDevice()
	s := New(dev)
	if err := s.Message("Ready", "Press to record"); err != nil {
		t.Fatal(err)
	}
	if dev.cleared != 1 || dev.displays != 1 {
		t.Errorf("cleared=%d displays=%d, want 1 and 1", dev.cleared, dev.displays)
	}
	if dev.row(0) == 0 || dev.row(lineHeight) == 0 {
		t.Error("title or message line not drawn")
	}
}

func TestPlayingProgressBar(t *testing.T) {
	tests := []struct {
		pos, total time.Duration
		want       int
	}{
		{0, 10 * time.Second, 0},
		{5 * time.Second, 10 * time.Second, 60},
		{10 * time.Second, 10 * time.Second, 120},
		{12 * time.Second, 10 * time.Second, 120},
		{time.Second, 0, 0},
	}
	for _, tt := range tests {
		dev := newFakeDevice()
		s := New(dev)
		if err := s.Playing(tt.pos, tt.total); err != nil {
			t.Fatal(err)
		}
		if got := dev.row(barY); got != tt.want {
			t.Errorf("Playing(%v, %v): bar width %d, want %d", tt.pos, tt.total, got, tt.want)
		}
	}
}

func TestRecordingScreen(t *testing.T) {
	dev := newFakeDevice()
	s := New(dev)
	if err := s.Recording(2500*time.Millisecond, 10*time.Second); err != nil {
		t.Fatal(err)
	}
	for _, y := range []int16{0, lineHeight, 2 * lineHeight} {
		if dev.row(y) == 0 {
			t.Errorf("line at y=%d empty", y)
		}
	}
}
