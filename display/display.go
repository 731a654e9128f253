// Package display renders the recorder status screens on a small
// monochrome display such as the SSD1306.
package display

import (
	"fmt"
	"image/color"
	"time"

	"tinygo.org/x/drivers"
)

// Device is a buffered display. *ssd1306.Device satisfies it.
type Device interface {
	drivers.Displayer
	ClearBuffer()
}

const (
	lineHeight = 20
	barY       = 45
	barMargin  = 4
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Screen draws text and progress screens onto a Device.
type Screen struct {
	dev Device
}

func New(dev Device) *Screen {
	return &Screen{dev: dev}
}

// DrawText draws text with its top-left corner at (x, y). Characters that
// would not fit on the display width are dropped.
func (s *Screen) DrawText(text string, x, y int16) {
	w, _ := s.dev.Size()
	for _, r := range text {
		if x > w-glyphAdvance {
			break
		}
		s.drawGlyph(glyph(r), x, y)
		x += glyphAdvance
	}
}

func (s *Screen) drawGlyph(g [glyphWidth]byte, x, y int16) {
	for col := int16(0); col < glyphWidth; col++ {
		bits := g[col]
		for row := int16(0); row < glyphHeight; row++ {
			if bits&(1<<row) != 0 {
				s.dev.SetPixel(x+col, y+row, white)
			}
		}
	}
}

// Message shows a two line message.
func (s *Screen) Message(title, msg string) error {
	s.dev.ClearBuffer()
	s.DrawText(title, 0, 0)
	s.DrawText(msg, 0, lineHeight)
	return s.dev.Display()
}

// Recording shows the elapsed recording time against the limit.
func (s *Screen) Recording(elapsed, limit time.Duration) error {
	s.dev.ClearBuffer()
	s.DrawText("Recording...", 0, 0)
	s.DrawText(fmt.Sprintf("Time: %.1fs", elapsed.Seconds()), 0, lineHeight)
	s.DrawText(fmt.Sprintf("Max: %ds", int(limit.Seconds())), 0, 2*lineHeight)
	return s.dev.Display()
}

// Playing shows the playback position and a progress bar.
func (s *Screen) Playing(pos, total time.Duration) error {
	s.dev.ClearBuffer()
	s.DrawText("> PLAY", 0, 0)
	s.DrawText(fmt.Sprintf("%.1f/%.1fs", pos.Seconds(), total.Seconds()), 0, lineHeight)
	w, _ := s.dev.Size()
	s.drawBar(progress(pos, total, w-2*barMargin))
	return s.dev.Display()
}

func (s *Screen) drawBar(width int16) {
	for i := int16(0); i < width; i++ {
		s.dev.SetPixel(barMargin+i, barY, white)
	}
}

// progress scales pos/total to [0, width].
func progress(pos, total time.Duration, width int16) int16 {
	if total <= 0 || pos <= 0 || width <= 0 {
		return 0
	}
	if pos >= total {
		return width
	}
	return int16(int64(pos) * int64(width) / int64(total))
}
