package commands

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const meterWidth = 40

var (
	meterLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	meterHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	meterClip = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	meterDim  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// peakDBFS is the peak level of samples relative to full scale. Silence
// reports -Inf.
func peakDBFS(samples []int16) float64 {
	peak := 0
	for _, s := range samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(float64(peak)/32768)
}

// meterCells maps a level in [-60, 0] dBFS onto width cells.
func meterCells(db float64, width int) int {
	const floor = -60.0
	switch {
	case math.IsInf(db, -1) || db <= floor:
		return 0
	case db >= 0:
		return width
	}
	return int((db - floor) / -floor * float64(width))
}

// renderMeter draws a one line level meter with the elapsed time.
func renderMeter(samples []int16, elapsed, total string) string {
	db := peakDBFS(samples)
	n := meterCells(db, meterWidth)
	warn := meterWidth * 3 / 4

	var b strings.Builder
	for i := 0; i < meterWidth; i++ {
		switch {
		case i >= n:
			b.WriteString(meterDim.Render("·"))
		case i >= meterWidth-1:
			b.WriteString(meterClip.Render("█"))
		case i >= warn:
			b.WriteString(meterHigh.Render("█"))
		default:
			b.WriteString(meterLow.Render("█"))
		}
	}
	level := "  -inf"
	if !math.IsInf(db, -1) {
		level = fmt.Sprintf("%6.1f", db)
	}
	return fmt.Sprintf("%s %s dBFS  %s/%s", b.String(), level, elapsed, total)
}
