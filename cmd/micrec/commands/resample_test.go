package commands

import "testing"

func TestSampleScaling(t *testing.T) {
	in := []int16{0, 16384, -16384, 32767, -32768}
	f := toFloat(in)
	if f[1] != 0.5 || f[2] != -0.5 || f[4] != -1 {
		t.Errorf("toFloat = %v", f)
	}

	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{0.5, 16383},
		{1.5, 32767},
		{1.0, 32767},
		{-1.0, -32767},
		{-1.5, -32768},
	}
	for _, tt := range tests {
		if got := toInt16([]float64{tt.in})[0]; got != tt.want {
			t.Errorf("toInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
