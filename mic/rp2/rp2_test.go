//go:build rp2040 || rp2350

package rp2

import "testing"

func TestRxProgram(t *testing.T) {
	var expected = [12]uint16{
		0xe03d, //  0: set    x, 29           side 0
		0x4801, //  1: in     pins, 1         side 1
		0x0041, //  2: jmp    x--, 1          side 0
		0x4801, //  3: in     pins, 1         side 1
		0xb042, //  4: nop                    side 2
		0x5801, //  5: in     pins, 1         side 3
		0xf03d, //  6: set    x, 29           side 2
		0xb842, //  7: nop                    side 3
		0x1047, //  8: jmp    x--, 7          side 2
		0xb842, //  9: nop                    side 3
		0xa042, // 10: nop                    side 0
		0xa842, // 11: nop                    side 1
	}
	for i := range rxProgram {
		if rxProgram[i] != expected[i] {
			t.Errorf("instr %d mismatch got!=expected: %#x != %#x", i, rxProgram[i], expected[i])
		}
	}
}

func TestRxProgramFrameLength(t *testing.T) {
	// Every instruction is a single cycle; count cycles per wrap.
	const loops = 30
	cycles := 0
	for i := range rxProgram {
		switch i {
		case leftLoop, leftLoop + 1, rightLoop, rightLoop + 1:
			cycles += loops
		default:
			cycles++
		}
	}
	if cycles != cyclesPerFrame {
		t.Errorf("frame takes %d cycles, want %d", cycles, cyclesPerFrame)
	}
}
