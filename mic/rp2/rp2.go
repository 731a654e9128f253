//go:build rp2040 || rp2350

// Package rp2 drives I2S microphones from an RP2040/RP2350 PIO state
// machine. The state machine is the bus master: it generates BCLK and WS
// on two consecutive side-set pins and shifts in the left slot of every
// frame. The right slot is clocked but never sampled.
package rp2

import (
	"errors"
	"machine"
	"runtime"
	"time"

	"github.com/tinygo-org/i2smic/mic"
	pio "github.com/tinygo-org/pio/rp2-pio"
)

var (
	errUnsupported = errors.New("rp2:unsupported I2S format")
	errPins        = errors.New("rp2:WS must be the pin after BCLK")
	errNotInit     = errors.New("rp2:channel not configured")
	errDeleted     = errors.New("rp2:channel deleted")
)

// A frame is two 32 bit slots and every bit takes two instructions.
const cyclesPerFrame = 2 * 32 * 2

const (
	sideSetBits = 2

	// Side-set bit 0 drives BCLK, bit 1 drives WS.
	sideBCLK = 0b01
	sideWS   = 0b10
	sideBoth = sideWS | sideBCLK

	leftLoop  = 1
	rightLoop = 7
)

// rxProgram samples DIN on every rising BCLK edge of the left slot. In
// Philips framing the LSB of a word arrives one BCLK after WS toggles, so
// the autopush boundary sits on the first edge of the right slot.
var rxProgram = [12]uint16{
	pio.EncodeSet(pio.SrcDestX, 29) | side(0),                   //  0: set    x, 29           side 0
	leftLoop: pio.EncodeIn(pio.SrcDestPins, 1) | side(sideBCLK), //  1: in     pins, 1         side 1
	pio.EncodeJmp(leftLoop, pio.JmpXNZeroDec) | side(0),         //  2: jmp    x--, 1          side 0
	pio.EncodeIn(pio.SrcDestPins, 1) | side(sideBCLK),           //  3: in     pins, 1         side 1
	pio.EncodeNOP() | side(sideWS),                              //  4: nop                    side 2
	pio.EncodeIn(pio.SrcDestPins, 1) | side(sideBoth),           //  5: in     pins, 1         side 3
	pio.EncodeSet(pio.SrcDestX, 29) | side(sideWS),              //  6: set    x, 29           side 2
	rightLoop: pio.EncodeNOP() | side(sideBoth),                 //  7: nop                    side 3
	pio.EncodeJmp(rightLoop, pio.JmpXNZeroDec) | side(sideWS),   //  8: jmp    x--, 7          side 2
	pio.EncodeNOP() | side(sideBoth),                            //  9: nop                    side 3
	pio.EncodeNOP() | side(0),                                   // 10: nop                    side 0
	pio.EncodeNOP() | side(sideBCLK),                            // 11: nop                    side 1
}

func side(v uint8) uint16 {
	return pio.EncodeSideSet(sideSetBits, v)
}

// Driver allocates receive channels on one PIO block.
type Driver struct {
	Pio *pio.PIO
}

// NewDriver returns a driver using block, for example pio.PIO0.
func NewDriver(block *pio.PIO) *Driver {
	return &Driver{Pio: block}
}

// NewRxChannel claims a free state machine. The RP2 has no DMA ring in
// this path: samples wait in the joined 8 entry RX FIFO until Read drains
// them, so ring only needs to be valid.
func (d *Driver) NewRxChannel(ring mic.RingConfig) (mic.RxChannel, error) {
	if ring.DescCount <= 0 || ring.FrameCount <= 0 {
		return nil, errUnsupported
	}
	sm, err := d.Pio.ClaimStateMachine()
	if err != nil {
		return nil, err
	}
	return &Channel{sm: sm}, nil
}

// Channel is one claimed state machine running rxProgram.
type Channel struct {
	sm      pio.StateMachine
	offset  uint8
	loaded  bool
	deleted bool
}

// InitStdMode loads rxProgram and configures pins and clock for cfg. Only
// Philips framing with 32 bit mono slots in master role is supported.
func (ch *Channel) InitStdMode(cfg mic.StdConfig) error {
	if ch.deleted {
		return errDeleted
	}
	if cfg.SlotBits != 32 || cfg.SlotMode != mic.SlotMono ||
		cfg.Standard != mic.StandardPhilips || cfg.Role != mic.RoleMaster {
		return errUnsupported
	}
	if cfg.BCLK < 0 || cfg.DIN < 0 || cfg.WS != cfg.BCLK+1 {
		return errPins
	}
	whole, frac, err := pio.ClkDivFromFrequency(cfg.SampleRate*cyclesPerFrame, machine.CPUFrequency())
	if err != nil {
		return err
	}

	Pio := ch.sm.PIO()
	if ch.loaded {
		ch.sm.SetEnabled(false)
		Pio.ClearProgramSection(ch.offset, uint8(len(rxProgram)))
		ch.loaded = false
	}
	offset, err := Pio.AddProgram(rxProgram[:], -1)
	if err != nil {
		return err
	}
	ch.offset = offset
	ch.loaded = true

	din := machine.Pin(cfg.DIN)
	bclk := machine.Pin(cfg.BCLK)
	pinCfg := machine.PinConfig{Mode: Pio.PinMode()}
	din.Configure(pinCfg)
	bclk.Configure(pinCfg)
	(bclk + 1).Configure(pinCfg)

	smcfg := pio.DefaultStateMachineConfig()
	smcfg.SetWrap(offset, offset+uint8(len(rxProgram))-1)
	smcfg.SetInPins(din)
	smcfg.SetSidesetParams(sideSetBits, false, false)
	smcfg.SetSidesetPins(bclk)
	// Shift left so the MSB lands on top, autopush every 32 bits.
	smcfg.SetInShift(false, true, 32)
	smcfg.SetFIFOJoin(pio.FifoJoinRx)
	smcfg.SetClkDivIntFrac(whole, frac)
	ch.sm.Init(offset, smcfg)

	clockMask := uint32(0b11) << bclk
	ch.sm.SetPindirsMasked(clockMask, clockMask|uint32(1)<<din)
	ch.sm.SetPinsMasked(0, clockMask)
	return nil
}

func (ch *Channel) Enable() error {
	if !ch.loaded {
		return errNotInit
	}
	ch.sm.ClearFIFOs()
	ch.sm.Restart()
	ch.sm.Jmp(ch.offset, pio.JmpAlways)
	ch.sm.SetEnabled(true)
	return nil
}

func (ch *Channel) Disable() error {
	if !ch.loaded {
		return errNotInit
	}
	ch.sm.SetEnabled(false)
	return nil
}

// Read drains whole left-slot words from the RX FIFO into dst as little
// endian 32 bit values. It returns once dst is full or timeout expires;
// a zero timeout only takes what is already queued.
func (ch *Channel) Read(dst []byte, timeout time.Duration) (int, error) {
	if ch.deleted {
		return 0, errDeleted
	}
	if !ch.loaded {
		return 0, errNotInit
	}
	end := time.Now().Add(timeout)
	n := 0
	for n+4 <= len(dst) {
		if ch.sm.IsRxFIFOEmpty() {
			if timeout <= 0 || time.Now().After(end) {
				break
			}
			runtime.Gosched()
			continue
		}
		v := ch.sm.RxGet()
		dst[n] = byte(v)
		dst[n+1] = byte(v >> 8)
		dst[n+2] = byte(v >> 16)
		dst[n+3] = byte(v >> 24)
		n += 4
	}
	return n, nil
}

// Delete stops the state machine, frees its program memory and releases
// the claim. Deleting twice is harmless.
func (ch *Channel) Delete() error {
	if ch.deleted {
		return nil
	}
	ch.deleted = true
	ch.sm.SetEnabled(false)
	if ch.loaded {
		ch.sm.PIO().ClearProgramSection(ch.offset, uint8(len(rxProgram)))
		ch.loaded = false
	}
	ch.sm.Unclaim()
	return nil
}
