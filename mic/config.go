package mic

import (
	"fmt"
	"math"
)

// Config describes the wiring and buffering of a microphone channel.
// It is read during Init and not retained.
type Config struct {
	SampleRate uint32
	// BitsPerSample is the nominal sample width reported by the
	// microphone. Conversion is always 32-bit slot to 16-bit PCM.
	BitsPerSample int
	// DMABufCount and DMABufFrames size the DMA descriptor ring.
	DMABufCount  int
	DMABufFrames int
	// Clock (BCLK), word select (LRCLK) and data-in pins.
	SCK Pin
	WS  Pin
	DIN Pin
	// MaxReadSamples caps the samples a single ReadSamples call may request
	// and sizes the scratch region reused across reads.
	// Zero means DMABufCount*DMABufFrames.
	MaxReadSamples int
}

// DefaultConfig returns the INMP441 wiring used on the ESP32 recorder board.
func DefaultConfig() Config {
	return Config{
		SampleRate:    16000,
		BitsPerSample: 32,
		DMABufCount:   4,
		DMABufFrames:  1024,
		WS:            26,
		SCK:           25,
		DIN:           27,
	}
}

// Validate reports the first field that cannot describe a receive channel.
func (cfg Config) Validate() error {
	switch {
	case cfg.SampleRate == 0:
		return fmt.Errorf("%w: zero sample rate", ErrInvalidConfig)
	case cfg.DMABufCount <= 0:
		return fmt.Errorf("%w: DMA buffer count %d", ErrInvalidConfig, cfg.DMABufCount)
	case cfg.DMABufFrames <= 0:
		return fmt.Errorf("%w: DMA buffer frames %d", ErrInvalidConfig, cfg.DMABufFrames)
	case cfg.DMABufFrames > math.MaxInt/slotBytes/cfg.DMABufCount:
		return fmt.Errorf("%w: DMA ring %dx%d too large", ErrInvalidConfig, cfg.DMABufCount, cfg.DMABufFrames)
	case cfg.MaxReadSamples < 0 || cfg.MaxReadSamples > math.MaxInt/slotBytes:
		return fmt.Errorf("%w: max read samples %d", ErrInvalidConfig, cfg.MaxReadSamples)
	case cfg.SCK < 0 || cfg.WS < 0 || cfg.DIN < 0:
		return fmt.Errorf("%w: pins SCK=%d WS=%d DIN=%d", ErrInvalidConfig, cfg.SCK, cfg.WS, cfg.DIN)
	}
	return nil
}

func (cfg Config) ring() RingConfig {
	return RingConfig{DescCount: cfg.DMABufCount, FrameCount: cfg.DMABufFrames}
}

func (cfg Config) scratchSamples() int {
	if cfg.MaxReadSamples > 0 {
		return cfg.MaxReadSamples
	}
	return cfg.DMABufCount * cfg.DMABufFrames
}

// stdConfig is the fixed receive format: mono 32-bit Philips slots,
// master clocks, no MCLK or data-out, nothing inverted.
func (cfg Config) stdConfig() StdConfig {
	return StdConfig{
		SampleRate: cfg.SampleRate,
		SlotBits:   slotBits,
		SlotMode:   SlotMono,
		Standard:   StandardPhilips,
		Role:       RoleMaster,
		MCLK:       PinUnused,
		BCLK:       cfg.SCK,
		WS:         cfg.WS,
		DOUT:       PinUnused,
		DIN:        cfg.DIN,
	}
}
