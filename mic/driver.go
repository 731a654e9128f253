package mic

import "time"

// Pin is a GPIO number as understood by the driver. PinUnused leaves the
// signal unrouted.
type Pin int

const PinUnused Pin = -1

// SlotMode selects how many slots per frame are delivered to the reader.
type SlotMode uint8

const (
	SlotMono SlotMode = iota + 1
	SlotStereo
)

// Standard is the I2S frame format.
type Standard uint8

const (
	StandardPhilips Standard = iota
	StandardMSB
	StandardPCM
)

// Role selects which side generates BCLK and WS.
type Role uint8

const (
	RoleMaster Role = iota
	RoleSlave
)

// RingConfig sizes the DMA descriptor ring behind a channel.
type RingConfig struct {
	// Number of DMA descriptors.
	DescCount int
	// Frames held by each descriptor.
	FrameCount int
}

// InvertFlags inverts clock or frame signals.
type InvertFlags struct {
	MCLK bool
	BCLK bool
	WS   bool
}

// StdConfig is the standard-mode setup applied to a receive channel.
type StdConfig struct {
	SampleRate uint32
	// SlotBits is the width in bits of one slot on the wire.
	SlotBits int
	SlotMode SlotMode
	Standard Standard
	Role     Role
	MCLK     Pin
	BCLK     Pin
	WS       Pin
	DOUT     Pin
	DIN      Pin
	Invert   InvertFlags
}

// Driver allocates receive channels on an audio peripheral.
type Driver interface {
	NewRxChannel(ring RingConfig) (RxChannel, error)
}

// RxChannel is an allocated hardware receive channel. Read blocks for at
// most timeout waiting for the DMA ring and returns the number of bytes
// copied into dst. The timeout is handed to the hardware layer unchanged.
type RxChannel interface {
	InitStdMode(cfg StdConfig) error
	Enable() error
	Disable() error
	Read(dst []byte, timeout time.Duration) (int, error)
	Delete() error
}
