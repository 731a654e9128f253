//go:build esp32

// Package espidf implements mic.Driver on the ESP-IDF i2s_std channel
// driver. The ESP-IDF headers and libraries must be on the cgo search
// path of the build.
package espidf

/*
#include "shim.h"
*/
import "C"

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/tinygo-org/i2smic/mic"
)

var (
	errSlave   = errors.New("espidf:slave role not supported")
	errDeleted = errors.New("espidf:channel deleted")
)

// Error is a non-OK esp_err_t.
type Error struct {
	Op   string
	Code int
}

func (e *Error) Error() string {
	return fmt.Sprintf("espidf:%s: %s (%d)", e.Op, C.GoString(C.esp_err_to_name(C.esp_err_t(e.Code))), e.Code)
}

func check(op string, ret C.esp_err_t) error {
	if ret == C.ESP_OK {
		return nil
	}
	return &Error{Op: op, Code: int(ret)}
}

// Driver allocates channels on the first free I2S controller.
type Driver struct{}

var _ mic.Driver = Driver{}

func (Driver) NewRxChannel(ring mic.RingConfig) (mic.RxChannel, error) {
	var h C.i2s_chan_handle_t
	ret := C.i2smic_new_rx_channel(C.int(ring.DescCount), C.int(ring.FrameCount), &h)
	if err := check("i2s_new_channel", ret); err != nil {
		return nil, err
	}
	return &Channel{h: h}, nil
}

// Channel wraps an i2s_chan_handle_t.
type Channel struct {
	h C.i2s_chan_handle_t
}

func (ch *Channel) InitStdMode(cfg mic.StdConfig) error {
	if ch.h == nil {
		return errDeleted
	}
	if cfg.Role != mic.RoleMaster {
		return errSlave
	}
	ret := C.i2smic_init_std_mode(ch.h, C.uint32_t(cfg.SampleRate),
		C.int(cfg.Standard), C.bool(cfg.SlotMode == mic.SlotStereo),
		C.int(cfg.MCLK), C.int(cfg.BCLK), C.int(cfg.WS), C.int(cfg.DOUT), C.int(cfg.DIN),
		C.bool(cfg.Invert.MCLK), C.bool(cfg.Invert.BCLK), C.bool(cfg.Invert.WS))
	return check("i2s_channel_init_std_mode", ret)
}

func (ch *Channel) Enable() error {
	if ch.h == nil {
		return errDeleted
	}
	return check("i2s_channel_enable", C.i2s_channel_enable(ch.h))
}

func (ch *Channel) Disable() error {
	if ch.h == nil {
		return errDeleted
	}
	return check("i2s_channel_disable", C.i2s_channel_disable(ch.h))
}

// Read waits up to timeout for the DMA ring. A timeout with some bytes
// already copied is reported as a short read.
func (ch *Channel) Read(dst []byte, timeout time.Duration) (int, error) {
	if ch.h == nil {
		return 0, errDeleted
	}
	if len(dst) == 0 {
		return 0, nil
	}
	var n C.size_t
	ret := C.i2smic_read(ch.h, unsafe.Pointer(&dst[0]), C.size_t(len(dst)), &n, C.uint32_t(timeout.Milliseconds()))
	if ret == C.ESP_ERR_TIMEOUT {
		return int(n), nil
	}
	if err := check("i2s_channel_read", ret); err != nil {
		return 0, err
	}
	return int(n), nil
}

// Delete frees the channel. The handle is dropped even when the driver
// reports an error.
func (ch *Channel) Delete() error {
	if ch.h == nil {
		return nil
	}
	h := ch.h
	ch.h = nil
	return check("i2s_del_channel", C.i2s_del_channel(h))
}
