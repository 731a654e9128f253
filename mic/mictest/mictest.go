// Package mictest provides an in-memory mic.Driver for tests.
package mictest

import (
	"errors"
	"time"

	"github.com/tinygo-org/i2smic/mic"
)

var (
	ErrInjected = errors.New("mictest:injected failure")
	errDeleted  = errors.New("mictest:channel deleted")
)

// Driver hands out Channels fed from Slots. Set any of the Err fields to
// make the matching call fail.
type Driver struct {
	AllocErr   error
	InitErr    error
	EnableErr  error
	DisableErr error
	DeleteErr  error
	ReadErr    error

	// Slots are the raw 32-bit words the channel delivers, consumed in order.
	Slots []int32

	// Calls records every driver and channel call by name.
	Calls []string
	// Allocated counts successful NewRxChannel calls.
	Allocated int
	// Live counts channels allocated and not yet deleted.
	Live int
	// Last is the most recently allocated channel.
	Last *Channel
}

// Channel is a receive channel allocated by Driver.
type Channel struct {
	drv     *Driver
	Ring    mic.RingConfig
	Std     mic.StdConfig
	Enabled bool
	Deleted bool
	// Timeouts records the timeout of every Read.
	Timeouts []time.Duration
}

var _ mic.Driver = (*Driver)(nil)
var _ mic.RxChannel = (*Channel)(nil)

// Count returns how many recorded calls match name.
func (d *Driver) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (d *Driver) NewRxChannel(ring mic.RingConfig) (mic.RxChannel, error) {
	d.Calls = append(d.Calls, "new")
	if d.AllocErr != nil {
		return nil, d.AllocErr
	}
	ch := &Channel{drv: d, Ring: ring}
	d.Allocated++
	d.Live++
	d.Last = ch
	return ch, nil
}

func (ch *Channel) InitStdMode(cfg mic.StdConfig) error {
	ch.drv.Calls = append(ch.drv.Calls, "init")
	if ch.drv.InitErr != nil {
		return ch.drv.InitErr
	}
	ch.Std = cfg
	return nil
}

func (ch *Channel) Enable() error {
	ch.drv.Calls = append(ch.drv.Calls, "enable")
	if ch.drv.EnableErr != nil {
		return ch.drv.EnableErr
	}
	ch.Enabled = true
	return nil
}

func (ch *Channel) Disable() error {
	ch.drv.Calls = append(ch.drv.Calls, "disable")
	if ch.drv.DisableErr != nil {
		return ch.drv.DisableErr
	}
	ch.Enabled = false
	return nil
}

// Read copies as many whole pending slots as fit in dst.
func (ch *Channel) Read(dst []byte, timeout time.Duration) (int, error) {
	ch.drv.Calls = append(ch.drv.Calls, "read")
	ch.Timeouts = append(ch.Timeouts, timeout)
	if ch.Deleted {
		return 0, errDeleted
	}
	if ch.drv.ReadErr != nil {
		return 0, ch.drv.ReadErr
	}
	n := len(dst) / 4
	if n > len(ch.drv.Slots) {
		n = len(ch.drv.Slots)
	}
	written := mic.PutSlots(dst, ch.drv.Slots[:n])
	ch.drv.Slots = ch.drv.Slots[n:]
	return written, nil
}

// Delete releases the channel. The channel counts as released even when
// DeleteErr is set, mirroring vendor drivers that free the handle before
// reporting.
func (ch *Channel) Delete() error {
	ch.drv.Calls = append(ch.drv.Calls, "delete")
	if !ch.Deleted {
		ch.Deleted = true
		ch.drv.Live--
	}
	return ch.drv.DeleteErr
}
