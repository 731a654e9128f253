// Package mic manages a single I2S receive channel wired to a digital
// microphone such as the INMP441. The hardware side is reached through a
// [Driver], implemented per target in the espidf, rp2 and alsa
// subpackages.
package mic

import "errors"

var (
	ErrInvalidConfig  = errors.New("mic:invalid config")
	ErrChannelAlloc   = errors.New("mic:channel allocation failed")
	ErrConfigure      = errors.New("mic:std mode configuration failed")
	ErrEnable         = errors.New("mic:channel enable failed")
	ErrNotInitialized = errors.New("mic:not initialized")
	ErrNoScratch      = errors.New("mic:scratch buffer unavailable")
	ErrRead           = errors.New("mic:read failed")
	ErrUnimplemented  = errors.New("mic:not implemented")
	ErrRelease        = errors.New("mic:channel release failed")
)

// Status collapses err into the C-style status code used across the
// firmware boundary: 0 on success, -1 on any failure.
func Status(err error) int {
	if err != nil {
		return -1
	}
	return 0
}
