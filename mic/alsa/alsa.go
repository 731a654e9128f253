//go:build linux

// Package alsa implements mic.Driver on a Linux ALSA capture device, for
// I2S microphones exposed through a codec or a USB bridge. Frames are
// captured as two S32_LE slots and only the left slot is kept.
package alsa

import (
	"errors"
	"fmt"
	"time"

	yalsa "github.com/yobert/alsa"

	"github.com/tinygo-org/i2smic/mic"
)

const channels = 2

var (
	ErrNoDevice = errors.New("alsa:no matching capture device")
	errFormat   = errors.New("alsa:only 32 bit slots are supported")
	errDeleted  = errors.New("alsa:channel deleted")
	errNotInit  = errors.New("alsa:channel not configured")
)

// Devices lists every capture PCM on the system.
func Devices() ([]DeviceInfo, error) {
	cards, err := yalsa.OpenCards()
	if err != nil {
		return nil, err
	}
	defer yalsa.CloseCards(cards)

	var infos []DeviceInfo
	for _, card := range cards {
		devices, err := card.Devices()
		if err != nil {
			return nil, err
		}
		for _, dev := range devices {
			if dev.Type != yalsa.PCM || !dev.Record {
				continue
			}
			infos = append(infos, info(card, dev))
		}
	}
	return infos, nil
}

func info(card *yalsa.Card, dev *yalsa.Device) DeviceInfo {
	return DeviceInfo{
		Card:       card.Title,
		CardNumber: card.Number,
		Title:      dev.Title,
		Number:     dev.Number,
		Path:       dev.Path,
	}
}

// Driver opens the first capture device matching Device. See
// DeviceInfo for the accepted forms; empty picks the first one found.
type Driver struct {
	Device string
}

var _ mic.Driver = (*Driver)(nil)

func (d *Driver) NewRxChannel(ring mic.RingConfig) (mic.RxChannel, error) {
	cards, err := yalsa.OpenCards()
	if err != nil {
		return nil, err
	}
	for _, card := range cards {
		devices, err := card.Devices()
		if err != nil {
			yalsa.CloseCards(cards)
			return nil, err
		}
		for _, dev := range devices {
			if dev.Type != yalsa.PCM || !dev.Record || !info(card, dev).matches(d.Device) {
				continue
			}
			if err := dev.Open(); err != nil {
				yalsa.CloseCards(cards)
				return nil, fmt.Errorf("alsa:open %s: %w", dev.Path, err)
			}
			return &Channel{
				cards:  cards,
				dev:    dev,
				Info:   info(card, dev),
				frames: ring.DescCount * ring.FrameCount,
			}, nil
		}
	}
	yalsa.CloseCards(cards)
	return nil, ErrNoDevice
}

// Channel is an open capture PCM.
type Channel struct {
	Info DeviceInfo

	cards    []*yalsa.Card
	dev      *yalsa.Device
	frames   int
	prepared bool
	enabled  bool
	raw      []byte
}

// InitStdMode negotiates the hardware parameters. The device picks the
// bus framing itself, so only the rate and slot width are applied.
func (ch *Channel) InitStdMode(cfg mic.StdConfig) error {
	if ch.dev == nil {
		return errDeleted
	}
	if cfg.SlotBits != 32 {
		return errFormat
	}
	if _, err := ch.dev.NegotiateRate(int(cfg.SampleRate)); err != nil {
		return err
	}
	if _, err := ch.dev.NegotiateChannels(channels); err != nil {
		return err
	}
	if _, err := ch.dev.NegotiateFormat(yalsa.S32_LE); err != nil {
		return err
	}
	if _, err := ch.dev.NegotiateBufferSize(ch.frames); err != nil {
		return err
	}
	if err := ch.dev.Prepare(); err != nil {
		return err
	}
	ch.prepared = true
	return nil
}

func (ch *Channel) Enable() error {
	if ch.dev == nil {
		return errDeleted
	}
	if !ch.prepared {
		return errNotInit
	}
	ch.enabled = true
	return nil
}

func (ch *Channel) Disable() error {
	if ch.dev == nil {
		return errDeleted
	}
	ch.enabled = false
	return nil
}

// Read blocks until enough frames arrive to fill dst with left slots.
// ALSA reads have no deadline, so timeout is not applied.
func (ch *Channel) Read(dst []byte, timeout time.Duration) (int, error) {
	if ch.dev == nil {
		return 0, errDeleted
	}
	if !ch.enabled {
		return 0, errNotInit
	}
	frames := len(dst) / 4
	if frames == 0 {
		return 0, nil
	}
	need := frames * 4 * channels
	if cap(ch.raw) < need {
		ch.raw = make([]byte, need)
	}
	raw := ch.raw[:need]
	if err := ch.dev.Read(raw); err != nil {
		return 0, err
	}
	return leftSlots(dst, raw, channels), nil
}

func (ch *Channel) Delete() error {
	if ch.dev == nil {
		return nil
	}
	ch.dev.Close()
	yalsa.CloseCards(ch.cards)
	ch.dev = nil
	ch.cards = nil
	return nil
}
