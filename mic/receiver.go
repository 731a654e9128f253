package mic

import (
	"fmt"
	"log/slog"
	"time"
)

// Receiver owns at most one live receive channel and turns its 32-bit
// slots into 16-bit PCM. A Receiver is not safe for concurrent use; the
// audio task that initializes it should also be the one reading from it.
type Receiver struct {
	drv Driver
	log *slog.Logger
	// rx is the live channel, nil when uninitialized.
	rx RxChannel
	// scratch holds raw slots between the DMA ring and the caller's buffer.
	scratch []byte
}

// New returns an uninitialized receiver that allocates channels from drv.
func New(drv Driver) *Receiver {
	return &Receiver{drv: drv}
}

// SetLogger sets the logger used for channel lifecycle events and
// failures. A nil logger silences the receiver.
func (r *Receiver) SetLogger(l *slog.Logger) {
	r.log = l
}

// Initialized reports whether a channel is live.
func (r *Receiver) Initialized() bool {
	return r.rx != nil
}

// Init allocates, configures and enables the receive channel described by
// cfg. Calling Init on an initialized receiver is a no-op and cfg is
// ignored. On failure any channel acquired along the way is deleted and the
// receiver stays uninitialized.
func (r *Receiver) Init(cfg Config) error {
	if r.rx != nil {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		r.fail("validate", err)
		return err
	}
	scratch := make([]byte, cfg.scratchSamples()*slotBytes)

	rx, err := r.drv.NewRxChannel(cfg.ring())
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrChannelAlloc, err)
		r.fail("new_channel", err)
		return err
	}
	if err = rx.InitStdMode(cfg.stdConfig()); err != nil {
		err = fmt.Errorf("%w: %w", ErrConfigure, err)
		r.fail("init_std_mode", err)
		r.abandon(rx)
		return err
	}
	if err = rx.Enable(); err != nil {
		err = fmt.Errorf("%w: %w", ErrEnable, err)
		r.fail("enable", err)
		r.abandon(rx)
		return err
	}

	r.scratch = scratch
	r.rx = rx
	if r.log != nil {
		r.log.Info("mic channel enabled",
			slog.Uint64("rate", uint64(cfg.SampleRate)),
			slog.Int("dma_bufs", cfg.DMABufCount),
			slog.Int("dma_frames", cfg.DMABufFrames),
		)
	}
	return nil
}

// ReadSamples fills buf with up to len(buf) samples, waiting at most
// timeout for the DMA ring. It returns the number of samples written, which
// may be less than len(buf) (zero included) when the timeout expires first.
// buf is not touched on error.
func (r *Receiver) ReadSamples(buf []int16, timeout time.Duration) (int, error) {
	if r.rx == nil {
		return 0, ErrNotInitialized
	}
	if len(buf) == 0 {
		return 0, nil
	}
	want := len(buf) * slotBytes
	if want > len(r.scratch) {
		err := fmt.Errorf("%w: %d samples requested, %d available", ErrNoScratch, len(buf), len(r.scratch)/slotBytes)
		r.fail("scratch", err)
		return 0, err
	}

	raw := r.scratch[:want]
	n, err := r.rx.Read(raw, timeout)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRead, err)
		r.fail("read", err)
		return 0, err
	}
	if n > want {
		n = want
	}
	return Narrow(buf, raw[:n]), nil
}

// WriteSamples is not supported on a receive channel and always fails
// without touching the hardware.
func (r *Receiver) WriteSamples(buf []int16, timeout time.Duration) (int, error) {
	return 0, ErrUnimplemented
}

// Deinit disables and deletes the live channel. It is a no-op when the
// receiver is not initialized. The receiver ends up uninitialized even
// when deleting the channel fails; that failure is still returned.
func (r *Receiver) Deinit() error {
	rx := r.rx
	if rx == nil {
		return nil
	}
	r.rx = nil
	r.scratch = nil

	if err := rx.Disable(); err != nil {
		r.fail("disable", err)
	}
	if err := rx.Delete(); err != nil {
		err = fmt.Errorf("%w: %w", ErrRelease, err)
		r.fail("delete", err)
		return err
	}
	if r.log != nil {
		r.log.Info("mic channel released")
	}
	return nil
}

// abandon deletes a channel that never became live.
func (r *Receiver) abandon(rx RxChannel) {
	if err := rx.Delete(); err != nil {
		r.fail("delete", err)
	}
}

func (r *Receiver) fail(step string, err error) {
	if r.log != nil {
		r.log.Error("mic channel", slog.String("step", step), slog.Any("err", err))
	}
}
