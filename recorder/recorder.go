// Package recorder implements a one-button voice recorder: press to
// record, press again to stop, press to play back the last recording and
// hold to record over it.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrSourceFailed is returned by Run once the source has failed
	// Config.MaxReadFailures reads in a row.
	ErrSourceFailed = errors.New("recorder:source keeps failing")

	errNotReady = errors.New("recorder:source not ready")
)

// State of the recorder.
type State uint8

const (
	StateIdle State = iota
	StateRecording
	StatePlaying
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StatePlaying:
		return "playing"
	case StateProcessing:
		return "processing"
	}
	return "unknown"
}

// Source delivers 16-bit PCM, normally a *mic.Receiver.
type Source interface {
	ReadSamples(buf []int16, timeout time.Duration) (int, error)
}

// readiness is implemented by sources that can report whether they are
// able to deliver samples at all, such as *mic.Receiver.
type readiness interface {
	Initialized() bool
}

// Sink accepts 16-bit PCM for playback.
type Sink interface {
	WriteSamples(buf []int16, timeout time.Duration) (int, error)
}

// Screen shows recorder status. *display.Screen satisfies it.
type Screen interface {
	Message(title, msg string) error
	Recording(elapsed, limit time.Duration) error
	Playing(pos, total time.Duration) error
}

// LED is the status indicator.
type LED interface {
	High()
	Low()
}

// Button is an active-low push button.
type Button interface {
	Get() bool
}

// Beeper plays a confirmation tone.
type Beeper interface {
	Beep(freq int, d time.Duration)
}

// Config holds recorder timings and sizes.
type Config struct {
	SampleRate int
	MaxRecord  time.Duration
	// ChunkSamples is the number of samples requested per read.
	ChunkSamples int
	ReadTimeout  time.Duration
	// LongPress is the hold time that forces a new recording when one
	// already exists.
	LongPress time.Duration
	Debounce  time.Duration
	// MaxReadFailures consecutive failed reads make Run give up.
	// Zero never gives up.
	MaxReadFailures int
}

func DefaultConfig() Config {
	return Config{
		SampleRate:   16000,
		MaxRecord:    10 * time.Second,
		ChunkSamples: 1024,
		ReadTimeout:  100 * time.Millisecond,
		LongPress:    time.Second,
		Debounce:     50 * time.Millisecond,

		MaxReadFailures: 20,
	}
}

// Recorder is the record/playback state machine. It is driven from a
// single loop calling Poll and Step.
type Recorder struct {
	cfg    Config
	src    Source
	sink   Sink
	screen Screen
	led    LED
	beeper Beeper
	log    *slog.Logger

	now   func() time.Time
	sleep func(time.Duration)

	state    State
	samples  []int16
	recorded int
	played   int
	chunk    []int16
	started  time.Time
	// failures counts consecutive failed reads; err is set once they
	// reach MaxReadFailures.
	failures int
	err      error
	// shown is the elapsed time last drawn on the recording screen.
	shown time.Duration
}

// New returns an idle recorder reading from src. screen and led are
// required; use SetSink and SetBeeper for the optional parts.
func New(src Source, screen Screen, led LED, cfg Config) *Recorder {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	if cfg.ChunkSamples <= 0 {
		cfg.ChunkSamples = DefaultConfig().ChunkSamples
	}
	return &Recorder{
		cfg:     cfg,
		src:     src,
		screen:  screen,
		led:     led,
		now:     time.Now,
		sleep:   time.Sleep,
		samples: make([]int16, int(int64(cfg.MaxRecord)*int64(cfg.SampleRate)/int64(time.Second))),
		chunk:   make([]int16, cfg.ChunkSamples),
	}
}

func (r *Recorder) SetSink(s Sink) { r.sink = s }
func (r *Recorder) SetBeeper(b Beeper) { r.beeper = b }
func (r *Recorder) SetLogger(l *slog.Logger) { r.log = l }

// SetClock replaces the time source and sleep function.
func (r *Recorder) SetClock(now func() time.Time, sleep func(time.Duration)) {
	r.now = now
	r.sleep = sleep
}

func (r *Recorder) State() State { return r.state }

// Recording returns the samples captured by the last recording.
func (r *Recorder) Recording() []int16 { return r.samples[:r.recorded] }

// RecordedDuration is the length of the last recording.
func (r *Recorder) RecordedDuration() time.Duration {
	return r.samplesDuration(r.recorded)
}

// Position is the playback position.
func (r *Recorder) Position() time.Duration {
	return r.samplesDuration(r.played)
}

func (r *Recorder) samplesDuration(n int) time.Duration {
	return time.Duration(n) * time.Second / time.Duration(r.cfg.SampleRate)
}

// Poll checks the button once. A press held past the debounce interval is
// timed until release and handed to Press.
func (r *Recorder) Poll(btn Button) bool {
	if btn.Get() {
		return false
	}
	start := r.now()
	r.sleep(r.cfg.Debounce)
	if btn.Get() {
		return false
	}
	for !btn.Get() {
		r.sleep(10 * time.Millisecond)
	}
	r.Press(r.now().Sub(start))
	return true
}

// Press handles a button press held for the given duration.
func (r *Recorder) Press(held time.Duration) {
	r.debug("button", slog.Duration("held", held), slog.String("state", r.state.String()))
	if r.beeper != nil {
		r.beeper.Beep(1000, 100*time.Millisecond)
	}
	switch r.state {
	case StateIdle:
		if r.recorded == 0 || held >= r.cfg.LongPress {
			r.StartRecording()
		} else {
			r.StartPlaying()
		}
	case StateRecording:
		r.StopRecording()
	case StatePlaying:
		r.StopPlaying()
	case StateProcessing:
		r.state = StateIdle
		r.led.Low()
		r.show(r.screen.Message("System", "Cancelled"))
	}
}

// StartRecording discards the last recording and starts a new one. It
// refuses when the source reports it is not ready.
func (r *Recorder) StartRecording() {
	if src, ok := r.src.(readiness); ok && !src.Initialized() {
		r.show(r.screen.Message("Error", "Mic not ready"))
		r.logErr("record", errNotReady)
		return
	}
	r.state = StateRecording
	r.recorded = 0
	r.shown = 0
	r.failures = 0
	r.err = nil
	r.started = r.now()
	r.led.High()
	r.show(r.screen.Recording(0, r.cfg.MaxRecord))
	r.info("recording started")
}

func (r *Recorder) StopRecording() {
	if r.state != StateRecording {
		return
	}
	r.state = StateProcessing
	r.led.Low()
	d := r.RecordedDuration()
	r.show(r.screen.Message("Recording Done", formatSeconds(d)+" Press to play"))
	r.info("recording done", slog.Duration("length", d), slog.Int("samples", r.recorded))
}

func (r *Recorder) StartPlaying() {
	if r.recorded == 0 {
		r.show(r.screen.Message("Error", "No recording"))
		return
	}
	r.state = StatePlaying
	r.played = 0
	r.led.High()
	r.show(r.screen.Playing(0, r.RecordedDuration()))
	r.info("playback started")
}

func (r *Recorder) StopPlaying() {
	if r.state != StatePlaying {
		return
	}
	r.state = StateIdle
	r.led.Low()
	r.show(r.screen.Message("Playback Stop", "Press to replay"))
	r.info("playback stopped")
}

// Step runs one iteration of the current state and returns how long the
// caller may wait before the next one.
func (r *Recorder) Step() time.Duration {
	switch r.state {
	case StateIdle:
		r.stepIdle()
	case StateRecording:
		r.stepRecording()
	case StatePlaying:
		r.stepPlaying()
	case StateProcessing:
		r.stepProcessing()
	}
	switch {
	case r.state == StateRecording && r.failures > 0:
		return r.retryDelay()
	case r.state == StateRecording:
		return 0
	case r.state == StatePlaying && r.sink != nil:
		// The sink blocks for the chunk it was handed.
		return 0
	case r.state == StatePlaying:
		return playChunk
	}
	return 50 * time.Millisecond
}

// Err reports why the last recording was abandoned, if it was.
func (r *Recorder) Err() error { return r.err }

// Run polls btn and steps the recorder, sleeping between steps, until ctx
// is done or the source has failed too often to keep recording.
func (r *Recorder) Run(ctx context.Context, btn Button) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Poll(btn)
		wait := r.Step()
		if r.err != nil {
			return r.err
		}
		if wait > 0 {
			r.sleep(wait)
		}
	}
}

// stepIdle blinks slowly and shows the next action.
func (r *Recorder) stepIdle() {
	r.blink(100*time.Millisecond, 1900*time.Millisecond)
	if r.recorded > 0 {
		r.show(r.screen.Message("Ready", "Press to play"))
	} else {
		r.show(r.screen.Message("Ready", "Press to record"))
	}
}

// stepRecording drains one chunk from the source. The LED blinks off the
// clock so the loop never sleeps while the DMA ring is filling. Recording
// stops once the buffer is full or MaxRecord has passed on the clock,
// whichever comes first.
func (r *Recorder) stepRecording() {
	if r.now().Sub(r.started)/(200*time.Millisecond)%2 == 0 {
		r.led.High()
	} else {
		r.led.Low()
	}

	n, err := r.src.ReadSamples(r.chunk, r.cfg.ReadTimeout)
	if err != nil {
		r.logErr("read", err)
		r.failures++
		if r.cfg.MaxReadFailures > 0 && r.failures >= r.cfg.MaxReadFailures {
			r.err = fmt.Errorf("%w: %w", ErrSourceFailed, err)
			r.StopRecording()
			return
		}
	} else {
		r.failures = 0
	}
	r.recorded += copy(r.samples[r.recorded:], r.chunk[:n])

	elapsed := r.RecordedDuration()
	if elapsed-r.shown >= 100*time.Millisecond {
		r.shown = elapsed
		r.show(r.screen.Recording(elapsed, r.cfg.MaxRecord))
	}
	if r.recorded >= len(r.samples) || r.now().Sub(r.started) >= r.cfg.MaxRecord {
		r.StopRecording()
	}
}

// retryDelay is how long to wait after a failed read.
func (r *Recorder) retryDelay() time.Duration {
	if r.cfg.ReadTimeout > 0 {
		return r.cfg.ReadTimeout
	}
	return 10 * time.Millisecond
}

const playChunk = 100 * time.Millisecond

// stepPlaying pushes 100ms of audio to the sink. Without a sink playback
// only advances the position.
func (r *Recorder) stepPlaying() {
	r.led.High()
	n := int(int64(r.cfg.SampleRate) * int64(playChunk) / int64(time.Second))
	if rem := r.recorded - r.played; n > rem {
		n = rem
	}
	if r.sink != nil && n > 0 {
		if _, err := r.sink.WriteSamples(r.samples[r.played:r.played+n], r.cfg.ReadTimeout); err != nil {
			r.logErr("write", err)
		}
	}
	r.played += n
	r.show(r.screen.Playing(r.Position(), r.RecordedDuration()))
	if r.played >= r.recorded {
		r.StopPlaying()
	}
}

func (r *Recorder) stepProcessing() {
	for i := 0; i < 3; i++ {
		r.blink(100*time.Millisecond, 100*time.Millisecond)
	}
	if r.state == StateProcessing {
		r.state = StateIdle
	}
}

func (r *Recorder) blink(on, off time.Duration) {
	r.led.High()
	r.sleep(on)
	r.led.Low()
	r.sleep(off)
}

func (r *Recorder) show(err error) {
	if err != nil {
		r.logErr("display", err)
	}
}

func (r *Recorder) info(msg string, args ...any) {
	if r.log != nil {
		r.log.Info(msg, args...)
	}
}

func (r *Recorder) debug(msg string, args ...any) {
	if r.log != nil {
		r.log.Debug(msg, args...)
	}
}

func (r *Recorder) logErr(step string, err error) {
	if r.log != nil {
		r.log.Error("recorder", slog.String("step", step), slog.Any("err", err))
	}
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
