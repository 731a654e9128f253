// Package wav reads and writes 16-bit PCM RIFF/WAVE files.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrFormat = errors.New("wav:unsupported format")
	ErrHeader = errors.New("wav:malformed header")
	ErrClosed = errors.New("wav:writer closed")
)

const (
	headerSize    = 44
	formatPCM     = 1
	bitsPerSample = 16
)

// Audio is a decoded WAV file. Samples are interleaved by channel.
type Audio struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Frames is the number of samples per channel.
func (a *Audio) Frames() int {
	if a.Channels == 0 {
		return 0
	}
	return len(a.Samples) / a.Channels
}

type header struct {
	Riff          [4]byte
	RiffSize      uint32
	Wave          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	Format        uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

func newHeader(sampleRate, channels, dataSize int) header {
	blockAlign := channels * bitsPerSample / 8
	return header{
		Riff:          [4]byte{'R', 'I', 'F', 'F'},
		RiffSize:      uint32(headerSize - 8 + dataSize),
		Wave:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		Format:        formatPCM,
		Channels:      uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: bitsPerSample,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      uint32(dataSize),
	}
}

// Writer streams mono samples to a WAV file. The sizes in the header are
// written on Close, which needs w to be seekable.
type Writer struct {
	w          io.WriteSeeker
	sampleRate int
	data       int
	closed     bool
}

// NewWriter writes a placeholder header to w.
func NewWriter(w io.WriteSeeker, sampleRate int) (*Writer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrFormat, sampleRate)
	}
	if err := binary.Write(w, binary.LittleEndian, newHeader(sampleRate, 1, 0)); err != nil {
		return nil, err
	}
	return &Writer{w: w, sampleRate: sampleRate}, nil
}

func (w *Writer) WriteSamples(samples []int16) error {
	if w.closed {
		return ErrClosed
	}
	if err := binary.Write(w.w, binary.LittleEndian, samples); err != nil {
		return err
	}
	w.data += 2 * len(samples)
	return nil
}

// Samples is the number of samples written so far.
func (w *Writer) Samples() int { return w.data / 2 }

// Close patches the header sizes. It does not close the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if _, err := w.w.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(w.w, binary.LittleEndian, newHeader(w.sampleRate, 1, w.data)); err != nil {
		return err
	}
	_, err := w.w.Seek(0, io.SeekEnd)
	return err
}

// Read decodes a 16-bit PCM WAV stream. Chunks other than "fmt " and
// "data" are skipped.
func Read(r io.Reader) (*Audio, error) {
	var riff struct {
		ID   [4]byte
		Size uint32
		Wave [4]byte
	}
	if err := binary.Read(r, binary.LittleEndian, &riff); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHeader, err)
	}
	if string(riff.ID[:]) != "RIFF" || string(riff.Wave[:]) != "WAVE" {
		return nil, ErrHeader
	}

	var a *Audio
	for {
		var chunk struct {
			ID   [4]byte
			Size uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			return nil, fmt.Errorf("%w: no data chunk: %w", ErrHeader, err)
		}
		switch string(chunk.ID[:]) {
		case "fmt ":
			if chunk.Size < 16 {
				return nil, ErrHeader
			}
			var f struct {
				Format        uint16
				Channels      uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrHeader, err)
			}
			if f.Format != formatPCM || f.BitsPerSample != bitsPerSample || f.Channels == 0 {
				return nil, fmt.Errorf("%w: format %d, %d bits, %d channels", ErrFormat, f.Format, f.BitsPerSample, f.Channels)
			}
			a = &Audio{SampleRate: int(f.SampleRate), Channels: int(f.Channels)}
			if err := skip(r, int64(chunk.Size)-16); err != nil {
				return nil, err
			}
		case "data":
			if a == nil {
				return nil, fmt.Errorf("%w: data before fmt", ErrHeader)
			}
			// The chunk size is untrusted; only what is actually present
			// gets allocated.
			raw, err := io.ReadAll(io.LimitReader(r, int64(chunk.Size)))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrHeader, err)
			}
			if len(raw) != int(chunk.Size) {
				return nil, fmt.Errorf("%w: data chunk truncated at %d of %d bytes", ErrHeader, len(raw), chunk.Size)
			}
			a.Samples = make([]int16, len(raw)/2)
			for i := range a.Samples {
				a.Samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
			}
			return a, nil
		default:
			if err := skip(r, int64(chunk.Size)); err != nil {
				return nil, err
			}
		}
		if chunk.Size%2 == 1 {
			if err := skip(r, 1); err != nil {
				return nil, err
			}
		}
	}
}

func skip(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		return fmt.Errorf("%w: %w", ErrHeader, err)
	}
	return nil
}
