package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w, err := NewWriter(f, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteSamples([]int16{0, 1, -1}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteSamples([]int16{32767, -32768}); err != nil {
		t.Fatal(err)
	}
	if got := w.Samples(); got != 5 {
		t.Errorf("Samples() = %d, want 5", got)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteSamples([]int16{1}); !errors.Is(err, ErrClosed) {
		t.Errorf("write after close: %v, want ErrClosed", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != headerSize+10 {
		t.Fatalf("file is %d bytes, want %d", len(raw), headerSize+10)
	}
	if got := binary.LittleEndian.Uint32(raw[4:]); got != 36+10 {
		t.Errorf("RIFF size = %d, want 46", got)
	}
	if got := binary.LittleEndian.Uint32(raw[40:]); got != 10 {
		t.Errorf("data size = %d, want 10", got)
	}
	if got := binary.LittleEndian.Uint32(raw[28:]); got != 32000 {
		t.Errorf("byte rate = %d, want 32000", got)
	}

	a, err := Read(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if a.SampleRate != 16000 || a.Channels != 1 || a.Frames() != 5 {
		t.Errorf("decoded %+v", a)
	}
	want := []int16{0, 1, -1, 32767, -32768}
	for i := range want {
		if a.Samples[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, a.Samples[i], want[i])
		}
	}
}

func TestReadSkipsChunks(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.WriteString("WAVE")
	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(3))
	buf.Write([]byte{1, 2, 3, 0}) // odd chunk plus pad byte
	h := newHeader(8000, 2, 4)
	binary.Write(&buf, binary.LittleEndian, h)
	binary.Write(&buf, binary.LittleEndian, []int16{7, -7})

	// Drop the RIFF/WAVE prefix newHeader repeats.
	raw := buf.Bytes()
	raw = append(raw[:24:24], raw[36:]...)

	a, err := Read(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if a.SampleRate != 8000 || a.Channels != 2 || a.Frames() != 1 {
		t.Errorf("decoded %+v", a)
	}
}

func TestReadErrors(t *testing.T) {
	pcm8 := newHeader(8000, 1, 0)
	pcm8.BitsPerSample = 8
	var bad bytes.Buffer
	binary.Write(&bad, binary.LittleEndian, pcm8)

	// Claims 1 GiB of samples but carries two.
	var short bytes.Buffer
	binary.Write(&short, binary.LittleEndian, newHeader(8000, 1, 1<<30))
	short.Write([]byte{1, 0, 2, 0})

	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", nil, ErrHeader},
		{"not riff", []byte("RIFX\x00\x00\x00\x00WAVE"), ErrHeader},
		{"8 bit", bad.Bytes(), ErrFormat},
		{"no data", []byte("RIFF\x00\x00\x00\x00WAVE"), ErrHeader},
		{"truncated data", short.Bytes(), ErrHeader},
	}
	for _, tt := range tests {
		if _, err := Read(bytes.NewReader(tt.in)); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestNewWriterRejectsRate(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := NewWriter(f, 0); !errors.Is(err, ErrFormat) {
		t.Errorf("err = %v, want ErrFormat", err)
	}
}
