package commands

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/spf13/cobra"

	"github.com/tinygo-org/i2smic/wav"
)

var playCmd = &cobra.Command{
	Use:   "play <file.wav>",
	Short: "Play a WAV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		a, err := wav.Read(f)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		log := logger()
		log.Debug("playing", "file", args[0], "rate", a.SampleRate, "channels", a.Channels, "frames", a.Frames())

		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   a.SampleRate,
			ChannelCount: a.Channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			return fmt.Errorf("failed to open audio output: %w", err)
		}
		<-ready

		player := ctx.NewPlayer(bytes.NewReader(pcmBytes(a.Samples)))
		defer player.Close()
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func pcmBytes(samples []int16) []byte {
	b := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(s))
	}
	return b
}
