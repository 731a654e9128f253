//go:build linux

package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinygo-org/i2smic/mic"
	"github.com/tinygo-org/i2smic/mic/alsa"
	"github.com/tinygo-org/i2smic/wav"
)

const chunkDuration = 100 * time.Millisecond

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record to a WAV file",
	Long: `Record 16-bit mono audio to a WAV file.

Recording stops after --duration or on Ctrl-C.

Example:
  micrec record -o take.wav -d 5s --rate 16000 --out-rate 48000`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringP("output", "o", "", "output WAV file (required)")
	recordCmd.Flags().DurationP("duration", "d", 0, "recording length (default from config)")
	recordCmd.Flags().Int("rate", 0, "capture sample rate in Hz")
	recordCmd.Flags().Int("out-rate", 0, "resample to this rate before writing")
	recordCmd.Flags().String("device", "", "capture device, see 'micrec devices'")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return fmt.Errorf("output file is required, use -o flag")
	}
	if d, _ := cmd.Flags().GetDuration("duration"); d > 0 {
		cfg.Duration = d
	}
	if r, _ := cmd.Flags().GetInt("rate"); r > 0 {
		cfg.Rate = r
	}
	if r, _ := cmd.Flags().GetInt("out-rate"); r > 0 {
		cfg.OutRate = r
	}
	if d, _ := cmd.Flags().GetString("device"); d != "" {
		cfg.Device = d
	}
	log := logger()

	chunk := make([]int16, cfg.Rate*int(chunkDuration)/int(time.Second))
	mcfg := cfg.micConfig()
	mcfg.MaxReadSamples = max(len(chunk), mcfg.DMABufCount*mcfg.DMABufFrames)

	rx := mic.New(&alsa.Driver{Device: cfg.Device})
	rx.SetLogger(log)
	if err := rx.Init(mcfg); err != nil {
		return err
	}
	defer func() {
		if err := rx.Deinit(); err != nil {
			log.Warn("release capture device", "err", err)
		}
	}()

	outRate := cfg.Rate
	var rs *monoResampler
	if cfg.OutRate > 0 && cfg.OutRate != cfg.Rate {
		if rs, err = newMonoResampler(cfg.Rate, cfg.OutRate); err != nil {
			return err
		}
		outRate = cfg.OutRate
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer f.Close()
	w, err := wav.NewWriter(f, outRate)
	if err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)

	total := cfg.Rate * int(cfg.Duration/time.Millisecond) / 1000
	captured := 0
	out := cmd.ErrOrStderr()
	log.Debug("recording", "rate", cfg.Rate, "out_rate", outRate, "samples", total)

loop:
	for captured < total {
		select {
		case <-stop:
			break loop
		default:
		}
		want := min(len(chunk), total-captured)
		n, err := rx.ReadSamples(chunk[:want], chunkDuration*2)
		if err != nil {
			return err
		}
		samples := chunk[:n]
		captured += n
		fmt.Fprintf(out, "\r%s", renderMeter(samples, seconds(captured, cfg.Rate), seconds(total, cfg.Rate)))

		if rs != nil {
			if samples, err = rs.Process(samples); err != nil {
				return err
			}
		}
		if err := w.WriteSamples(samples); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
	}
	fmt.Fprintln(out)

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", output, err)
	}
	if captured == 0 {
		return errors.New("no audio captured")
	}
	log.Info("saved", "file", output, "samples", w.Samples(), "rate", outRate)
	return nil
}

func seconds(samples, rate int) string {
	return fmt.Sprintf("%.1fs", float64(samples)/float64(rate))
}
