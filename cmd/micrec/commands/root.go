package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "micrec",
	Short: "Record from an I2S microphone",
	Long: `micrec - capture 16-bit PCM from an I2S microphone.

The microphone is read through an ALSA capture device delivering
32-bit I2S slots; the left slot is narrowed to 16 bits.

Examples:
  # List capture devices
  micrec devices

  # Record 5 seconds from card 1 and resample to 48 kHz
  micrec record -o take.wav -d 5s --device hw:1,0 --out-rate 48000

  # Play it back
  micrec play take.wav`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.i2smic/config.yaml)")
}

// logger writes structured logs to stderr.
func logger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
