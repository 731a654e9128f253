// Command micrec records from an I2S microphone attached to a Linux host
// and plays WAV files back.
//
// Usage:
//
//	micrec [flags] <command> [args]
//
// Commands:
//
//	devices - list ALSA capture devices
//	record  - capture to a WAV file
//	play    - play a WAV file
//	config  - show the effective configuration
//
// Configuration:
//
//	Defaults are read from ~/.i2smic/config.yaml when present.
package main

import (
	"fmt"
	"os"

	"github.com/tinygo-org/i2smic/cmd/micrec/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
