package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/tinygo-org/i2smic/mic"
)

const (
	// DefaultBaseDir is the configuration directory under the home directory.
	DefaultBaseDir = ".i2smic"
	// DefaultConfigFile is the configuration file name.
	DefaultConfigFile = "config.yaml"
)

// Config holds the defaults for the record and play commands.
type Config struct {
	// Device selects the capture device, see `micrec devices`.
	Device string `yaml:"device,omitempty"`

	// Rate is the capture sample rate in Hz.
	Rate int `yaml:"rate,omitempty"`

	// OutRate resamples the recording before writing when non-zero.
	OutRate int `yaml:"out_rate,omitempty"`

	// Duration is the default recording length.
	Duration time.Duration `yaml:"duration,omitempty"`

	// DMABufCount and DMABufFrames size the capture buffer.
	DMABufCount  int `yaml:"dma_buf_count,omitempty"`
	DMABufFrames int `yaml:"dma_buf_frames,omitempty"`
}

// DefaultConfig matches mic.DefaultConfig with a 10 second recording.
func DefaultConfig() Config {
	m := mic.DefaultConfig()
	return Config{
		Rate:         int(m.SampleRate),
		Duration:     10 * time.Second,
		DMABufCount:  m.DMABufCount,
		DMABufFrames: m.DMABufFrames,
	}
}

// LoadConfig reads path over the defaults. An empty path means the file in
// the home directory, and a missing file leaves the defaults untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, DefaultBaseDir, DefaultConfigFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Rate <= 0 {
		return cfg, fmt.Errorf("config %s: invalid rate %d", path, cfg.Rate)
	}
	return cfg, nil
}

// micConfig is the receiver configuration for cfg.
func (cfg Config) micConfig() mic.Config {
	m := mic.DefaultConfig()
	m.SampleRate = uint32(cfg.Rate)
	if cfg.DMABufCount > 0 {
		m.DMABufCount = cfg.DMABufCount
	}
	if cfg.DMABufFrames > 0 {
		m.DMABufFrames = cfg.DMABufFrames
	}
	return m
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
