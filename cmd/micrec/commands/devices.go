//go:build linux

package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tinygo-org/i2smic/mic/alsa"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List ALSA capture devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := alsa.Devices()
		if err != nil {
			return fmt.Errorf("failed to list devices: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(devices) == 0 {
			fmt.Fprintln(out, dimStyle.Render("no capture devices"))
			return nil
		}
		for _, d := range devices {
			fmt.Fprintf(out, "%s  %s %s\n",
				titleStyle.Render(d.Name()),
				d.Card+" / "+d.Title,
				dimStyle.Render(d.Path))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
