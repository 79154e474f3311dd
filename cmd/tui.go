package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/cinemactl/screen"
	"github.com/s0up4200/cinemactl/tui"
)

var tuiLogFile string

// tuiCmd opens the interactive terminal UI
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and manage everything in an interactive terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs to this file while the UI is open")

	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Anything written to the terminal would corrupt the UI
	uiLogger := zerolog.Nop()
	if tuiLogFile != "" {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		uiLogger = zerolog.New(f).With().Timestamp().Logger()
	}

	// The shared client logs to stderr
	uiClient, err := newClient(cfg.API, uiLogger)
	if err != nil {
		return err
	}

	m := tui.New(cmd.Context(), uiClient,
		screen.WithLogger(uiLogger),
		screen.WithPolicy(policy),
	)
	return tui.Run(cmd.Context(), m)
}
