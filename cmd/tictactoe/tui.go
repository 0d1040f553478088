package main

import (
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jaminalder/tictactoe-history/internal/app"
	"github.com/jaminalder/tictactoe-history/internal/tui"
	"github.com/spf13/cobra"
)

func newTUICmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Play in the terminal.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			// The alternate screen owns the terminal; only debug output is worth keeping.
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if cfg.verbose {
				logger = cfg.logger(cmd.ErrOrStderr())
			}
			m, err := tui.New(app.NewService(app.WithLogger(logger)))
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}
