package main

import (
	"context"

	"imgbench/internal/gui"
	"imgbench/internal/log"
	"imgbench/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the terminal interface (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(commandContext(cmd), opts)
		},
	}
}

func runTUI(ctx context.Context, opts *options) error {
	wb, err := opts.workbench()
	if err != nil {
		return err
	}
	return tui.Run(ctx, opts.cfg, wb)
}

func newGUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Launch the graphical interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				log.Warn("GUI requested in a build without GUI support")
			}
			wb, err := opts.workbench()
			if err != nil {
				return err
			}
			return gui.Run(commandContext(cmd), opts.cfg, wb)
		},
	}
}
