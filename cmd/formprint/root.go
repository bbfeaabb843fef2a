package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for formprint.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formprint",
		Short: "Print branching forms as numbered documents",
		Long: `formprint turns a branching online form definition into a linear,
printable document. Pages are numbered hierarchically so that pages only
reached under a condition sit beneath the question that leads to them,
and every branch is written out as "If ..., go to 1.2.1".

Finished prints are archived so you can see which headings changed
after the form definition was edited.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewPrintCmd())
	cmd.AddCommand(NewOutlineCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
