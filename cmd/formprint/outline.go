package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/formprint/internal/config"
	"github.com/nao1215/formprint/internal/log"
	"github.com/nao1215/formprint/internal/model"
	"github.com/nao1215/formprint/internal/pipeline"
	"github.com/nao1215/formprint/internal/report"
)

// NewOutlineCmd creates the outline command.
func NewOutlineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outline FILE",
		Short: "Show the heading outline of a form in the terminal",
		Long: `Outline numbers a form definition and shows only its headings, indented
by level. Use it to check the structure of a form before printing it.

Nothing is archived.

Examples:
  formprint outline boat.json

  # Show where each answer leads
  formprint outline --branches boat.json`,
		Args: cobra.ExactArgs(1),
		RunE: runOutlineCmd,
	}

	cmd.Flags().BoolP("branches", "B", false,
		"Show branch explanations beneath each heading")
	cmd.Flags().StringP("lang", "l", "",
		"Language of branch explanations (en, cy)")
	cmd.Flags().StringP("prefix", "p", "",
		"Heading number to print the form under")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .formprint in current or home directory)")

	return cmd
}

// runOutlineCmd executes the outline command.
func runOutlineCmd(cmd *cobra.Command, args []string) error {
	branches, err := cmd.Flags().GetBool("branches")
	if err != nil {
		return err
	}

	cfg := config.NewConfig()
	cfg.Forms = args
	if cfg.Language, err = cmd.Flags().GetString("lang"); err != nil {
		return err
	}
	if cfg.Prefix, err = cmd.Flags().GetString("prefix"); err != nil {
		return err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return err
	}
	if cfg.FormConfigs, err = loadFormConfigs(cfg.ConfigFilePath); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))

	job := model.NewPrintJob(nil, args[0])
	if err := newPipeline(cfg, logger).Execute(cmd.Context(), pipeline.NewJob(job)); err != nil {
		return fmt.Errorf("failed to print %s: %w", args[0], err)
	}

	_, err = report.NewOutlineWriter(cmd.OutOrStdout(), report.WithBranches(branches)).Write(job)
	return err
}
