package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/formprint/internal/config"
	"github.com/nao1215/formprint/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [form]",
		Short: "List archived print runs",
		Long: `History lists the print runs recorded in the archive.

Without arguments it lists every form that has been printed. With a form
name it lists that form's runs, newest first, with their IDs for use with
'formprint compare --with-run-id'.

Examples:
  formprint history
  formprint history "Boat registration"
  formprint history --json "Boat registration"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output history in JSON format")
	cmd.Flags().String("archive-dir", config.XDGDataDir(),
		"Directory of the print archive")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	archive, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer archive.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		return listForms(cmd.Context(), archive, out, jsonOutput)
	}
	return listRuns(cmd.Context(), archive, out, args[0], jsonOutput)
}

// openArchive opens the archive named by the --archive-dir flag.
func openArchive(cmd *cobra.Command) (*database.Archive, error) {
	dir, err := cmd.Flags().GetString("archive-dir")
	if err != nil {
		return nil, err
	}
	archive, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return archive, nil
}

// listForms lists all forms that have print runs in the archive.
func listForms(ctx context.Context, archive *database.Archive, out io.Writer, jsonOutput bool) error {
	forms, err := archive.ListForms(ctx)
	if err != nil {
		return fmt.Errorf("failed to list forms: %w", err)
	}

	if jsonOutput {
		return writeJSON(out, forms)
	}

	if len(forms) == 0 {
		fmt.Fprintln(out, "No printed forms found in the archive.")
		fmt.Fprintln(out, "\nUse 'formprint print <file>' to print a form.")
		return nil
	}

	fmt.Fprintf(out, "Printed forms (%d):\n\n", len(forms))
	for _, form := range forms {
		fmt.Fprintf(out, "  • %s\n", form)
	}
	fmt.Fprintln(out, "\nUse 'formprint history <form>' to see the runs of a form.")
	return nil
}

// listRuns lists the print runs of one form.
func listRuns(ctx context.Context, archive *database.Archive, out io.Writer, formName string, jsonOutput bool) error {
	runs, err := archive.GetRunHistory(ctx, formName)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if jsonOutput {
		return writeJSON(out, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No print runs found for %s\n", formName)
		return nil
	}

	fmt.Fprintf(out, "Print history for %s (%d runs):\n\n", formName, len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %-5s  %s\n", "ID", "Date", "Prefix", "Lang", "Summary")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 66))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8s  %-5s  %s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Prefix,
			run.Language,
			formatRunSummary(run),
		)
	}

	fmt.Fprintln(out, "\nUse 'formprint compare <form>' to compare the latest two runs.")
	return nil
}

// formatRunSummary formats the summary of a run for display.
func formatRunSummary(run database.RunMetadata) string {
	if run.Error != "" {
		return "failed: " + run.Error
	}
	s := fmt.Sprintf("%d pages, %d levels", run.Summary["pages"], run.Summary["levels"])
	if w := run.Summary["warnings"]; w > 0 {
		s += fmt.Sprintf(", %d warnings", w)
	}
	return s
}

// writeJSON writes v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
