package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/formprint/internal/config"
	"github.com/nao1215/formprint/internal/database"
	"github.com/nao1215/formprint/internal/hierarchy"
)

// errNotEnoughRuns is returned when a form has fewer than two successful runs.
var errNotEnoughRuns = errors.New("at least 2 successful print runs are required for comparison")

// NewCompareCmd creates the compare command.
// This command compares heading numbers between archived print runs.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare FORM",
		Short: "Compare heading numbers between print runs",
		Long: `Compare shows how the numbering of a form changed between two archived
print runs:
- Pages that were added or removed
- Pages whose heading number changed

By default the latest two successful runs are compared. Use
'formprint history <form>' to see run IDs.

Examples:
  formprint compare "Boat registration"

  # Compare the latest run with run 5
  formprint compare --with-run-id 5 "Boat registration"

  # Output the comparison as Markdown
  formprint compare --markdown "Boat registration"`,
		Args: cobra.ExactArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare the latest run with a specific run by ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.Flags().String("archive-dir", config.XDGDataDir(),
		"Directory of the print archive")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown cannot be used together")
	}

	archive, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer archive.Close()

	result, err := runComparison(cmd.Context(), archive, args[0], withRunID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		return writeJSON(out, result)
	case markdownOutput:
		return outputComparisonMarkdown(out, result)
	default:
		return outputComparisonText(out, result)
	}
}

// ComparisonResult holds the result of comparing two print runs.
type ComparisonResult struct {
	// FormName is the compared form.
	FormName string `json:"form_name"`

	// PreviousRun describes the older run.
	PreviousRun RunInfo `json:"previous_run"`

	// CurrentRun describes the newer run.
	CurrentRun RunInfo `json:"current_run"`

	// Added are pages only in the current run.
	Added []HeadingChange `json:"added,omitempty"`

	// Removed are pages only in the previous run.
	Removed []HeadingChange `json:"removed,omitempty"`

	// Renumbered are pages whose heading number changed.
	Renumbered []HeadingChange `json:"renumbered,omitempty"`

	// UnchangedCount is the number of pages that kept their heading number.
	UnchangedCount int `json:"unchanged_count"`
}

// RunInfo identifies one side of a comparison.
type RunInfo struct {
	// ID is the archive run ID.
	ID int64 `json:"id"`

	// DatePrinted is when the run was printed.
	DatePrinted time.Time `json:"date_printed"`

	// Digest identifies the printed definition.
	Digest string `json:"digest,omitempty"`

	// Pages is the number of printed pages.
	Pages int `json:"pages"`
}

// HeadingChange describes one page whose numbering differs between runs.
type HeadingChange struct {
	// Path is the page path.
	Path string `json:"path"`

	// Previous is the heading number in the previous run; empty if added.
	Previous string `json:"previous,omitempty"`

	// Current is the heading number in the current run; empty if removed.
	Current string `json:"current,omitempty"`
}

// Changed reports whether the runs differ at all.
func (r *ComparisonResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0 || len(r.Renumbered) > 0
}

// runComparison picks the runs to compare and diffs their headings.
func runComparison(ctx context.Context, archive *database.Archive, formName string, withRunID int64) (*ComparisonResult, error) {
	history, err := archive.GetRunHistory(ctx, formName)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}

	runs := slices.DeleteFunc(history, func(r database.RunMetadata) bool { return r.Error != "" })
	if len(runs) == 0 {
		return nil, fmt.Errorf("no successful print runs found for %s", formName)
	}

	current := runs[0]
	var previous database.RunMetadata

	if withRunID > 0 {
		idx := slices.IndexFunc(runs, func(r database.RunMetadata) bool { return r.ID == withRunID })
		if idx < 0 {
			return nil, fmt.Errorf("no successful run with ID %d for %s", withRunID, formName)
		}
		if idx == 0 {
			return nil, fmt.Errorf("run %d is the latest run; choose an earlier one", withRunID)
		}
		previous = runs[idx]
	} else {
		if len(runs) < 2 {
			return nil, fmt.Errorf("%w (found %d)", errNotEnoughRuns, len(runs))
		}
		previous = runs[1]
	}

	prevHeadings, err := archive.GetHeadings(ctx, previous.ID)
	if err != nil {
		return nil, err
	}
	curHeadings, err := archive.GetHeadings(ctx, current.ID)
	if err != nil {
		return nil, err
	}

	result := compareHeadings(prevHeadings, curHeadings)
	result.FormName = formName
	result.PreviousRun = runInfo(previous)
	result.CurrentRun = runInfo(current)
	return result, nil
}

func runInfo(meta database.RunMetadata) RunInfo {
	return RunInfo{
		ID:          meta.ID,
		DatePrinted: meta.Timestamp,
		Digest:      meta.Digest,
		Pages:       meta.Summary["pages"],
	}
}

// compareHeadings diffs two path-to-heading maps. Each list is sorted by
// heading number so the output follows the printed order.
func compareHeadings(previous, current map[string]string) *ComparisonResult {
	result := &ComparisonResult{}

	for path, cur := range current {
		prev, ok := previous[path]
		switch {
		case !ok:
			result.Added = append(result.Added, HeadingChange{Path: path, Current: cur})
		case prev != cur:
			result.Renumbered = append(result.Renumbered, HeadingChange{Path: path, Previous: prev, Current: cur})
		default:
			result.UnchangedCount++
		}
	}
	for path, prev := range previous {
		if _, ok := current[path]; !ok {
			result.Removed = append(result.Removed, HeadingChange{Path: path, Previous: prev})
		}
	}

	byCurrent := func(a, b HeadingChange) int { return hierarchy.CompareHeadings(a.Current, b.Current) }
	byPrevious := func(a, b HeadingChange) int { return hierarchy.CompareHeadings(a.Previous, b.Previous) }
	slices.SortFunc(result.Added, byCurrent)
	slices.SortFunc(result.Renumbered, byCurrent)
	slices.SortFunc(result.Removed, byPrevious)

	return result
}

// outputComparisonText outputs the comparison in human-readable text.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Print Comparison: %s\n", result.FormName)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious run: #%d %s (%d pages)\n",
		result.PreviousRun.ID, result.PreviousRun.DatePrinted.Format("2006-01-02 15:04:05"), result.PreviousRun.Pages)
	fmt.Fprintf(out, "Current run:  #%d %s (%d pages)\n",
		result.CurrentRun.ID, result.CurrentRun.DatePrinted.Format("2006-01-02 15:04:05"), result.CurrentRun.Pages)

	if !result.Changed() {
		fmt.Fprintln(out, "\nNumbering unchanged.")
		return nil
	}

	if len(result.Renumbered) > 0 {
		fmt.Fprintf(out, "\nRenumbered (%d):\n", len(result.Renumbered))
		for _, c := range result.Renumbered {
			fmt.Fprintf(out, "  [~] %s: %s -> %s\n", c.Path, c.Previous, c.Current)
		}
	}
	if len(result.Added) > 0 {
		fmt.Fprintf(out, "\nAdded (%d):\n", len(result.Added))
		for _, c := range result.Added {
			fmt.Fprintf(out, "  [+] %s: %s\n", c.Path, c.Current)
		}
	}
	if len(result.Removed) > 0 {
		fmt.Fprintf(out, "\nRemoved (%d):\n", len(result.Removed))
		for _, c := range result.Removed {
			fmt.Fprintf(out, "  [-] %s: %s\n", c.Path, c.Previous)
		}
	}
	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d pages\n", result.UnchangedCount)
	}
	return nil
}

// outputComparisonMarkdown outputs the comparison in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(out)

	md.H1("Print Comparison: " + result.FormName)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Run", "ID", "Date", "Pages"},
		Rows: [][]string{
			{"Previous", fmt.Sprint(result.PreviousRun.ID), result.PreviousRun.DatePrinted.Format("2006-01-02 15:04"), fmt.Sprint(result.PreviousRun.Pages)},
			{"Current", fmt.Sprint(result.CurrentRun.ID), result.CurrentRun.DatePrinted.Format("2006-01-02 15:04"), fmt.Sprint(result.CurrentRun.Pages)},
		},
	})
	md.PlainText("")

	if !result.Changed() {
		md.Tip("Numbering unchanged.")
		return md.Build()
	}

	rows := make([][]string, 0, len(result.Renumbered)+len(result.Added)+len(result.Removed))
	for _, c := range result.Renumbered {
		rows = append(rows, []string{"`" + c.Path + "`", c.Previous, c.Current, "renumbered"})
	}
	for _, c := range result.Added {
		rows = append(rows, []string{"`" + c.Path + "`", "-", c.Current, "added"})
	}
	for _, c := range result.Removed {
		rows = append(rows, []string{"`" + c.Path + "`", c.Previous, "-", "removed"})
	}

	md.H2("Changes")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Page", "Previous", "Current", "Change"},
		Rows:   rows,
	})

	if result.UnchangedCount > 0 {
		md.PlainText("")
		md.PlainText(fmt.Sprintf("*%d pages unchanged*", result.UnchangedCount))
	}
	return md.Build()
}
