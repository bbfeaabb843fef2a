package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/formprint/internal/config"
	"github.com/nao1215/formprint/internal/database"
	"github.com/nao1215/formprint/internal/hierarchy"
	"github.com/nao1215/formprint/internal/log"
	"github.com/nao1215/formprint/internal/model"
	"github.com/nao1215/formprint/internal/pipeline"
	"github.com/nao1215/formprint/internal/report"
)

// errDOCXNeedsOutput is returned when DOCX output would go to the terminal.
var errDOCXNeedsOutput = errors.New("docx output requires --output")

// NewPrintCmd creates the print command.
func NewPrintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print FILE...",
		Short: "Print form definitions as numbered documents",
		Long: `Print reads one or more form definitions (JSON or YAML) and writes a
numbered, printable document for each.

Every page gets a hierarchical heading number. Pages that are only reached
under a condition are numbered beneath the page that asks the question,
and every branch is explained in words.

When several forms are printed, each is numbered under its position
(1, 2, 3, ...) unless a prefix is given.

Examples:
  # Print a single form to the terminal
  formprint print boat.json

  # Print two forms as Markdown into one file
  formprint print --format markdown -o forms.md boat.json angling.yaml

  # Save JSON and show the text document at the same time
  formprint print --format json -o boat.json --tee boat.json

  # Print a Word document with Welsh branch text under heading 4.2
  formprint print --format docx -o boat.docx -l cy -p 4.2 boat.json

Configuration file (.formprint) example:
  defaults:
    language: en
  forms:
    boat:
      prefix: "2"
      summaryPath: /check-answers`,
		Args: cobra.ArbitraryArgs,
		RunE: runPrintCmd,
	}

	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Output format: "+formatNames())
	cmd.Flags().StringP("output", "o", "",
		"Write output to the specified file path (creates directories if needed)")
	cmd.Flags().Bool("tee", false,
		"Also print the text document to the terminal when --output is set")
	cmd.Flags().StringP("lang", "l", "",
		"Language of branch explanations (en, cy)")
	cmd.Flags().StringP("prefix", "p", "",
		"Heading number to print the form under, e.g. 1 or 4.2")
	cmd.Flags().String("summary-path", "",
		"Path of the summary page left out of print (default "+model.DefaultSummaryPath+")")

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of forms printed concurrently")
	cmd.Flags().Bool("strict", false,
		"Fail when a condition has no matching branch")
	cmd.Flags().Int("max-depth", hierarchy.DefaultMaxDepth,
		"Maximum numbering depth before giving up")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .formprint in current or home directory)")
	cmd.Flags().Bool("no-archive", false,
		"Do not record this print in the archive")
	cmd.Flags().String("archive-dir", config.XDGDataDir(),
		"Directory of the print archive")

	return cmd
}

// formatNames lists the supported output formats for help text.
func formatNames() string {
	formats := report.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// runPrintCmd executes the print command.
func runPrintCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if report.Format(cfg.Format) == report.FormatDOCX && cfg.OutputFile == "" {
		return errDOCXNeedsOutput
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runPrint(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if cfg.OutputFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Tee, err = flags.GetBool("tee"); err != nil {
		return nil, err
	}
	if cfg.Language, err = flags.GetString("lang"); err != nil {
		return nil, err
	}
	if cfg.Prefix, err = flags.GetString("prefix"); err != nil {
		return nil, err
	}
	if cfg.SummaryPath, err = flags.GetString("summary-path"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.Strict, err = flags.GetBool("strict"); err != nil {
		return nil, err
	}
	if cfg.MaxDepth, err = flags.GetInt("max-depth"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	noArchive, err := flags.GetBool("no-archive")
	if err != nil {
		return nil, err
	}
	cfg.SaveToArchive = !noArchive
	if cfg.ArchiveDir, err = flags.GetString("archive-dir"); err != nil {
		return nil, err
	}

	cfg.FormConfigs, err = loadFormConfigs(cfg.ConfigFilePath)
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Forms = args
	return cfg, nil
}

// loadFormConfigs loads the .formprint file.
// A missing file is only an error when its path was given explicitly.
func loadFormConfigs(explicitPath string) (*config.File, error) {
	path := config.FindConfigFile(explicitPath)
	if path == "" {
		if explicitPath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
		}
		return &config.File{Forms: make(map[string]config.FormConfig)}, nil
	}

	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return cf, nil
}

// newJobs creates one job per form file. With several files each form is
// numbered under its position unless a prefix overrides it.
func newJobs(cfg *config.Config) []*model.PrintJob {
	jobs := make([]*model.PrintJob, len(cfg.Forms))
	for i, path := range cfg.Forms {
		jobs[i] = model.NewPrintJob(nil, path)
		if len(cfg.Forms) > 1 {
			jobs[i].Prefix = strconv.Itoa(i + 1)
		}
	}
	return jobs
}

// newPipeline creates the print pipeline for one form.
func newPipeline(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	return pipeline.DefaultPipeline(
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithPipelineMaxDepth(cfg.MaxDepth),
		pipeline.WithPipelineStrict(cfg.Strict),
		pipeline.WithPipelineOverrides(cfg.Apply),
	)
}

// runPrint prints every form, writes the output and archives the runs.
func runPrint(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	logger.Info("starting print",
		"forms", cfg.Forms,
		"format", cfg.Format,
		"batchSize", cfg.BatchSize,
		"saveToArchive", cfg.SaveToArchive,
	)

	var archive *database.Archive
	if cfg.SaveToArchive {
		var err error
		archive, err = database.Open(cfg.ArchiveDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer archive.Close()
		logger.Info("archive opened", "dir", cfg.ArchiveDir)
	}

	jobs := newJobs(cfg)

	if len(jobs) > 1 && cfg.BatchSize > 1 {
		bp := pipeline.NewBatchProcessor(
			func() *pipeline.Pipeline { return newPipeline(cfg, logger) },
			pipeline.WithConcurrency(cfg.BatchSize),
			pipeline.WithBatchLogger(logger),
		)
		var err error
		if jobs, err = bp.ProcessBatch(ctx, jobs); err != nil {
			return err
		}
	} else {
		for _, job := range jobs {
			if err := ctx.Err(); err != nil {
				return err
			}
			// The error is recorded in the job and reported below.
			_ = newPipeline(cfg, logger).Execute(ctx, pipeline.NewJob(job)) //nolint:errcheck
		}
	}

	if err := writeOutput(cfg, stdout, jobs); err != nil {
		return err
	}

	failed := 0
	for _, job := range jobs {
		if job.Failed() {
			failed++
		}
		if err := saveRun(ctx, archive, job, logger); err != nil {
			logger.Error("failed to archive print run", "form", job.FormName, "error", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d forms failed to print", failed, len(jobs))
	}
	return nil
}

// writeOutput writes every job in the configured format. Text formats go to
// one stream; DOCX writes one file per form. With Tee the text document is
// also written to stdout.
func writeOutput(cfg *config.Config, stdout io.Writer, jobs []*model.PrintJob) error {
	format := report.Format(cfg.Format)

	var echo report.Writer
	if cfg.Tee && cfg.OutputFile != "" {
		echo = report.NewSimpleWriter(stdout)
	}

	if format == report.FormatDOCX {
		for i, job := range jobs {
			if err := writeFile(docxPath(cfg.OutputFile, i, len(jobs)), format, job, echo); err != nil {
				return err
			}
		}
		return nil
	}

	output := stdout
	if cfg.OutputFile != "" {
		f, err := createOutputFile(cfg.OutputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	writer, err := report.NewWriter(format, output, getVersion())
	if err != nil {
		return err
	}
	if echo != nil {
		writer = report.NewMultiWriter(writer, echo)
	}
	for _, job := range jobs {
		if _, err := writer.Write(job); err != nil {
			return fmt.Errorf("failed to write %s: %w", job.Source, err)
		}
	}
	return nil
}

// writeFile writes a single job to its own file, and to echo if not nil.
func writeFile(path string, format report.Format, job *model.PrintJob, echo report.Writer) error {
	f, err := createOutputFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer, err := report.NewWriter(format, f, getVersion())
	if err != nil {
		return err
	}
	if echo != nil {
		writer = report.NewMultiWriter(writer, echo)
	}
	if _, err := writer.Write(job); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// docxPath returns the file for the index-th of total forms. A single form
// uses path as is; several forms get "-1", "-2", ... before the extension.
func docxPath(path string, index, total int) string {
	if total <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + strconv.Itoa(index+1) + ext
}

// createOutputFile creates or truncates path, creating parent directories.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// saveRun records the job in the archive.
// If archive is nil, this function is a no-op.
func saveRun(ctx context.Context, archive *database.Archive, job *model.PrintJob, logger *slog.Logger) error {
	if archive == nil {
		return nil
	}

	id, err := archive.SaveRun(ctx, job)
	if err != nil {
		return err
	}

	logger.Info("print run archived", "form", job.FormName, "id", id)
	return nil
}
