package config

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"

	"github.com/nao1215/formprint/internal/hierarchy"
	"github.com/nao1215/formprint/internal/model"
	"github.com/nao1215/formprint/internal/report"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "formprint"

	// DefaultPrefix is the heading number forms are printed under.
	DefaultPrefix = "1"

	// DefaultLanguage is the language of generated branch text.
	DefaultLanguage = "en"

	// DefaultBatchSize of 4 concurrent prints. Printing is CPU bound and
	// forms are small, so a handful of workers keeps every core busy.
	DefaultBatchSize = 4

	// DefaultFormat is the output format used when none is given.
	DefaultFormat = string(report.FormatText)
)

// Config holds all configuration options for formprint.
// This struct is populated from CLI flags and passed through the
// application rather than kept in global state.
//
// Design decision: Prefix, Language and SummaryPath stay empty unless the
// user sets them on the command line. An empty value means "not given",
// which lets the .formprint file fill it in per form before the built-in
// default applies. See Apply.
type Config struct {
	// Forms is the list of form definition files to print.
	Forms []string

	// Format is the output format name (text, json, markdown, docx).
	Format string

	// Language is the BCP 47 tag of generated branch text.
	Language string

	// Prefix is the heading number each form is printed under.
	Prefix string

	// SummaryPath is the synthetic summary page excluded from print.
	SummaryPath string

	// BatchSize is the number of forms printed concurrently.
	BatchSize int

	// Strict makes conditions with no matching branch fatal.
	Strict bool

	// MaxDepth bounds the numbering traversal.
	MaxDepth int

	// OutputFile is where the rendered document is written.
	// When empty, output goes to stdout.
	OutputFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .formprint in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// FormConfigs holds per-form configuration loaded from the config file.
	FormConfigs *File

	// ArchiveDir is the directory holding the print archive database.
	// Defaults to the XDG data directory (~/.local/share/formprint on Linux).
	ArchiveDir string

	// SaveToArchive records every finished print run in the archive.
	SaveToArchive bool

	// Tee also writes the text document to stdout when OutputFile is set.
	Tee bool

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Format:        DefaultFormat,
		BatchSize:     DefaultBatchSize,
		MaxDepth:      hierarchy.DefaultMaxDepth,
		ArchiveDir:    XDGDataDir(),
		SaveToArchive: true,
	}
}

// XDGDataDir returns the XDG data directory for formprint.
// On Linux: ~/.local/share/formprint
// On macOS: ~/Library/Application Support/formprint
// On Windows: %LOCALAPPDATA%\formprint
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for formprint.
// On Linux: ~/.config/formprint
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
//
// Design decision: We validate at the config level rather than at each
// point of use so the user sees a clear error before any form is read.
func (c *Config) Validate() error {
	if len(c.Forms) == 0 {
		return ErrNoForms
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxDepth <= 0 {
		return ErrInvalidMaxDepth
	}
	if c.Format != "" && !slices.Contains(report.Formats(), report.Format(c.Format)) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Format)
	}
	if c.Prefix != "" && !hierarchy.ValidHeading(c.Prefix) {
		return fmt.Errorf("%w: %q", ErrInvalidPrefix, c.Prefix)
	}
	if c.FormConfigs != nil {
		return c.FormConfigs.Validate()
	}
	return nil
}

// Apply sets the job's print settings. Each setting is taken from the
// command line if given, then from the config file entry for the form,
// then from the config file defaults, then from the value already on the
// job, and finally from the built-in default.
func (c *Config) Apply(job *model.PrintJob) {
	var fc FormConfig
	if c.FormConfigs != nil {
		fc = c.FormConfigs.GetFormConfig(job.FormName, job.Source)
	}
	job.Prefix = firstNonEmpty(c.Prefix, fc.Prefix, job.Prefix, DefaultPrefix)
	job.Language = firstNonEmpty(c.Language, fc.Language, job.Language, DefaultLanguage)
	job.SummaryPath = firstNonEmpty(c.SummaryPath, fc.SummaryPath, job.SummaryPath, model.DefaultSummaryPath)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
