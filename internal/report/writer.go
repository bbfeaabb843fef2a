package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/formprint/internal/model"
)

// Writer defines the interface for print output.
// Implementations write print jobs in various formats.
type Writer interface {
	// Write outputs a finished print job, including its status.
	// Failed jobs are written without a document.
	// Returns the number of bytes written and any error encountered.
	Write(job *model.PrintJob) (int, error)

	// WriteDocument outputs only the printable document.
	WriteDocument(doc *model.PrintDocument) (int, error)
}

// Format names an output format.
type Format string

const (
	// FormatText is plain text.
	FormatText Format = "text"

	// FormatJSON is indented JSON.
	FormatJSON Format = "json"

	// FormatMarkdown is GitHub-flavored Markdown.
	FormatMarkdown Format = "markdown"

	// FormatDOCX is an Office Open XML document.
	FormatDOCX Format = "docx"
)

// ErrUnknownFormat is returned for an output format no writer supports.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats returns every supported output format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatMarkdown, FormatDOCX}
}

// NewWriter returns the writer for format. The version is recorded by
// formats that carry metadata.
func NewWriter(format Format, output io.Writer, version string) (Writer, error) {
	switch format {
	case FormatText, "":
		return NewSimpleWriter(output), nil
	case FormatJSON:
		return NewFullJSONWriter(output, version, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatDOCX:
		return NewDOCXWriter(output), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write print jobs, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the job to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(job *model.PrintJob) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(job)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteDocument outputs the document to all configured Writers.
func (m *MultiWriter) WriteDocument(doc *model.PrintDocument) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteDocument(doc)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for print writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// jobStatus returns a one-line status for a job.
func jobStatus(job *model.PrintJob) string {
	if job.Failed() {
		return "ERROR - " + job.ErrorMessage
	}
	if len(job.Warnings) > 0 {
		return fmt.Sprintf("Complete with %d warning(s)", len(job.Warnings))
	}
	return "Complete"
}

// upper upper-cases s using the casing rules of a BCP 47 tag.
func upper(lang, s string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	return cases.Upper(tag).String(s)
}

// baseDepth returns the smallest heading depth in doc, used as the
// zero indentation level.
func baseDepth(doc *model.PrintDocument) int {
	base := 0
	for _, e := range doc.Entries {
		if d := e.Depth(); base == 0 || d < base {
			base = d
		}
	}
	return base
}

// headingLine returns "<number> <title>" for an entry.
func headingLine(e model.PrintEntry) string {
	return strings.TrimSpace(e.HeadingNumber + " " + e.Title)
}
