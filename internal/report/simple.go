package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/formprint/internal/model"
)

// SimpleWriter outputs plain text documents.
// Headings are indented by level and component text sits under its page.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because printed output is often piped to files or a printer.
// The styled terminal view is OutlineWriter.
type SimpleWriter struct {
	baseWriter

	// verbose adds page paths and component types.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with page paths and component types.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the job status followed by its document.
func (w *SimpleWriter) Write(job *model.PrintJob) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, job.FormName, job.Language)

	sb.WriteString(fmt.Sprintf("Source:   %s\n", job.Source))
	sb.WriteString(fmt.Sprintf("Printed:  %s\n", job.DatePrinted.Format("2006-01-02 15:04:05 MST")))
	if job.Document != nil {
		sb.WriteString(fmt.Sprintf("Pages:    %d\n", job.Document.PageCount()))
	}
	sb.WriteString(fmt.Sprintf("Status:   %s\n\n", jobStatus(job)))

	if job.Document != nil {
		w.writeEntries(&sb, job.Document)
		w.writeWarnings(&sb, job.Document)
	}

	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteDocument outputs the document without job metadata.
func (w *SimpleWriter) WriteDocument(doc *model.PrintDocument) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, doc.FormName, doc.Language)
	w.writeEntries(&sb, doc)
	w.writeWarnings(&sb, doc)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the form name as a banner.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, formName, lang string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(upper(lang, formName))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

// writeEntries writes every page under its heading number.
func (w *SimpleWriter) writeEntries(sb *strings.Builder, doc *model.PrintDocument) {
	base := baseDepth(doc)

	for _, e := range doc.Entries {
		indent := strings.Repeat("  ", max(e.Depth()-base, 0))

		sb.WriteString(indent)
		sb.WriteString(headingLine(e))
		if w.verbose {
			sb.WriteString(fmt.Sprintf("  [%s]", e.Path))
		}
		sb.WriteString("\n")

		body := indent + "    "
		for _, c := range e.Components {
			w.writeComponent(sb, body, c)
		}
		sb.WriteString("\n")
	}
}

// writeComponent writes one component's text, hint, options and branches.
func (w *SimpleWriter) writeComponent(sb *strings.Builder, indent string, c model.DisplayComponent) {
	if w.verbose {
		sb.WriteString(fmt.Sprintf("%s<%s>\n", indent, c.Type))
	}
	for _, line := range strings.Split(c.Text, "\n") {
		if line != "" {
			sb.WriteString(indent + line + "\n")
		}
	}
	if c.Hint != "" {
		sb.WriteString(fmt.Sprintf("%s(%s)\n", indent, c.Hint))
	}
	for _, option := range c.Options {
		sb.WriteString(fmt.Sprintf("%s[ ] %s\n", indent, option))
	}
	for _, branch := range c.Branches {
		sb.WriteString(fmt.Sprintf("%s-> %s\n", indent, branch))
	}
}

// writeWarnings writes data-integrity warnings, if any.
func (w *SimpleWriter) writeWarnings(sb *strings.Builder, doc *model.PrintDocument) {
	if len(doc.Warnings) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("WARNINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, warning := range doc.Warnings {
		sb.WriteString(fmt.Sprintf("  [!] %s\n", warning))
	}
	sb.WriteString("\n")
}

// writeFooter writes the document footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Printed by formprint\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
