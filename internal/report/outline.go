package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/formprint/internal/model"
)

var (
	// numberStyle for heading numbers
	numberStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// formHeadingStyle for the start page title
	formHeadingStyle = lipgloss.NewStyle().
				Bold(true)

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// warningStyle for data-integrity warnings
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// errorStyle for failed jobs
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// headerBoxStyle for the form banner
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)
)

// OutlineWriter renders the heading outline of a document for the terminal.
// Component text is omitted; branch explanations can be shown beneath each
// heading.
type OutlineWriter struct {
	baseWriter

	// showBranches includes branch explanations under each heading.
	showBranches bool
}

// OutlineWriterOption configures an OutlineWriter.
type OutlineWriterOption func(*OutlineWriter)

// WithBranches includes branch explanations under each heading.
func WithBranches(show bool) OutlineWriterOption {
	return func(w *OutlineWriter) {
		w.showBranches = show
	}
}

// NewOutlineWriter creates an OutlineWriter that outputs to the given writer.
func NewOutlineWriter(output io.Writer, opts ...OutlineWriterOption) *OutlineWriter {
	w := &OutlineWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the job's outline, or its error when it failed.
func (w *OutlineWriter) Write(job *model.PrintJob) (int, error) {
	if job.Document == nil {
		var sb strings.Builder
		sb.WriteString(headerBoxStyle.Render(job.FormName))
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render("✗ " + jobStatus(job)))
		sb.WriteString("\n")
		return io.WriteString(w.output, sb.String())
	}
	return w.WriteDocument(job.Document)
}

// WriteDocument renders the document outline.
func (w *OutlineWriter) WriteDocument(doc *model.PrintDocument) (int, error) {
	var sb strings.Builder

	banner := fmt.Sprintf("%s\n%s",
		formHeadingStyle.Render(doc.FormName),
		dimStyle.Render(fmt.Sprintf("%d pages · %s", doc.PageCount(), doc.Language)),
	)
	sb.WriteString(headerBoxStyle.Render(banner))
	sb.WriteString("\n")

	base := baseDepth(doc)
	for _, e := range doc.Entries {
		indent := strings.Repeat("  ", max(e.Depth()-base, 0))

		title := e.Title
		if e.IsFormHeading {
			title = formHeadingStyle.Render(title)
		}
		sb.WriteString(fmt.Sprintf("%s%s %s\n", indent, numberStyle.Render(e.HeadingNumber), title))

		if !w.showBranches {
			continue
		}
		for _, c := range e.Components {
			for _, branch := range c.Branches {
				sb.WriteString(fmt.Sprintf("%s  %s\n", indent, dimStyle.Render("↳ "+branch)))
			}
		}
	}

	for _, warning := range doc.Warnings {
		sb.WriteString(warningStyle.Render("! " + warning))
		sb.WriteString("\n")
	}

	return io.WriteString(w.output, sb.String())
}
