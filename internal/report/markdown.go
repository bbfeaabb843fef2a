package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/formprint/internal/model"
)

// MarkdownWriter outputs print documents in Markdown format.
// Heading numbers map onto Markdown heading levels, so the document
// outline survives rendering on any Markdown viewer.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the job metadata followed by its document.
func (w *MarkdownWriter) Write(job *model.PrintJob) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(job.FormName)
	md.PlainText("")

	rows := [][]string{
		{"Source", "`" + job.Source + "`"},
		{"Printed", job.DatePrinted.Format("2006-01-02 15:04:05 MST")},
		{"Language", job.Language},
		{"Status", w.getStatusText(job)},
	}
	if job.Document != nil {
		rows = append(rows, []string{"Pages", strconv.Itoa(job.Document.PageCount())})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if job.Document != nil {
		w.writeDocument(md, job.Document)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteDocument outputs the document in Markdown format.
func (w *MarkdownWriter) WriteDocument(doc *model.PrintDocument) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(doc.FormName)
	md.PlainText("")
	w.writeDocument(md, doc)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// getStatusText returns the status text based on job state.
func (w *MarkdownWriter) getStatusText(job *model.PrintJob) string {
	if job.Failed() {
		return "❌ Error - " + job.ErrorMessage
	}
	if len(job.Warnings) > 0 {
		return "⚠️ Complete with " + strconv.Itoa(len(job.Warnings)) + " warning(s)"
	}
	return "✅ Complete"
}

// writeDocument writes the level summary, alerts and every page.
func (w *MarkdownWriter) writeDocument(md *markdown.Markdown, doc *model.PrintDocument) {
	w.writeLevels(md, doc)
	w.writeAlert(md, doc)

	md.H2("Pages")
	md.PlainText("")

	base := baseDepth(doc)
	for _, e := range doc.Entries {
		w.writeHeading(md, e.Depth()-base, headingLine(e))
		md.PlainText("")
		for _, c := range e.Components {
			w.writeComponent(md, c)
		}
	}

	w.writeWarnings(md, doc)
}

// writeLevels writes the pages-per-level table and pie chart.
func (w *MarkdownWriter) writeLevels(md *markdown.Markdown, doc *model.PrintDocument) {
	counts := doc.DepthCounts()
	if len(counts) == 0 {
		return
	}

	md.H2("Levels")
	md.PlainText("")

	rows := make([][]string, 0, len(counts))
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pages per Level"),
		piechart.WithShowData(true),
	)
	for depth, n := range counts {
		if n == 0 {
			continue
		}
		rows = append(rows, []string{model.FormatDepth(depth), strconv.Itoa(n)})
		chart.LabelAndIntValue(model.FormatDepth(depth), uint64(n)) //nolint:gosec // counts are never negative
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(doc.PageCount()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Level", "Pages"},
		Rows:   rows,
	})
	md.PlainText("")

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert summarizing data-integrity warnings.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, doc *model.PrintDocument) {
	if len(doc.Warnings) > 0 {
		md.Warningf("%d data-integrity warning(s) were found while printing. See the Warnings section.", len(doc.Warnings))
	} else {
		md.Tip("Every page was numbered without warnings.")
	}
	md.PlainText("")
}

// writeHeading writes text as a Markdown heading. Level 0 is the shallowest
// page heading (H3); deeper levels stop at H6.
func (w *MarkdownWriter) writeHeading(md *markdown.Markdown, level int, text string) {
	switch {
	case level <= 0:
		md.H3(text)
	case level == 1:
		md.H4(text)
	case level == 2:
		md.H5(text)
	default:
		md.H6(text)
	}
}

// writeComponent writes one component's text, hint, options and branches.
func (w *MarkdownWriter) writeComponent(md *markdown.Markdown, c model.DisplayComponent) {
	if c.Text != "" {
		md.PlainText(strings.ReplaceAll(c.Text, "\n", "  \n"))
		md.PlainText("")
	}
	if c.Hint != "" {
		md.PlainText("*" + c.Hint + "*")
		md.PlainText("")
	}
	if len(c.Options) > 0 {
		options := make([]string, len(c.Options))
		for i, o := range c.Options {
			options[i] = "☐ " + o
		}
		md.BulletList(options...)
		md.PlainText("")
	}
	if len(c.Branches) > 0 {
		md.BulletList(c.Branches...)
		md.PlainText("")
	}
}

// writeWarnings writes data-integrity warnings, if any.
func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, doc *model.PrintDocument) {
	if len(doc.Warnings) == 0 {
		return
	}
	md.H2("Warnings")
	md.PlainText("")
	md.BulletList(doc.Warnings...)
	md.PlainText("")
}

// writeFooter writes the document footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Printed by formprint*")
}
