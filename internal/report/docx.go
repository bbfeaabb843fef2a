package report

import (
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/nao1215/formprint/internal/model"
)

// DOCXWriter outputs print documents as Word files.
// Each page becomes a bold heading paragraph sized by level, followed by
// its component text.
type DOCXWriter struct {
	baseWriter
}

// NewDOCXWriter creates a DOCXWriter that outputs to the given writer.
func NewDOCXWriter(output io.Writer) *DOCXWriter {
	return &DOCXWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the job's document. A failed job produces a document
// holding only the form name and the error.
func (w *DOCXWriter) Write(job *model.PrintJob) (int, error) {
	if job.Document != nil {
		return w.WriteDocument(job.Document)
	}

	d := docx.New().WithDefaultTheme()
	w.writeTitle(d, job.FormName)
	d.AddParagraph().AddText(jobStatus(job)).Color("d4351c")
	return w.flush(d)
}

// WriteDocument outputs the document as a Word file.
func (w *DOCXWriter) WriteDocument(doc *model.PrintDocument) (int, error) {
	d := docx.New().WithDefaultTheme()
	w.writeTitle(d, doc.FormName)

	base := baseDepth(doc)
	for _, e := range doc.Entries {
		d.AddParagraph().AddText(headingLine(e)).Size(headingSize(e.Depth() - base)).Bold()

		for _, c := range e.Components {
			for _, line := range strings.Split(c.Text, "\n") {
				if line != "" {
					d.AddParagraph().AddText(line)
				}
			}
			if c.Hint != "" {
				d.AddParagraph().AddText(c.Hint).Italic().Color("505a5f")
			}
			for _, option := range c.Options {
				d.AddParagraph().AddText("☐ " + option)
			}
			for _, branch := range c.Branches {
				d.AddParagraph().AddText(branch).Italic()
			}
		}
	}

	if len(doc.Warnings) > 0 {
		d.AddParagraph().AddText("Warnings").Size(headingSize(0)).Bold()
		for _, warning := range doc.Warnings {
			d.AddParagraph().AddText(warning).Color("d4351c")
		}
	}

	return w.flush(d)
}

func (w *DOCXWriter) writeTitle(d *docx.Docx, title string) {
	d.AddParagraph().Justification("center").AddText(title).Size("40").Bold()
}

// flush serializes the document to the output.
func (w *DOCXWriter) flush(d *docx.Docx) (int, error) {
	n, err := d.WriteTo(w.output)
	return int(n), err
}

// headingSize returns the run size, in half-points, of a heading at the
// given level below the shallowest.
func headingSize(level int) string {
	switch {
	case level <= 0:
		return "32"
	case level == 1:
		return "28"
	default:
		return "24"
	}
}
