package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/formprint/internal/model"
)

// JSONWriter outputs print jobs in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. The model types already carry json tags
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full job in JSON format.
func (w *JSONWriter) Write(job *model.PrintJob) (int, error) {
	return w.writeJSON(job)
}

// WriteDocument outputs only the document in JSON format.
func (w *JSONWriter) WriteDocument(doc *model.PrintDocument) (int, error) {
	return w.writeJSON(doc)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a print job with the version that produced it.
type JSONReport struct {
	// Version is the formprint version that printed the job.
	Version string `json:"version"`

	// Job is the print job.
	Job *model.PrintJob `json:"job"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(job *model.PrintJob, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Job:     job,
	}
}

// FullJSONWriter outputs complete jobs with metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	// version is the formprint version string.
	version string
}

// NewFullJSONWriter creates a writer for complete jobs with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the full job wrapped with metadata.
func (w *FullJSONWriter) Write(job *model.PrintJob) (int, error) {
	return w.writeJSON(NewJSONReport(job, w.version))
}
