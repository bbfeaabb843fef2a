// Package report provides print document output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Plain text for terminals and line printers
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with a pages-per-level chart
//   - DOCXWriter: A downloadable Word document
//   - OutlineWriter: A styled heading outline for the terminal
//
// Design decision: We separate document writing from document data
// structures (which are in the model package). This allows adding new
// output formats without modifying the print pipeline.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
