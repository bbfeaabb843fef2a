// Package assemble turns numbered headings into a printable document.
//
// The Assembler walks the heading index in print order and, for every page,
// extracts the display text of each component: question titles and hints,
// plain text of HTML and Markdown content, inlined answer options for
// list-valued questions, and an explanation of where each answer leads when
// a component drives a conditional branch.
//
// Design decision: Assembly is a pure data transform over the decoded form.
// It never reads files or renders HTML; report writers take the resulting
// model.PrintDocument and produce text, JSON, Markdown or DOCX output.
package assemble
