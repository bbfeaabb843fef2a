// Package model defines the core data structures used throughout formprint.
//
// This package contains the following main types:
//   - Form: A branching form definition (pages, lists, conditions)
//   - Page: A single page of a form with its components and next edges
//   - PrintEntry: A numbered heading produced for one page
//   - PrintDocument: The ordered, printable rendition of a form
//   - PrintJob: The unit of work passed through the print pipeline
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The graph, hierarchy, assemble and report packages all need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON (and YAML for form
// definitions) for file input, report output and archive storage.
package model
