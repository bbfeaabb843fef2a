// Package formdef loads form definitions exported by the form designer.
//
// Definitions are read from JSON or YAML files with identical keys. Loading
// is the only place formprint touches the file system for form input; the
// graph, hierarchy and assemble packages work on the decoded model.Form.
package formdef
