// Package main provides the entry point for the formprint CLI.
//
// formprint flattens branching form definitions into a numbered, printable
// document: every page gets a hierarchical heading such as "1.2.3", and
// every branch is explained in words ("If a company owns the boat, go to 1.2.2").
//
// Usage:
//
//	formprint print form.json
//	formprint print --format docx -o boat.docx boat.json
//
// See --help for all available options.
package main

// main is the entry point for formprint.
func main() {
	Execute()
}
