package model

import (
	"strconv"
	"strings"
)

// PrintEntry is the numbered heading assigned to one page.
type PrintEntry struct {
	// Path is the page the entry was produced from.
	Path string `json:"path"`

	// HeadingNumber is the dotted hierarchical number, e.g. "1.2.3".
	HeadingNumber string `json:"heading_number"`

	// IsFormHeading is true for the form's start page.
	IsFormHeading bool `json:"is_form_heading"`

	// Title is the page title with any leading "N. " numbering removed.
	Title string `json:"title"`

	// Components holds the display text of the page's components.
	// Empty until the assembler has run.
	Components []DisplayComponent `json:"components,omitempty"`
}

// Depth returns the number of components in the heading number.
// "1.2.3" has depth 3. An empty heading has depth 0.
func (e PrintEntry) Depth() int {
	if e.HeadingNumber == "" {
		return 0
	}
	return strings.Count(e.HeadingNumber, ".") + 1
}

// HeaderIndex maps page paths to their print entries.
type HeaderIndex map[string]PrintEntry

// Paths returns the indexed paths. The order is unspecified.
func (h HeaderIndex) Paths() []string {
	paths := make([]string, 0, len(h))
	for p := range h {
		paths = append(paths, p)
	}
	return paths
}

// DisplayComponent is the printable rendition of one component.
type DisplayComponent struct {
	// Name is the component's field name.
	Name string `json:"name,omitempty"`

	// Type is the designer component type.
	Type string `json:"type"`

	// Text is the main display text: the question title for fields, or the
	// extracted plain text for content components.
	Text string `json:"text"`

	// Hint is the hint text, if any.
	Hint string `json:"hint,omitempty"`

	// Options are the inlined answer options of list-valued components.
	Options []string `json:"options,omitempty"`

	// Branches are explanations of where each answer leads.
	Branches []string `json:"branches,omitempty"`
}

// PrintDocument is the ordered, printable rendition of a form.
type PrintDocument struct {
	// FormName is the name of the printed form.
	FormName string `json:"form_name"`

	// Language is the BCP 47 tag the document was assembled in.
	Language string `json:"language"`

	// Entries are the numbered pages in print order.
	Entries []PrintEntry `json:"entries"`

	// Warnings are non-fatal data-integrity problems found while assembling.
	Warnings []string `json:"warnings,omitempty"`
}

// PageCount returns the number of printed pages.
func (d *PrintDocument) PageCount() int {
	return len(d.Entries)
}

// Entry returns the entry for the given page path.
func (d *PrintDocument) Entry(path string) (PrintEntry, bool) {
	for _, e := range d.Entries {
		if e.Path == path {
			return e, true
		}
	}
	return PrintEntry{}, false
}

// DepthCounts returns how many entries sit at each heading depth.
// The returned slice is indexed by depth; index 0 is always zero.
func (d *PrintDocument) DepthCounts() []int {
	maxDepth := 0
	for _, e := range d.Entries {
		if e.Depth() > maxDepth {
			maxDepth = e.Depth()
		}
	}
	counts := make([]int, maxDepth+1)
	for _, e := range d.Entries {
		counts[e.Depth()]++
	}
	return counts
}

// HeadingNumbers returns a map of page path to heading number.
// Used to compare numbering between two print runs.
func (d *PrintDocument) HeadingNumbers() map[string]string {
	out := make(map[string]string, len(d.Entries))
	for _, e := range d.Entries {
		out[e.Path] = e.HeadingNumber
	}
	return out
}

// FormatDepth returns a short label for a heading depth, e.g. "Level 2".
func FormatDepth(depth int) string {
	return "Level " + strconv.Itoa(depth)
}
