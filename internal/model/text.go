package model

import (
	"regexp"
	"strings"
)

// leadingNumber matches designer-added numbering such as "1. " or "12.3. ".
var leadingNumber = regexp.MustCompile(`^\s*\d+(\.\d+)*\.\s+`)

// StripLeadingNumber removes a leading "N. " style number from s.
// Titles are renumbered for print, so numbers typed by form designers
// would otherwise appear twice.
func StripLeadingNumber(s string) string {
	return strings.TrimSpace(leadingNumber.ReplaceAllString(s, ""))
}
