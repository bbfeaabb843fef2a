package hierarchy

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHeading splits a heading number into its integer components.
func ParseHeading(heading string) ([]int, error) {
	if heading == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidHeading)
	}
	parts := strings.Split(heading, ".")
	out := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || part != strconv.Itoa(n) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeading, heading)
		}
		out[i] = n
	}
	return out, nil
}

// ValidHeading reports whether heading is a well-formed print heading:
// dot-separated positive integers without leading zeros.
func ValidHeading(heading string) bool {
	parts, err := ParseHeading(heading)
	if err != nil {
		return false
	}
	for _, p := range parts {
		if p < 1 {
			return false
		}
	}
	return true
}

// DropLowest removes the final component: "2.3.4" becomes "2.3".
// A single-component heading becomes "".
func DropLowest(heading string) string {
	i := strings.LastIndexByte(heading, '.')
	if i < 0 {
		return ""
	}
	return heading[:i]
}

// IncrementLowest adds one to the final component: "2.3.4" becomes "2.3.5".
func IncrementLowest(heading string) (string, error) {
	parts, err := ParseHeading(heading)
	if err != nil {
		return "", err
	}
	parts[len(parts)-1]++
	return joinHeading(parts), nil
}

// HeadingDepth returns the number of components in heading.
func HeadingDepth(heading string) int {
	if heading == "" {
		return 0
	}
	return strings.Count(heading, ".") + 1
}

// CompareHeadings orders heading numbers the way they appear in print:
// component by component numerically, with a heading before its children.
// Malformed headings sort after well-formed ones, by string comparison.
func CompareHeadings(a, b string) int {
	pa, errA := ParseHeading(a)
	pb, errB := ParseHeading(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}

	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			if pa[i] < pb[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(pa) < len(pb):
		return -1
	case len(pa) > len(pb):
		return 1
	}
	return 0
}

func joinHeading(parts []int) string {
	var sb strings.Builder
	for i, p := range parts {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(p))
	}
	return sb.String()
}
