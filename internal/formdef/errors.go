package formdef

import "errors"

var (
	// ErrUnsupportedFormat is returned for files whose extension is not
	// .json, .yaml or .yml.
	ErrUnsupportedFormat = errors.New("unsupported form definition format")

	// ErrFormNotFound is returned when the definition file does not exist.
	ErrFormNotFound = errors.New("form definition not found")

	// ErrNoStartPage is returned when a definition has pages but no start
	// page and no page to default to.
	ErrNoStartPage = errors.New("form definition has no start page")
)
