package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoForms is returned when no form definition file is specified.
	ErrNoForms = errors.New("no form specified: provide at least one form definition file")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxDepth is returned when the numbering traversal limit is not positive.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be positive")

	// ErrUnknownFormat is returned when the output format is not supported.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrInvalidPrefix is returned when a heading prefix is not a dotted
	// list of positive integers such as "1" or "4.2".
	ErrInvalidPrefix = errors.New("invalid heading prefix")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
