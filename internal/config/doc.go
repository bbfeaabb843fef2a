// Package config provides configuration structures and utilities for formprint.
// It defines the print options given on the command line, the optional
// .formprint file with per-form overrides, and the XDG directories used
// for the print archive.
package config
