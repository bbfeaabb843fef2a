// Package database provides SQLite-based storage for formprint.
//
// This package implements the Archive, which stores:
//   - Print runs with their settings and the complete job as JSON
//   - The heading number assigned to every page in each run
//
// The archive lets users list earlier prints of a form and see which
// pages were renumbered after the definition changed.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the
// archive is a single local file and the pure Go driver keeps the binary
// CGO-free.
package database
