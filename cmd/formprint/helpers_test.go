package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
)

// testForm returns the path of a form definition under testdata.
func testForm(name string) string {
	return filepath.Join("testdata", name)
}

// executeCommand runs the root command with args and returns its stdout
// and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// emptyConfig writes an empty .formprint file so tests do not pick up a
// configuration file from the working or home directory.
func emptyConfig(t *testing.T) string {
	t.Helper()
	return writeConfig(t, "defaults: {}\n")
}
