package main

import (
	"strings"
	"testing"
)

// TestOutlineCommand tests the terminal outline.
func TestOutlineCommand(t *testing.T) {
	t.Parallel()

	t.Run("headings only", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCommand(t, "outline", "-c", emptyConfig(t), testForm("boat.json"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Register a boat", "5 pages", "1.2.1", "Your details", "1.3", "Boat details"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q\n%s", want, stdout)
			}
		}
		if strings.Contains(stdout, "go to") {
			t.Error("branches must be hidden by default")
		}
	})

	t.Run("branches in Welsh", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCommand(t, "outline", "-c", emptyConfig(t), "-B", "-l", "cy", testForm("boat.json"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Fel arall, ewch i 1.2.2 Company details") {
			t.Errorf("expected Welsh branch text:\n%s", stdout)
		}
	})

	t.Run("broken form", func(t *testing.T) {
		t.Parallel()

		if _, _, err := executeCommand(t, "outline", "-c", emptyConfig(t), testForm("broken.json")); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("requires one file", func(t *testing.T) {
		t.Parallel()

		if _, _, err := executeCommand(t, "outline"); err == nil {
			t.Error("expected an error")
		}
	})
}
