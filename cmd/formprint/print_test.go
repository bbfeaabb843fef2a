package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"

	"github.com/nao1215/formprint/internal/config"
	"github.com/nao1215/formprint/internal/database"
	"github.com/nao1215/formprint/internal/report"
)

// writeConfig writes a .formprint file into a temporary directory.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".formprint")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestNewPrintCmd tests the print command flags.
func TestNewPrintCmd(t *testing.T) {
	t.Parallel()

	cmd := NewPrintCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "format", shorthand: "f", defValue: "text"},
		{name: "output", shorthand: "o", defValue: ""},
		{name: "lang", shorthand: "l", defValue: ""},
		{name: "prefix", shorthand: "p", defValue: ""},
		{name: "summary-path", defValue: ""},
		{name: "tee", defValue: "false"},
		{name: "batch", shorthand: "b", defValue: "4"},
		{name: "strict", defValue: "false"},
		{name: "config", shorthand: "c", defValue: ""},
		{name: "no-archive", defValue: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestPrintCommand runs the print command end to end.
func TestPrintCommand(t *testing.T) {
	t.Parallel()

	t.Run("prints a branching form as text", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCommand(t, "print", "--no-archive", "-c", emptyConfig(t), testForm("boat.json"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"1.1 Start",
			"1.2 Who owns the boat?",
			"1.2.1 Your details",
			"1.2.2 Company details",
			"1.3 Boat details",
			"If a person owns the boat, go to 1.2.1 Your details",
			"Otherwise, go to 1.2.2 Company details",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q\n%s", want, stdout)
			}
		}
		if strings.Contains(stdout, "Check your answers") {
			t.Error("summary page must not be printed")
		}
	})

	t.Run("prefix, language and JSON output", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCommand(t, "print", "--no-archive", "-c", emptyConfig(t),
			"--format", "json", "-p", "4.2", "-l", "cy", testForm("boat.json"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got report.JSONReport
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, stdout)
		}
		if got.Job.Document == nil {
			t.Fatal("expected a document")
		}
		if got.Job.Document.Language != "cy" {
			t.Errorf("expected Welsh document, got %q", got.Job.Document.Language)
		}
		if e, ok := got.Job.Document.Entry("/company"); !ok || e.HeadingNumber != "4.2.2.2" {
			t.Errorf("expected /company at 4.2.2.2, got %+v", e)
		}
	})

	t.Run("several forms are numbered by position", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCommand(t, "print", "--no-archive", "-c", emptyConfig(t),
			testForm("boat.json"), testForm("angling.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"1.3 Boat details", "2.1 Licence type", "2.2 About the angler"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Index(stdout, "1.3 Boat details") > strings.Index(stdout, "2.1 Licence type") {
			t.Error("expected forms in argument order")
		}
	})

	t.Run("config file overrides per form", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "forms:\n  angling:\n    prefix: \"7\"\n")
		stdout, _, err := executeCommand(t, "print", "--no-archive", "-c", cfgPath, testForm("angling.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "7.1 Licence type") {
			t.Errorf("expected prefix from config file:\n%s", stdout)
		}
	})

	t.Run("writes markdown to a file", func(t *testing.T) {
		t.Parallel()

		outPath := filepath.Join(t.TempDir(), "out", "boat.md")
		if _, _, err := executeCommand(t, "print", "--no-archive", "-c", emptyConfig(t),
			"--format", "markdown", "-o", outPath, testForm("boat.json")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(content), "# Register a boat") {
			t.Errorf("expected markdown title, got:\n%s", content)
		}
	})

	t.Run("tee writes json to the file and text to the terminal", func(t *testing.T) {
		t.Parallel()

		outPath := filepath.Join(t.TempDir(), "boat.json")
		stdout, _, err := executeCommand(t, "print", "--no-archive", "-c", emptyConfig(t),
			"--format", "json", "-o", outPath, "--tee", testForm("boat.json"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		var got report.JSONReport
		if err := json.Unmarshal(content, &got); err != nil {
			t.Fatalf("file is not JSON: %v", err)
		}
		if !strings.Contains(stdout, "1.2.1 Your details") {
			t.Errorf("expected text document on stdout:\n%s", stdout)
		}
	})

	t.Run("output file without tee leaves the terminal empty", func(t *testing.T) {
		t.Parallel()

		outPath := filepath.Join(t.TempDir(), "boat.txt")
		stdout, _, err := executeCommand(t, "print", "--no-archive", "-c", emptyConfig(t), "-o", outPath, testForm("boat.json"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected no terminal output, got:\n%s", stdout)
		}
	})

	t.Run("writes one docx per form", func(t *testing.T) {
		t.Parallel()

		outPath := filepath.Join(t.TempDir(), "forms.docx")
		if _, _, err := executeCommand(t, "print", "--no-archive", "-c", emptyConfig(t),
			"--format", "docx", "-o", outPath, testForm("boat.json"), testForm("angling.yaml")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, name := range []string{"forms-1.docx", "forms-2.docx"} {
			path := filepath.Join(filepath.Dir(outPath), name)
			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("expected %s: %v", name, err)
			}
			info, err := f.Stat()
			if err != nil {
				t.Fatalf("failed to stat %s: %v", name, err)
			}
			if _, err := docx.Parse(f, info.Size()); err != nil {
				t.Errorf("%s is not a valid document: %v", name, err)
			}
			_ = f.Close()
		}
	})

	t.Run("docx without output is rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeCommand(t, "print", "--no-archive", "-c", emptyConfig(t), "--format", "docx", testForm("boat.json"))
		if !errors.Is(err, errDOCXNeedsOutput) {
			t.Errorf("expected errDOCXNeedsOutput, got %v", err)
		}
	})

	t.Run("broken form fails and others still print", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCommand(t, "print", "--no-archive", "-c", emptyConfig(t), "-b", "1",
			testForm("broken.json"), testForm("angling.yaml"))
		if err == nil || !strings.Contains(err.Error(), "1 of 2 forms failed") {
			t.Fatalf("expected failure count, got %v", err)
		}
		if !strings.Contains(stdout, "2.1 Licence type") {
			t.Errorf("expected the valid form to print:\n%s", stdout)
		}
	})

	t.Run("validation errors", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			args []string
			want error
		}{
			{name: "no forms", args: []string{"print"}, want: config.ErrNoForms},
			{name: "bad format", args: []string{"print", "--format", "pdf", testForm("boat.json")}, want: config.ErrUnknownFormat},
			{name: "bad prefix", args: []string{"print", "-p", "1.x", testForm("boat.json")}, want: config.ErrInvalidPrefix},
			{name: "zero batch", args: []string{"print", "-b", "0", testForm("boat.json")}, want: config.ErrInvalidBatchSize},
			{name: "missing config", args: []string{"print", "-c", "/nonexistent/.formprint", testForm("boat.json")}, want: config.ErrConfigNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				args := append(tt.args, "--no-archive")
				if tt.want != config.ErrConfigNotFound {
					args = append(args, "-c", emptyConfig(t))
				}
				if _, _, err := executeCommand(t, args...); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})
}

// TestPrintArchives tests that print runs are recorded.
func TestPrintArchives(t *testing.T) {
	t.Parallel()

	archiveDir := t.TempDir()
	if _, _, err := executeCommand(t, "print", "--archive-dir", archiveDir, "-c", emptyConfig(t), testForm("boat.json")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	archive, err := database.Open(archiveDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		t.Fatalf("expected archive to exist: %v", err)
	}
	defer archive.Close()

	job, err := archive.GetLatestRun(context.Background(), "Register a boat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job == nil || job.Document == nil {
		t.Fatal("expected an archived run with a document")
	}
	if job.Digest == "" {
		t.Error("expected the definition digest to be archived")
	}
}

// TestDocxPath tests output file naming for several DOCX forms.
func TestDocxPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path         string
		index, total int
		want         string
	}{
		{path: "boat.docx", index: 0, total: 1, want: "boat.docx"},
		{path: "out/forms.docx", index: 0, total: 3, want: "out/forms-1.docx"},
		{path: "out/forms.docx", index: 2, total: 3, want: "out/forms-3.docx"},
		{path: "forms", index: 1, total: 2, want: "forms-2"},
	}
	for _, tt := range tests {
		if got := docxPath(tt.path, tt.index, tt.total); got != tt.want {
			t.Errorf("docxPath(%q, %d, %d) = %q, want %q", tt.path, tt.index, tt.total, got, tt.want)
		}
	}
}
