package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/formprint/internal/model"
)

// setupTestArchive creates a temporary archive for testing.
func setupTestArchive(t *testing.T) *Archive {
	t.Helper()

	a, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// newTestJob builds a finished job for the boat form printed at the given time.
func newTestJob(t *testing.T, printed time.Time, headings map[string]string) *model.PrintJob {
	t.Helper()

	job := model.NewPrintJob(&model.Form{Name: "Boat registration"}, "boat.json")
	job.DatePrinted = printed
	job.Digest = "abc123"

	doc := &model.PrintDocument{FormName: job.FormName, Language: "en"}
	for _, path := range []string{"/start", "/owner", "/person", "/company", "/boat"} {
		heading, ok := headings[path]
		if !ok {
			continue
		}
		doc.Entries = append(doc.Entries, model.PrintEntry{
			Path:          path,
			HeadingNumber: heading,
			Title:         path[1:],
		})
	}
	job.Document = doc
	return job
}

var firstHeadings = map[string]string{
	"/start":   "1.1",
	"/owner":   "1.2",
	"/person":  "1.2.1",
	"/company": "1.2.2",
	"/boat":    "1.3",
}

// TestOpen tests archive opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "newdir", "subdir")
		a, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open archive: %v", err)
		}
		defer a.Close()

		if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if a.Path() != filepath.Join(dir, FileName) {
			t.Errorf("unexpected path %q", a.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		a, err := Open(filepath.Join(t.TempDir(), "missing"), Options{CreateIfNotExists: false})
		if err == nil {
			_ = a.Close()
			t.Fatal("expected error for missing archive")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create archive: %v", err)
		}
		_ = a.Close()

		reopened, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen archive: %v", err)
		}
		_ = reopened.Close()
	})

	t.Run("reopening keeps saved runs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open archive: %v", err)
		}
		id, err := a.SaveRun(context.Background(), newTestJob(t, time.Now(), firstHeadings))
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		_ = a.Close()

		a, err = Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to reopen archive: %v", err)
		}
		defer a.Close()

		job, err := a.GetRun(context.Background(), id)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if job == nil {
			t.Fatal("expected run to survive reopen")
		}
	})
}

// TestSaveRun tests storing runs and reading them back.
func TestSaveRun(t *testing.T) {
	t.Parallel()

	t.Run("round trips the job", func(t *testing.T) {
		t.Parallel()
		a := setupTestArchive(t)
		ctx := context.Background()

		id, err := a.SaveRun(ctx, newTestJob(t, time.Now(), firstHeadings))
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		if id <= 0 {
			t.Fatalf("expected positive ID, got %d", id)
		}

		job, err := a.GetRun(ctx, id)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if job.FormName != "Boat registration" {
			t.Errorf("unexpected form name %q", job.FormName)
		}
		if job.Document == nil || job.Document.PageCount() != 5 {
			t.Fatalf("expected 5 printed pages, got %+v", job.Document)
		}
		entry, ok := job.Document.Entry("/company")
		if !ok || entry.HeadingNumber != "1.2.2" {
			t.Errorf("expected /company at 1.2.2, got %+v", entry)
		}
	})

	t.Run("stores headings", func(t *testing.T) {
		t.Parallel()
		a := setupTestArchive(t)
		ctx := context.Background()

		id, err := a.SaveRun(ctx, newTestJob(t, time.Now(), firstHeadings))
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		headings, err := a.GetHeadings(ctx, id)
		if err != nil {
			t.Fatalf("failed to get headings: %v", err)
		}
		if len(headings) != len(firstHeadings) {
			t.Fatalf("expected %d headings, got %d", len(firstHeadings), len(headings))
		}
		for path, want := range firstHeadings {
			if headings[path] != want {
				t.Errorf("%s: expected %s, got %s", path, want, headings[path])
			}
		}
	})

	t.Run("saves failed job without document", func(t *testing.T) {
		t.Parallel()
		a := setupTestArchive(t)
		ctx := context.Background()

		job := model.NewPrintJob(&model.Form{Name: "Broken"}, "broken.json")
		job.ErrorMessage = "page /a links to unknown page /zzz"

		id, err := a.SaveRun(ctx, job)
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		history, err := a.GetRunHistory(ctx, "Broken")
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 1 || history[0].ID != id {
			t.Fatalf("unexpected history %+v", history)
		}
		if history[0].Error != job.ErrorMessage {
			t.Errorf("expected error %q, got %q", job.ErrorMessage, history[0].Error)
		}
		if history[0].Summary["pages"] != 0 {
			t.Errorf("expected 0 pages, got %d", history[0].Summary["pages"])
		}
	})

	t.Run("unknown ID returns nil", func(t *testing.T) {
		t.Parallel()
		a := setupTestArchive(t)

		job, err := a.GetRun(context.Background(), 999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job != nil {
			t.Errorf("expected nil job, got %+v", job)
		}
	})
}

// TestRunHistory tests history ordering and form listing.
func TestRunHistory(t *testing.T) {
	t.Parallel()

	a := setupTestArchive(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	firstID, err := a.SaveRun(ctx, newTestJob(t, base, firstHeadings))
	if err != nil {
		t.Fatalf("failed to save first run: %v", err)
	}
	second := map[string]string{
		"/start": "1.1",
		"/owner": "1.2",
		"/boat":  "1.3",
	}
	secondID, err := a.SaveRun(ctx, newTestJob(t, base.Add(time.Hour), second))
	if err != nil {
		t.Fatalf("failed to save second run: %v", err)
	}
	other := model.NewPrintJob(&model.Form{Name: "Angling licence"}, "angling.yaml")
	if _, err := a.SaveRun(ctx, other); err != nil {
		t.Fatalf("failed to save other run: %v", err)
	}

	t.Run("history is newest first", func(t *testing.T) {
		t.Parallel()

		history, err := a.GetRunHistory(ctx, "Boat registration")
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(history))
		}
		if history[0].ID != secondID || history[1].ID != firstID {
			t.Errorf("expected IDs [%d %d], got [%d %d]", secondID, firstID, history[0].ID, history[1].ID)
		}
		if !history[1].Timestamp.Equal(base) {
			t.Errorf("expected timestamp %v, got %v", base, history[1].Timestamp)
		}
		if history[0].Summary["pages"] != 3 || history[1].Summary["pages"] != 5 {
			t.Errorf("unexpected page counts %v / %v", history[0].Summary, history[1].Summary)
		}
		if history[1].Summary["levels"] != 3 {
			t.Errorf("expected 3 levels, got %d", history[1].Summary["levels"])
		}
		if history[0].Digest != "abc123" || history[0].Prefix != "1" || history[0].Language != "en" {
			t.Errorf("unexpected metadata %+v", history[0])
		}
	})

	t.Run("latest run", func(t *testing.T) {
		t.Parallel()

		job, err := a.GetLatestRun(ctx, "Boat registration")
		if err != nil {
			t.Fatalf("failed to get latest run: %v", err)
		}
		if job == nil || job.Document.PageCount() != 3 {
			t.Fatalf("expected the second run, got %+v", job)
		}

		missing, err := a.GetLatestRun(ctx, "Never printed")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if missing != nil {
			t.Error("expected nil for a form with no runs")
		}
	})

	t.Run("forms are listed alphabetically", func(t *testing.T) {
		t.Parallel()

		forms, err := a.ListForms(ctx)
		if err != nil {
			t.Fatalf("failed to list forms: %v", err)
		}
		if len(forms) != 2 || forms[0] != "Angling licence" || forms[1] != "Boat registration" {
			t.Errorf("unexpected forms %v", forms)
		}
	})

	t.Run("find heading uses the latest run", func(t *testing.T) {
		t.Parallel()

		path, ok, err := a.FindHeading(ctx, "Boat registration", "1.3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok || path != "/boat" {
			t.Errorf("expected /boat, got %q (found=%v)", path, ok)
		}

		_, ok, err = a.FindHeading(ctx, "Boat registration", "9.9")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected no page for 9.9")
		}
	})
}

// TestParseTimestamp tests timestamp parsing with the formats SQLite returns.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{name: "fixed width", input: "2026-03-01T09:00:00.000000000Z"},
		{name: "RFC3339", input: "2026-03-01T09:00:00Z"},
		{name: "SQLite default", input: "2026-03-01 09:00:00"},
		{name: "garbage", input: "yesterday", zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v, zero expected %v", tt.input, got, tt.zero)
			}
		})
	}
}
