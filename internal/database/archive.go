package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/formprint/internal/model"
)

// FileName is the archive database file name inside the archive directory.
const FileName = "formprint.db"

// timestampLayout has a fixed-width fraction so stored timestamps sort
// lexically in time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Archive provides SQLite-based storage for print runs.
//
// Design decision: A run is stored twice. The complete job goes into a JSON
// column so it can be rendered again later, and the heading numbers go into
// their own table so that comparisons and lookups do not need to decode
// the JSON.
type Archive struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Archive behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an Archive in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dir string, opts Options) (*Archive, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("archive not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check archive path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	a := &Archive{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Path returns the path of the database file.
func (a *Archive) Path() string {
	return a.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (a *Archive) createTables() error {
	schema := `
	-- Print runs store one finished job each
	CREATE TABLE IF NOT EXISTS print_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		form_name TEXT NOT NULL,
		source TEXT,
		digest TEXT,
		prefix TEXT NOT NULL,
		language TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		job_json TEXT NOT NULL,
		summary TEXT,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_form ON print_runs(form_name);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON print_runs(timestamp);

	-- Headings record the number given to each page in a run
	CREATE TABLE IF NOT EXISTS run_headings (
		run_id INTEGER NOT NULL REFERENCES print_runs(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		heading_number TEXT NOT NULL,
		title TEXT,
		PRIMARY KEY (run_id, path)
	);

	CREATE INDEX IF NOT EXISTS idx_headings_number ON run_headings(heading_number);
	`

	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a print job and the headings of its document.
// It returns the ID of the new run.
func (a *Archive) SaveRun(ctx context.Context, job *model.PrintJob) (int64, error) {
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize job: %w", err)
	}
	summaryJSON, _ := json.Marshal(runSummary(job)) //nolint:errcheck,errchkjson // map[string]int always marshals

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO print_runs (form_name, source, digest, prefix, language, timestamp, job_json, summary, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		job.FormName,
		job.Source,
		job.Digest,
		job.Prefix,
		job.Language,
		job.DatePrinted.UTC().Format(timestampLayout),
		string(jobJSON),
		string(summaryJSON),
		job.ErrorMessage,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save print run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	if job.Document != nil {
		for _, e := range job.Document.Entries {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_headings (run_id, path, heading_number, title) VALUES (?, ?, ?, ?)`,
				id, e.Path, e.HeadingNumber, e.Title,
			); err != nil {
				return 0, fmt.Errorf("failed to save heading for %s: %w", e.Path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit print run: %w", err)
	}
	return id, nil
}

// runSummary counts what a run printed.
func runSummary(job *model.PrintJob) map[string]int {
	summary := map[string]int{
		"pages":    0,
		"levels":   0,
		"warnings": len(job.Warnings),
	}
	if job.Document != nil {
		summary["pages"] = job.Document.PageCount()
		summary["levels"] = len(job.Document.DepthCounts()) - 1
		summary["warnings"] = len(job.Document.Warnings)
	}
	return summary
}

// GetRun retrieves a print run by its database ID.
// It returns nil without error when no run has that ID.
func (a *Archive) GetRun(ctx context.Context, id int64) (*model.PrintJob, error) {
	var jobJSON string
	err := a.db.QueryRowContext(ctx, `SELECT job_json FROM print_runs WHERE id = ?`, id).Scan(&jobJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get print run: %w", err)
	}
	return decodeJob(jobJSON)
}

// GetLatestRun retrieves the most recent print run of a form.
// It returns nil without error when the form was never printed.
func (a *Archive) GetLatestRun(ctx context.Context, formName string) (*model.PrintJob, error) {
	query := `
	SELECT job_json FROM print_runs
	WHERE form_name = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var jobJSON string
	err := a.db.QueryRowContext(ctx, query, formName).Scan(&jobJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get print run: %w", err)
	}
	return decodeJob(jobJSON)
}

func decodeJob(jobJSON string) (*model.PrintJob, error) {
	var job model.PrintJob
	if err := json.Unmarshal([]byte(jobJSON), &job); err != nil {
		return nil, fmt.Errorf("failed to parse print run: %w", err)
	}
	return &job, nil
}

// ListForms returns the names of all forms that have print runs.
func (a *Archive) ListForms(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT DISTINCT form_name FROM print_runs ORDER BY form_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	defer rows.Close()

	var forms []string
	for rows.Next() {
		var form string
		if err := rows.Scan(&form); err != nil {
			return nil, fmt.Errorf("failed to scan form: %w", err)
		}
		forms = append(forms, form)
	}
	return forms, rows.Err()
}

// RunMetadata contains summary information about a print run.
// This is used for displaying history without loading the full job.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64 `json:"id"`

	// FormName is the printed form.
	FormName string `json:"form_name"`

	// Digest identifies the printed definition.
	Digest string `json:"digest,omitempty"`

	// Prefix is the heading number the form was printed under.
	Prefix string `json:"prefix"`

	// Language is the language the run was assembled in.
	Language string `json:"language"`

	// Timestamp is when the run was printed.
	Timestamp time.Time `json:"timestamp"`

	// Summary contains page, level and warning counts.
	Summary map[string]int `json:"summary"`

	// Error is the failure message of a failed run.
	Error string `json:"error,omitempty"`
}

// GetRunHistory retrieves run metadata for a form, newest first.
func (a *Archive) GetRunHistory(ctx context.Context, formName string) ([]RunMetadata, error) {
	query := `
	SELECT id, form_name, digest, prefix, language, timestamp, summary, error
	FROM print_runs
	WHERE form_name = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := a.db.QueryContext(ctx, query, formName)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var digest, summaryJSON, errMsg sql.NullString

		if err := rows.Scan(&meta.ID, &meta.FormName, &digest, &meta.Prefix, &meta.Language, &timestamp, &summaryJSON, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Digest = digest.String
		meta.Error = errMsg.String
		meta.Timestamp = parseTimestamp(timestamp)

		meta.Summary = make(map[string]int)
		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.Summary); err != nil {
				meta.Summary = make(map[string]int)
			}
		}

		results = append(results, meta)
	}
	return results, rows.Err()
}

// GetHeadings returns the heading number of every page printed in a run.
func (a *Archive) GetHeadings(ctx context.Context, runID int64) (map[string]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT path, heading_number FROM run_headings WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get headings: %w", err)
	}
	defer rows.Close()

	headings := make(map[string]string)
	for rows.Next() {
		var path, heading string
		if err := rows.Scan(&path, &heading); err != nil {
			return nil, fmt.Errorf("failed to scan heading: %w", err)
		}
		headings[path] = heading
	}
	return headings, rows.Err()
}

// FindHeading returns the page path that carried a heading number in the
// latest run of a form. The boolean is false when no page carried it.
func (a *Archive) FindHeading(ctx context.Context, formName, heading string) (string, bool, error) {
	query := `
	SELECT h.path FROM run_headings h
	JOIN print_runs r ON r.id = h.run_id
	WHERE r.form_name = ? AND h.heading_number = ?
	ORDER BY r.timestamp DESC, r.id DESC
	LIMIT 1
	`

	var path string
	err := a.db.QueryRowContext(ctx, query, formName, heading).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to find heading: %w", err)
	}
	return path, true, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
