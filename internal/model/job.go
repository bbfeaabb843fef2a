package model

import "time"

// PrintJob is the unit of work passed through the print pipeline.
// Each pipeline step fills in its part; the finished job carries everything
// needed by report writers and the archive.
//
// Design decision: A job keeps the error of the failing
// step instead of aborting the whole batch, so one broken form definition
// does not prevent the rest from printing.
type PrintJob struct {
	// FormName is the name of the form being printed.
	FormName string `json:"form_name"`

	// Source is where the definition was loaded from (file path or label).
	Source string `json:"source,omitempty"`

	// Digest identifies the exact definition that was printed.
	Digest string `json:"digest,omitempty"`

	// Prefix is the heading number the form is printed under, e.g. "1".
	Prefix string `json:"prefix"`

	// Language is the requested BCP 47 language tag.
	Language string `json:"language"`

	// SummaryPath is the synthetic summary page excluded from print.
	SummaryPath string `json:"summary_path"`

	// DatePrinted is when the job was created.
	DatePrinted time.Time `json:"date_printed"`

	// Form is the definition being printed.
	Form *Form `json:"-"`

	// Depths maps page paths to their hierarchy depth.
	Depths map[string]int `json:"depths,omitempty"`

	// Headers maps page paths to their numbered headings.
	Headers HeaderIndex `json:"-"`

	// Document is the assembled printable document.
	Document *PrintDocument `json:"document,omitempty"`

	// Warnings are non-fatal problems collected by any step.
	Warnings []string `json:"warnings,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the error of the failing step, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as a string, for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewPrintJob creates a job for the given form with default settings.
func NewPrintJob(form *Form, source string) *PrintJob {
	job := &PrintJob{
		Source:      source,
		Prefix:      "1",
		Language:    "en",
		SummaryPath: DefaultSummaryPath,
		DatePrinted: time.Now(),
		Form:        form,
		Warnings:    make([]string, 0),
	}
	if form != nil {
		job.FormName = form.Name
	}
	return job
}

// AddWarning records a non-fatal problem.
func (j *PrintJob) AddWarning(msg string) {
	j.Warnings = append(j.Warnings, msg)
}

// Failed reports whether a pipeline step failed.
func (j *PrintJob) Failed() bool {
	return j.Error != nil || j.ErrorMessage != ""
}
