package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/formprint/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, job *Job) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, job *Job) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, job)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// newTestJob returns a job for a form that has not been loaded.
func newTestJob(source string) *Job {
	return NewJob(model.NewPrintJob(nil, source))
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))

		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("adds multiple steps with AddSteps", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "first"})
		p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

		if p.StepCount() != 3 {
			t.Errorf("expected 3 steps, got %d", p.StepCount())
		}

		expected := []string{"first", "second", "third"}
		for i, name := range p.StepNames() {
			if name != expected[i] {
				t.Errorf("step %d: got %q, expected %q", i, name, expected[i])
			}
		}
	})
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		executionOrder := make([]string, 0)
		record := func(name string) func(context.Context, *Job) error {
			return func(_ context.Context, _ *Job) error {
				executionOrder = append(executionOrder, name)
				return nil
			}
		}

		p := New()
		p.AddSteps(
			&mockStep{name: "step-1", doFunc: record("step-1")},
			&mockStep{name: "step-2", doFunc: record("step-2")},
		)

		job := newTestJob("form.json")
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(executionOrder) != 2 || executionOrder[0] != "step-1" || executionOrder[1] != "step-2" {
			t.Errorf("wrong execution order: %v", executionOrder)
		}
		if len(job.Print.PerformedSteps) != 2 {
			t.Errorf("expected 2 performed steps, got %v", job.Print.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("step failed")
		second := &mockStep{name: "should-not-run"}

		p := New()
		p.AddSteps(
			&mockStep{
				name: "failing-step",
				doFunc: func(_ context.Context, _ *Job) error {
					return expectedErr
				},
			},
			second,
		)

		job := newTestJob("form.json")
		err := p.Execute(context.Background(), job)

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if second.callCount != 0 {
			t.Error("second step should not have been called")
		}
		if !job.Print.Failed() || job.Print.ErrorMessage != expectedErr.Error() {
			t.Errorf("expected error recorded in job, got %q", job.Print.ErrorMessage)
		}
	})

	t.Run("drops partial results on failure", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddSteps(
			&mockStep{
				name: "produces-document",
				doFunc: func(_ context.Context, job *Job) error {
					job.Print.Depths = map[string]int{"/start": 1}
					job.Print.Headers = model.HeaderIndex{"/start": {Path: "/start", HeadingNumber: "1.1"}}
					job.Print.Document = &model.PrintDocument{FormName: "partial"}
					return nil
				},
			},
			&mockStep{
				name: "fails",
				doFunc: func(_ context.Context, _ *Job) error {
					return errors.New("late failure")
				},
			},
		)

		job := newTestJob("form.json")
		_ = p.Execute(context.Background(), job) //nolint:errcheck // We check the job

		if job.Print.Document != nil {
			t.Error("expected document to be dropped")
		}
		if job.Print.Depths != nil || job.Print.Headers != nil {
			t.Errorf("expected depths and headings to be dropped, got %v and %v", job.Print.Depths, job.Print.Headers)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		second := &mockStep{name: "should-run"}

		p := New(WithContinueOnError(true))
		p.AddSteps(
			&mockStep{
				name: "failing-step",
				doFunc: func(_ context.Context, _ *Job) error {
					return errors.New("step failed")
				},
			},
			second,
		)

		if err := p.Execute(context.Background(), newTestJob("form.json")); err != nil {
			t.Errorf("expected nil error with continueOnError, got %v", err)
		}
		if second.callCount != 1 {
			t.Error("second step should have been called")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "should-not-run"}
		p := New()
		p.AddStep(step)

		job := newTestJob("form.json")
		err := p.Execute(ctx, job)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("step should not have been called")
		}
		if !errors.Is(job.Print.Error, context.Canceled) {
			t.Errorf("expected cancellation recorded in job, got %v", job.Print.Error)
		}
	})
}
