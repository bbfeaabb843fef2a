package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/nao1215/formprint/internal/assemble"
	"github.com/nao1215/formprint/internal/formdef"
	"github.com/nao1215/formprint/internal/graph"
	"github.com/nao1215/formprint/internal/hierarchy"
	"github.com/nao1215/formprint/internal/model"
)

// LoadStep reads the form definition named by the job's Source.
// Jobs created with a form already attached skip loading.
type LoadStep struct {
	// overrides adjusts job settings once the form name is known.
	overrides func(*model.PrintJob)

	// logger for structured logging.
	logger *slog.Logger
}

// LoadStepOption configures a LoadStep.
type LoadStepOption func(*LoadStep)

// WithLoadOverrides sets a function applied to every job after its form
// is loaded. The CLI uses it for per-form configuration file overrides.
func WithLoadOverrides(fn func(*model.PrintJob)) LoadStepOption {
	return func(s *LoadStep) {
		s.overrides = fn
	}
}

// WithLoadLogger sets a custom logger for the load step.
func WithLoadLogger(logger *slog.Logger) LoadStepOption {
	return func(s *LoadStep) {
		s.logger = logger
	}
}

// NewLoadStep creates a new form loading step.
func NewLoadStep(opts ...LoadStepOption) *LoadStep {
	s := &LoadStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, job *Job) error {
	pj := job.Print
	if pj.Form == nil {
		if pj.Source == "" {
			return ErrNoForm
		}
		def, err := formdef.Load(pj.Source)
		if err != nil {
			return err
		}
		pj.Form = def.Form
		pj.Digest = def.Digest
	}
	if pj.FormName == "" {
		pj.FormName = pj.Form.Name
	}

	if s.overrides != nil {
		s.overrides(pj)
	}

	s.logger.Debug("form loaded",
		"form", pj.FormName,
		"pages", len(pj.Form.Pages),
		"digest", pj.Digest,
	)
	return nil
}

// GraphStep builds the page graph of the form.
type GraphStep struct{}

// NewGraphStep creates a new page graph step.
func NewGraphStep() *GraphStep {
	return &GraphStep{}
}

// Name returns the step name.
func (s *GraphStep) Name() string {
	return "page_graph"
}

// Do executes the page graph step.
func (s *GraphStep) Do(_ context.Context, job *Job) error {
	if job.Print.Form == nil {
		return ErrNoForm
	}
	g, err := graph.Build(job.Print.Form.Pages, job.Print.Form.StartPage)
	if err != nil {
		return err
	}
	job.Graph = g
	return nil
}

// ReachabilityStep computes the reachability sets of every page.
type ReachabilityStep struct{}

// NewReachabilityStep creates a new reachability step.
func NewReachabilityStep() *ReachabilityStep {
	return &ReachabilityStep{}
}

// Name returns the step name.
func (s *ReachabilityStep) Name() string {
	return "reachability"
}

// Do executes the reachability step.
func (s *ReachabilityStep) Do(_ context.Context, job *Job) error {
	if job.Graph == nil {
		return fmt.Errorf("%w: page graph", ErrStageOrder)
	}
	job.Reachability = graph.ComputeReachability(job.Graph)
	return nil
}

// LevelStep assigns a nesting depth to every reachable page.
type LevelStep struct{}

// NewLevelStep creates a new leveling step.
func NewLevelStep() *LevelStep {
	return &LevelStep{}
}

// Name returns the step name.
func (s *LevelStep) Name() string {
	return "level"
}

// Do executes the leveling step.
func (s *LevelStep) Do(_ context.Context, job *Job) error {
	if job.Graph == nil || job.Reachability == nil {
		return fmt.Errorf("%w: reachability sets", ErrStageOrder)
	}
	idx, err := hierarchy.Level(job.Graph, job.Reachability, job.Graph.Start)
	if err != nil {
		return err
	}
	job.Index = idx
	job.Print.Depths = maps.Clone(map[string]int(idx))
	return nil
}

// NumberStep assigns heading numbers to the form's pages.
type NumberStep struct {
	// maxDepth bounds the numbering traversal.
	maxDepth int

	// logger for structured logging.
	logger *slog.Logger
}

// NumberStepOption configures a NumberStep.
type NumberStepOption func(*NumberStep)

// WithNumberMaxDepth sets the numbering traversal limit.
func WithNumberMaxDepth(depth int) NumberStepOption {
	return func(s *NumberStep) {
		s.maxDepth = depth
	}
}

// WithNumberLogger sets a custom logger for the numbering step.
func WithNumberLogger(logger *slog.Logger) NumberStepOption {
	return func(s *NumberStep) {
		s.logger = logger
	}
}

// NewNumberStep creates a new heading numbering step.
func NewNumberStep(opts ...NumberStepOption) *NumberStep {
	s := &NumberStep{
		maxDepth: hierarchy.DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *NumberStep) Name() string {
	return "number"
}

// Do executes the numbering step.
func (s *NumberStep) Do(_ context.Context, job *Job) error {
	if job.Index == nil {
		return fmt.Errorf("%w: page depths", ErrStageOrder)
	}
	pj := job.Print

	numberer := hierarchy.NewNumberer(job.Graph, job.Reachability, job.Index,
		hierarchy.WithSummaryPath(pj.SummaryPath),
		hierarchy.WithMaxDepth(s.maxDepth),
		hierarchy.WithTitles(pj.Form.Pages),
	)
	res, err := numberer.Number(job.Graph.Start, pj.Prefix)
	if err != nil {
		return err
	}
	pj.Headers = res.Headers

	for _, p := range res.Forced {
		pj.AddWarning(fmt.Sprintf("page %s rejoins branches that never complete; numbered after its first predecessor", p))
	}
	for _, p := range res.Unreachable {
		pj.AddWarning(fmt.Sprintf("page %s is not reachable from the start page; appended as %s",
			p, res.Headers[p].HeadingNumber))
	}

	s.logger.Debug("form numbered",
		"form", pj.FormName,
		"headings", len(res.Headers),
		"forced", len(res.Forced),
		"unreachable", len(res.Unreachable),
	)
	return nil
}

// AssembleStep builds the printable document from the numbered headings.
type AssembleStep struct {
	assembler *assemble.Assembler
}

// NewAssembleStep creates a new assembly step.
func NewAssembleStep(assembler *assemble.Assembler) *AssembleStep {
	if assembler == nil {
		assembler = assemble.New()
	}
	return &AssembleStep{assembler: assembler}
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return "assemble"
}

// Do executes the assembly step.
// Warnings from every stage end up on the document.
func (s *AssembleStep) Do(_ context.Context, job *Job) error {
	pj := job.Print
	if pj.Headers == nil {
		return fmt.Errorf("%w: heading numbers", ErrStageOrder)
	}

	doc, err := s.assembler.Assemble(pj.Headers, pj.Form, pj.Language)
	if err != nil {
		return err
	}
	for _, w := range doc.Warnings {
		pj.AddWarning(w)
	}
	doc.Warnings = slices.Clone(pj.Warnings)
	pj.Language = doc.Language
	pj.Document = doc
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// MaxDepth bounds the numbering traversal.
	MaxDepth int

	// Strict makes ambiguous conditions fatal.
	Strict bool

	// Overrides adjusts each job once its form is loaded.
	Overrides func(*model.PrintJob)
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineMaxDepth sets the numbering traversal limit.
func WithPipelineMaxDepth(depth int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MaxDepth = depth
	}
}

// WithPipelineStrict makes ambiguous conditions fatal.
func WithPipelineStrict(strict bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Strict = strict
	}
}

// WithPipelineOverrides sets the per-job override function.
func WithPipelineOverrides(fn func(*model.PrintJob)) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Overrides = fn
	}
}

// DefaultPipeline creates a pipeline with every print stage in order:
// load, page graph, reachability, level, number and assemble.
//
// The first parameter accepts pipeline options (WithLogger, etc).
// The variadic parameter accepts stage options (WithPipelineStrict, etc).
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		MaxDepth: hierarchy.DefaultMaxDepth,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	loadOpts := []LoadStepOption{WithLoadLogger(p.logger)}
	if cfg.Overrides != nil {
		loadOpts = append(loadOpts, WithLoadOverrides(cfg.Overrides))
	}

	p.AddSteps(
		NewLoadStep(loadOpts...),
		NewGraphStep(),
		NewReachabilityStep(),
		NewLevelStep(),
		NewNumberStep(
			WithNumberMaxDepth(cfg.MaxDepth),
			WithNumberLogger(p.logger),
		),
		NewAssembleStep(assemble.New(
			assemble.WithStrictConditions(cfg.Strict),
			assemble.WithLogger(p.logger),
		)),
	)

	return p
}
