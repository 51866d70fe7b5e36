// Package pipeline orchestrates one screening run from job description text
// to rendered report, emitting progress events along the way.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hrpilot/resume-screener/internal/extract"
	"github.com/hrpilot/resume-screener/internal/screening"
)

// Stage identifies one of the five sequential phases of a run.
type Stage string

const (
	StageRequirement Stage = "requirement_confirmation"
	StageDimensions  Stage = "dimension_generation"
	StageStructuring Stage = "resume_structuring"
	StageEvaluation  Stage = "candidate_evaluation"
	StageReport      Stage = "report_generation"
)

// StageError tags a failure with the stage it happened in, so callers can
// tell a bad job description apart from a broken evaluation batch.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Event is one progress notification. Progress is a percentage in [0,100]
// and never decreases within a run. TotalItems and CompletedItems are only
// set for the per-candidate stages.
type Event struct {
	Stage          Stage
	Message        string
	Progress       int
	TotalItems     int
	CompletedItems int
}

// Observer receives progress events. Implementations must not block; a
// panicking observer is contained and never fails the run.
type Observer interface {
	OnProgress(Event)
}

// ConfirmFunc reviews the extracted requirement before the run continues.
// It may return an amended requirement. Returning an error aborts the run.
type ConfirmFunc func(screening.JobRequirement) (screening.JobRequirement, error)

// Input is everything one run needs.
type Input struct {
	SessionID   string
	JDText      string
	ResumePaths []string

	// Confirm, when non-nil, is called after requirement extraction with
	// the extracted requirement. A nil Confirm accepts it as-is.
	Confirm ConfirmFunc
}

// Result is the full outcome of a completed run.
type Result struct {
	Requirement  screening.JobRequirement
	Dimensions   screening.ScoringDimensions
	Profiles     []screening.CandidateProfile
	Evaluations  []screening.CandidateEvaluation
	Report       screening.Report
	FailedFiles  []*extract.FileError
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Pipeline wires the stage nodes together. Construct it with New and reuse
// it across runs; each Run is independent.
type Pipeline struct {
	requirements *screening.RequirementExtractor
	dimensions   *screening.DimensionGenerator
	structurer   *screening.Structurer
	evaluator    *screening.Evaluator
	store        SessionStore
	observer     Observer
	logger       *zap.Logger
}

type Option func(*Pipeline)

// WithObserver attaches a progress observer.
func WithObserver(obs Observer) Option {
	return func(p *Pipeline) { p.observer = obs }
}

// WithSessionStore attaches a session store; runs are recorded under their
// session ID while in flight and removed on completion.
func WithSessionStore(store SessionStore) Option {
	return func(p *Pipeline) { p.store = store }
}

func New(
	requirements *screening.RequirementExtractor,
	dimensions *screening.DimensionGenerator,
	structurer *screening.Structurer,
	evaluator *screening.Evaluator,
	logger *zap.Logger,
	opts ...Option,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pipeline{
		requirements: requirements,
		dimensions:   dimensions,
		structurer:   structurer,
		evaluator:    evaluator,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stage progress budgets: each stage owns a fixed slice of the 0-100 range,
// so per-item progress inside a stage maps onto its slice.
var stageBudgets = map[Stage][2]int{
	StageRequirement: {0, 20},
	StageDimensions:  {20, 40},
	StageStructuring: {40, 60},
	StageEvaluation:  {60, 90},
	StageReport:      {90, 100},
}

// Run executes one full screening run. It stops at the first stage-fatal
// error, wrapped in a StageError naming the stage. Cancelling ctx aborts
// the run between and within stages.
func (p *Pipeline) Run(ctx context.Context, in Input) (Result, error) {
	result := Result{StartedAt: time.Now()}

	tracker := newProgressTracker(p.observer, p.logger)

	if p.store != nil && in.SessionID != "" {
		p.store.Put(Session{ID: in.SessionID, StartedAt: result.StartedAt, Stage: StageRequirement})
		defer p.store.Remove(in.SessionID)
	}

	// Stage 1: requirement extraction and confirmation.
	tracker.stageStart(StageRequirement, "extracting hiring requirement")
	req, err := p.requirements.Extract(ctx, in.JDText)
	if err != nil {
		return result, &StageError{Stage: StageRequirement, Err: err}
	}
	if in.Confirm != nil {
		req, err = in.Confirm(req)
		if err != nil {
			return result, &StageError{Stage: StageRequirement, Err: err}
		}
	}
	result.Requirement = req
	tracker.stageDone(StageRequirement, "requirement confirmed")
	p.updateSession(in.SessionID, StageDimensions)

	// Stage 2: scoring dimensions.
	tracker.stageStart(StageDimensions, "generating scoring dimensions")
	dims, err := p.dimensions.Generate(ctx, req)
	if err != nil {
		return result, &StageError{Stage: StageDimensions, Err: err}
	}
	result.Dimensions = dims
	tracker.stageDone(StageDimensions, "scoring dimensions ready")
	p.updateSession(in.SessionID, StageStructuring)

	// Stage 3: extraction and structuring.
	tracker.stageStart(StageStructuring, "reading resume files")
	docs, failed := extract.Files(in.ResumePaths)
	result.FailedFiles = failed
	for _, fileErr := range failed {
		p.logger.Warn("resume file skipped", zap.String("path", fileErr.Path), zap.Error(fileErr.Err))
	}

	profiles, err := p.structurer.Structure(ctx, docs, tracker.itemHook(StageStructuring, "structuring resumes"))
	if err != nil {
		return result, &StageError{Stage: StageStructuring, Err: err}
	}
	result.Profiles = profiles
	tracker.stageDone(StageStructuring, "resumes structured")
	p.updateSession(in.SessionID, StageEvaluation)

	// Stage 4: evaluation fan-out.
	tracker.stageStart(StageEvaluation, "evaluating candidates")
	evals, err := p.evaluator.Evaluate(ctx, profiles, req, dims, tracker.itemHook(StageEvaluation, "evaluating candidates"))
	if err != nil {
		return result, &StageError{Stage: StageEvaluation, Err: err}
	}
	result.Evaluations = evals
	tracker.stageDone(StageEvaluation, "candidates evaluated")
	p.updateSession(in.SessionID, StageReport)

	// Stage 5: report rendering.
	tracker.stageStart(StageReport, "rendering report")
	result.Report = screening.RenderReport(screening.ReportInput{
		Requirement: req,
		Dimensions:  dims,
		Profiles:    profiles,
		Evaluations: evals,
	})
	result.FinishedAt = time.Now()
	tracker.stageDone(StageReport, "report ready")

	return result, nil
}

func (p *Pipeline) updateSession(id string, stage Stage) {
	if p.store == nil || id == "" {
		return
	}
	if session, ok := p.store.Get(id); ok {
		session.Stage = stage
		p.store.Put(session)
	}
}

// progressTracker turns stage and per-item completions into monotone
// percentage events and shields the run from observer panics. emit is
// called from concurrent fan-out workers, hence the lock.
type progressTracker struct {
	observer Observer
	logger   *zap.Logger

	mu   sync.Mutex
	last int
}

func newProgressTracker(obs Observer, logger *zap.Logger) *progressTracker {
	return &progressTracker{observer: obs, logger: logger}
}

func (t *progressTracker) stageStart(stage Stage, message string) {
	t.emit(Event{Stage: stage, Message: message, Progress: stageBudgets[stage][0]})
}

func (t *progressTracker) stageDone(stage Stage, message string) {
	t.emit(Event{Stage: stage, Message: message, Progress: stageBudgets[stage][1]})
}

// itemHook returns a fanout progress callback that maps item completions
// onto the stage's percentage slice.
func (t *progressTracker) itemHook(stage Stage, message string) func(completed, total int) {
	budget := stageBudgets[stage]
	return func(completed, total int) {
		progress := budget[0]
		if total > 0 {
			progress += (budget[1] - budget[0]) * completed / total
		}
		t.emit(Event{
			Stage:          stage,
			Message:        message,
			Progress:       progress,
			TotalItems:     total,
			CompletedItems: completed,
		})
	}
}

func (t *progressTracker) emit(event Event) {
	if t.observer == nil {
		return
	}

	t.mu.Lock()
	// Fan-out completions arrive out of order; never report regress.
	if event.Progress < t.last {
		event.Progress = t.last
	}
	t.last = event.Progress
	t.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			t.logger.Warn("progress observer panicked", zap.Any("panic", r))
		}
	}()
	t.observer.OnProgress(event)
}
