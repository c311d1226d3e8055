// Package pipeline sequences the four generation stages over one owned
// State and enforces the stage gating and single-flight rules.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/generation"
)

// Generator is the stage-call surface the orchestrator drives.
// *generation.Generator implements it.
type Generator interface {
	ProduceObjectives(ctx context.Context, narrative string, cc domain.CurriculumContext) ([]domain.Objective, error)
	ProduceFlow(ctx context.Context, objectives []domain.Objective, cc domain.CurriculumContext) ([]domain.FlowItem, error)
	ProduceAnnualProgram(ctx context.Context, flow []domain.FlowItem, objectives []domain.Objective, cc domain.CurriculumContext) ([]domain.AnnualProgramItem, error)
	ProduceSemesterProgram(ctx context.Context, annual []domain.AnnualProgramItem, cc domain.CurriculumContext) ([]domain.SemesterProgramItem, error)
}

// DownstreamPolicy decides what happens to later stages when a stage is
// regenerated.
type DownstreamPolicy int

const (
	// InvalidateDownstream clears every later stage after a successful run.
	InvalidateDownstream DownstreamPolicy = iota
	// RetainDownstream leaves later stages untouched, even if now stale.
	RetainDownstream
)

// ParseDownstreamPolicy maps "invalidate" and "retain" to a policy.
func ParseDownstreamPolicy(s string) (DownstreamPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "invalidate":
		return InvalidateDownstream, nil
	case "retain":
		return RetainDownstream, nil
	}
	return 0, fmt.Errorf("unknown downstream policy %q (expected invalidate or retain)", s)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDownstreamPolicy sets what happens to later stages when one is regenerated.
func WithDownstreamPolicy(p DownstreamPolicy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithStrict makes cross-stage inconsistencies fail the stage with a
// *generation.ConsistencyError instead of being stored.
func WithStrict(strict bool) Option {
	return func(o *Orchestrator) { o.strict = strict }
}

// WithObserver reports every submission to obs.
func WithObserver(obs StageObserver) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithState seeds the orchestrator, e.g. from a saved run.
func WithState(s State) Option {
	return func(o *Orchestrator) { o.state = s.Clone() }
}

// Orchestrator owns one pipeline State. All methods are safe for concurrent
// use; at most one stage call is in flight at a time.
type Orchestrator struct {
	gen      Generator
	policy   DownstreamPolicy
	strict   bool
	observer StageObserver
	now      func() time.Time

	mu    sync.Mutex
	state State
}

// New creates an Orchestrator with a default context and no data.
func New(gen Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:      gen,
		policy:   InvalidateDownstream,
		observer: noopStageObserver{},
		now:      func() time.Time { return time.Now().UTC() },
		state:    NewState(domain.DefaultContext()),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Snapshot returns a deep copy of the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Clone()
}

// Restore replaces the state with s. It fails with ErrBusy during a call.
func (o *Orchestrator) Restore(s State) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Loading {
		return ErrBusy
	}
	o.state = s.Clone()
	o.state.Loading = false
	o.state.LoadingStage = ""
	return nil
}

// SetNarrative replaces the outcome narrative.
func (o *Orchestrator) SetNarrative(narrative string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Loading {
		return ErrBusy
	}
	o.state.Narrative = narrative
	return nil
}

// SetContext replaces the curriculum context after validating it.
func (o *Orchestrator) SetContext(cc domain.CurriculumContext) error {
	if err := cc.Validate(); err != nil {
		return fmt.Errorf("invalid curriculum context: %w", err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Loading {
		return ErrBusy
	}
	o.state.Context = cc
	return nil
}

// SetView switches the active display stage. It is always permitted; a
// stage without data simply renders empty.
func (o *Orchestrator) SetView(stage domain.Stage) error {
	parsed, err := domain.ParseStage(string(stage))
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Active = parsed
	return nil
}

// ClearError dismisses the current error message.
func (o *Orchestrator) ClearError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Err = ""
}

// SubmitObjectives runs stage 1 on the current narrative.
func (o *Orchestrator) SubmitObjectives(ctx context.Context) ([]domain.Objective, error) {
	var out []domain.Objective
	err := o.submit(ctx, domain.StageObjectives, func(ctx context.Context, in State) (func(*domain.Plan), int, error) {
		items, err := o.gen.ProduceObjectives(ctx, in.Narrative, in.Context)
		out = items
		return func(p *domain.Plan) { p.Objectives = items }, len(items), err
	})
	return out, err
}

// SubmitFlow runs stage 2 on the stored objectives.
func (o *Orchestrator) SubmitFlow(ctx context.Context) ([]domain.FlowItem, error) {
	var out []domain.FlowItem
	err := o.submit(ctx, domain.StageFlow, func(ctx context.Context, in State) (func(*domain.Plan), int, error) {
		items, err := o.gen.ProduceFlow(ctx, in.Plan.Objectives, in.Context)
		out = items
		return func(p *domain.Plan) { p.Flow = items }, len(items), err
	})
	return out, err
}

// SubmitAnnualProgram runs stage 3 on the stored flow and objectives.
func (o *Orchestrator) SubmitAnnualProgram(ctx context.Context) ([]domain.AnnualProgramItem, error) {
	var out []domain.AnnualProgramItem
	err := o.submit(ctx, domain.StageAnnual, func(ctx context.Context, in State) (func(*domain.Plan), int, error) {
		items, err := o.gen.ProduceAnnualProgram(ctx, in.Plan.Flow, in.Plan.Objectives, in.Context)
		out = items
		return func(p *domain.Plan) { p.Annual = items }, len(items), err
	})
	return out, err
}

// SubmitSemesterProgram runs stage 4 on the stored annual program.
func (o *Orchestrator) SubmitSemesterProgram(ctx context.Context) ([]domain.SemesterProgramItem, error) {
	var out []domain.SemesterProgramItem
	err := o.submit(ctx, domain.StageSemester, func(ctx context.Context, in State) (func(*domain.Plan), int, error) {
		items, err := o.gen.ProduceSemesterProgram(ctx, in.Plan.Annual, in.Context)
		out = items
		return func(p *domain.Plan) { p.Semester = items }, len(items), err
	})
	return out, err
}

// Submit runs a single stage by name.
func (o *Orchestrator) Submit(ctx context.Context, stage domain.Stage) error {
	var err error
	switch stage {
	case domain.StageObjectives:
		_, err = o.SubmitObjectives(ctx)
	case domain.StageFlow:
		_, err = o.SubmitFlow(ctx)
	case domain.StageAnnual:
		_, err = o.SubmitAnnualProgram(ctx)
	case domain.StageSemester:
		_, err = o.SubmitSemesterProgram(ctx)
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
	return err
}

// Run executes the stages from `from` through the last one in order,
// stopping at the first failure. progress, if non-nil, is called before
// each stage starts.
func (o *Orchestrator) Run(ctx context.Context, from domain.Stage, progress func(domain.Stage)) error {
	from, err := domain.ParseStage(string(from))
	if err != nil {
		return err
	}
	stages := append([]domain.Stage{from}, from.Downstream()...)
	for _, stage := range stages {
		if progress != nil {
			progress(stage)
		}
		if err := o.Submit(ctx, stage); err != nil {
			return err
		}
	}
	return nil
}

// stageCall performs the remote work for one stage against a private copy of
// the inputs. It returns a function that stores the result into a plan.
type stageCall func(ctx context.Context, in State) (store func(*domain.Plan), count int, err error)

func (o *Orchestrator) submit(ctx context.Context, stage domain.Stage, call stageCall) (err error) {
	event := StageEvent{Stage: stage}
	startedAt := time.Now()
	defer func() {
		event.Duration = time.Since(startedAt)
		event.Err = err
		o.observer.StageFinished(ctx, event)
	}()

	in, err := o.begin(stage)
	if err != nil {
		return err
	}
	defer o.finishLoading()

	store, count, err := call(ctx, in)
	event.Items = count
	if err != nil {
		o.fail(stage, FailureMessage(stage))
		return err
	}

	event.Cleared, err = o.commit(stage, in, store)
	return err
}

// begin checks the gate and flips the loading flag under the lock.
func (o *Orchestrator) begin(stage domain.Stage) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Loading {
		return State{}, ErrBusy
	}
	if msg := o.state.missingInput(stage); msg != "" {
		verr := &ValidationError{Stage: stage, Message: msg}
		o.state.Err = verr.Error()
		return State{}, verr
	}

	o.state.Loading = true
	o.state.LoadingStage = stage
	o.state.Err = ""
	o.state.Status[stage] = StatusLoading
	return o.state.Clone(), nil
}

func (o *Orchestrator) finishLoading() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Loading = false
	o.state.LoadingStage = ""
}

func (o *Orchestrator) fail(stage domain.Stage, msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Err = msg
	o.state.Status[stage] = StatusFailed
}

// commit stores the stage result and returns the downstream stages it
// cleared under InvalidateDownstream.
func (o *Orchestrator) commit(stage domain.Stage, in State, store func(*domain.Plan)) ([]domain.Stage, error) {
	if o.strict {
		candidate := in.Plan.Clone()
		store(&candidate)
		if findings := generation.CheckStage(stage, candidate, in.Context); len(findings) > 0 {
			cerr := &generation.ConsistencyError{Stage: stage, Findings: findings}
			o.fail(stage, cerr.Error())
			return nil, cerr
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	store(&o.state.Plan)
	o.state.Status[stage] = StatusComplete
	o.state.GeneratedAt[stage] = o.now()
	o.state.Active = stage
	if o.policy != InvalidateDownstream {
		return nil, nil
	}
	var cleared []domain.Stage
	for _, later := range stage.Downstream() {
		if st := o.state.Status[later]; o.state.Plan.Len(later) > 0 || (st != StatusIdle && st != "") {
			cleared = append(cleared, later)
		}
		o.state.Plan.Clear(later)
		o.state.Status[later] = StatusIdle
		delete(o.state.GeneratedAt, later)
	}
	return cleared, nil
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
