package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/pipeline"
)

// GenerateRequest selects a saved run and the stage to start from.
type GenerateRequest struct {
	RunRef string
	Stage  domain.Stage
	// Narrative replaces the run's outcome narrative when non-empty.
	Narrative string
}

// PlanningService runs pipeline stages against saved runs.
type PlanningService interface {
	// Generate runs one stage and saves the run when it succeeds.
	Generate(ctx context.Context, req GenerateRequest) (*domain.Run, error)
	// RunAll runs req.Stage and every later stage, saving whatever completed
	// even when a stage fails.
	RunAll(ctx context.Context, req GenerateRequest, progress func(domain.Stage)) (*domain.Run, error)
}

type planningService struct {
	workspace WorkspaceService
	gen       pipeline.Generator
	opts      []pipeline.Option
}

// NewPlanningService builds an orchestrator per call, seeded from the saved
// run and configured with opts.
func NewPlanningService(workspace WorkspaceService, gen pipeline.Generator, opts ...pipeline.Option) PlanningService {
	return &planningService{workspace: workspace, gen: gen, opts: opts}
}

func (s *planningService) orchestrator(ctx context.Context, req GenerateRequest) (*domain.Run, *pipeline.Orchestrator, error) {
	run, err := s.workspace.Resolve(ctx, req.RunRef)
	if err != nil {
		return nil, nil, err
	}
	opts := append(append([]pipeline.Option(nil), s.opts...), pipeline.WithState(pipeline.StateFromRun(run)))
	orch := pipeline.New(s.gen, opts...)
	if req.Narrative != "" {
		if err := orch.SetNarrative(req.Narrative); err != nil {
			return nil, nil, err
		}
	}
	return run, orch, nil
}

func (s *planningService) Generate(ctx context.Context, req GenerateRequest) (*domain.Run, error) {
	run, orch, err := s.orchestrator(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := orch.Submit(ctx, req.Stage); err != nil {
		return run, err
	}
	orch.Snapshot().ApplyTo(run)
	if err := s.workspace.Save(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *planningService) RunAll(ctx context.Context, req GenerateRequest, progress func(domain.Stage)) (*domain.Run, error) {
	if req.Stage == "" {
		req.Stage = domain.StageObjectives
	}
	run, orch, err := s.orchestrator(ctx, req)
	if err != nil {
		return nil, err
	}
	runErr := orch.Run(ctx, req.Stage, progress)

	var verr *pipeline.ValidationError
	if errors.As(runErr, &verr) && verr.Stage == req.Stage {
		// Nothing ran.
		return run, runErr
	}
	orch.Snapshot().ApplyTo(run)
	if err := s.workspace.Save(ctx, run); err != nil {
		return nil, errors.Join(runErr, err)
	}
	return run, runErr
}
