package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/kurikula/internal/db"
	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/repository"
	"github.com/google/uuid"
)

// WorkspaceService manages saved pipeline runs.
type WorkspaceService interface {
	Create(ctx context.Context, narrative string, cc domain.CurriculumContext) (*domain.Run, error)
	// Resolve loads a run by full ID or unique prefix; an empty ref selects
	// the most recently updated run.
	Resolve(ctx context.Context, ref string) (*domain.Run, error)
	Save(ctx context.Context, run *domain.Run) error
	List(ctx context.Context) ([]repository.RunSummary, error)
	Delete(ctx context.Context, ref string) (*domain.Run, error)
}

type workspaceService struct {
	runs repository.RunRepo
	uow  db.UnitOfWork
}

func NewWorkspaceService(runs repository.RunRepo, uow db.UnitOfWork) WorkspaceService {
	return &workspaceService{runs: runs, uow: uow}
}

func (s *workspaceService) Create(ctx context.Context, narrative string, cc domain.CurriculumContext) (*domain.Run, error) {
	if err := cc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid curriculum context: %w", err)
	}
	now := time.Now().UTC()
	run := &domain.Run{
		ID:          uuid.New().String(),
		Narrative:   strings.TrimSpace(narrative),
		Context:     cc,
		ActiveStage: domain.StageObjectives,
		GeneratedAt: map[domain.Stage]time.Time{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Save(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *workspaceService) Resolve(ctx context.Context, ref string) (*domain.Run, error) {
	if strings.TrimSpace(ref) == "" {
		run, err := s.runs.Latest(ctx)
		if err != nil {
			return nil, fmt.Errorf("no saved run (start one with 'kurikula init'): %w", err)
		}
		return run, nil
	}
	return s.runs.GetByPrefix(ctx, ref)
}

func (s *workspaceService) Save(ctx context.Context, run *domain.Run) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteRunRepo(tx).Save(ctx, run)
	})
}

func (s *workspaceService) List(ctx context.Context) ([]repository.RunSummary, error) {
	return s.runs.List(ctx)
}

func (s *workspaceService) Delete(ctx context.Context, ref string) (*domain.Run, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("a run ID is required")
	}
	run, err := s.runs.GetByPrefix(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.runs.Delete(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}
