package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/kurikula/internal/domain"
)

var (
	// ErrNotFound is returned when no run matches the requested ID.
	ErrNotFound = errors.New("run not found")
	// ErrAmbiguousID is returned when a short ID prefix matches several runs.
	ErrAmbiguousID = errors.New("run ID prefix is ambiguous")
)

// RunSummary is the list view of a saved run.
type RunSummary struct {
	ID          string
	Subject     string
	Level       domain.EducationLevel
	Phase       string
	ActiveStage domain.Stage
	Counts      map[domain.Stage]int
	UpdatedAt   time.Time
}

// DisplayID returns the first eight characters of the run ID.
func (s RunSummary) DisplayID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

type RunRepo interface {
	Save(ctx context.Context, run *domain.Run) error
	GetByID(ctx context.Context, id string) (*domain.Run, error)
	GetByPrefix(ctx context.Context, prefix string) (*domain.Run, error)
	Latest(ctx context.Context) (*domain.Run, error)
	List(ctx context.Context) ([]RunSummary, error)
	Delete(ctx context.Context, id string) error
}
