package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/google/uuid"
)

// Convert turns a validated bundle into a new run with a fresh ID.
// Call ValidateBundle first; Convert assumes the bundle is valid.
func Convert(b *Bundle) (*domain.Run, error) {
	cc, err := parseContext(b.Context)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	run := &domain.Run{
		ID:          uuid.New().String(),
		Narrative:   strings.TrimSpace(b.Narrative),
		Context:     cc,
		Plan:        b.Plan.Clone(),
		ActiveStage: domain.StageObjectives,
		GeneratedAt: make(map[domain.Stage]time.Time),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if b.ActiveStage != "" {
		if run.ActiveStage, err = domain.ParseStage(b.ActiveStage); err != nil {
			return nil, err
		}
	}
	for _, s := range domain.Stages {
		if run.Plan.Len(s) > 0 {
			run.GeneratedAt[s] = now
		}
	}
	return run, nil
}

// Export builds a bundle from a saved run.
func Export(run *domain.Run) *Bundle {
	cc := run.Context
	return &Bundle{
		Version:   BundleVersion,
		Narrative: run.Narrative,
		Context: ContextImport{
			Level:          string(cc.Level),
			Phase:          cc.Phase,
			Subject:        cc.Subject,
			AcademicYear:   cc.AcademicYear,
			EffectiveWeeks: cc.EffectiveWeeks,
			PeriodsPerWeek: cc.PeriodsPerWeek,
			Approach:       string(cc.Approach),
		},
		ActiveStage: string(run.ActiveStage),
		Plan:        run.Plan.Clone(),
	}
}
