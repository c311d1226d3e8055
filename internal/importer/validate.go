package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kurikula/internal/domain"
)

// ValidateBundle checks a bundle before conversion. It returns every
// problem found, not just the first.
func ValidateBundle(b *Bundle) []error {
	var errs []error

	if b.Version != 0 && b.Version != BundleVersion {
		errs = append(errs, fmt.Errorf("version: unsupported bundle version %d", b.Version))
	}
	if _, err := parseContext(b.Context); err != nil {
		errs = append(errs, fmt.Errorf("context: %w", err))
	}
	if b.ActiveStage != "" {
		if _, err := domain.ParseStage(b.ActiveStage); err != nil {
			errs = append(errs, fmt.Errorf("active_stage: %w", err))
		}
	}

	errs = append(errs, validateChain(b.Plan)...)
	errs = append(errs, validateObjectives(b.Plan.Objectives)...)
	errs = append(errs, validateFlow(b.Plan.Flow)...)
	errs = append(errs, validateAnnual(b.Plan.Annual)...)
	errs = append(errs, validateSemester(b.Plan.Semester)...)

	return errs
}

func parseContext(c ContextImport) (domain.CurriculumContext, error) {
	level, err := domain.ParseEducationLevel(c.Level)
	if err != nil {
		return domain.CurriculumContext{}, err
	}
	approach, err := domain.ParseLearningApproach(c.Approach)
	if err != nil {
		return domain.CurriculumContext{}, err
	}
	cc := domain.CurriculumContext{
		Level:          level,
		Phase:          strings.TrimSpace(c.Phase),
		Subject:        strings.TrimSpace(c.Subject),
		AcademicYear:   strings.TrimSpace(c.AcademicYear),
		EffectiveWeeks: c.EffectiveWeeks,
		PeriodsPerWeek: c.PeriodsPerWeek,
		Approach:       approach,
	}
	if err := cc.Validate(); err != nil {
		return domain.CurriculumContext{}, err
	}
	return cc, nil
}

// validateChain rejects stages whose upstream stage is empty; such a run
// could never have been produced by the pipeline.
func validateChain(p domain.Plan) []error {
	var errs []error
	for i := 1; i < len(domain.Stages); i++ {
		stage, upstream := domain.Stages[i], domain.Stages[i-1]
		if p.Len(stage) > 0 && p.Len(upstream) == 0 {
			errs = append(errs, fmt.Errorf("plan.%s: has records but plan.%s is empty", stage, upstream))
		}
	}
	return errs
}

func validateObjectives(items []domain.Objective) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, o := range items {
		prefix := fmt.Sprintf("plan.objectives[%d]", i)
		if strings.TrimSpace(o.ID) == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if seen[o.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, o.ID))
		}
		seen[o.ID] = true
		if strings.TrimSpace(o.Statement) == "" {
			errs = append(errs, fmt.Errorf("%s.statement is required", prefix))
		}
	}
	return errs
}

func validateFlow(items []domain.FlowItem) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, f := range items {
		prefix := fmt.Sprintf("plan.flow[%d]", i)
		if strings.TrimSpace(f.ID) == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if seen[f.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, f.ID))
		}
		seen[f.ID] = true
		if f.DurationPeriods < 0 {
			errs = append(errs, fmt.Errorf("%s.duration_jp must not be negative", prefix))
		}
	}
	return errs
}

func validateAnnual(items []domain.AnnualProgramItem) []error {
	var errs []error
	for i, a := range items {
		if a.TotalPeriods < 0 {
			errs = append(errs, fmt.Errorf("plan.annual[%d].total_jp must not be negative", i))
		}
	}
	return errs
}

func validateSemester(items []domain.SemesterProgramItem) []error {
	var errs []error
	for i, s := range items {
		prefix := fmt.Sprintf("plan.semester[%d]", i)
		if !s.Semester.Valid() {
			errs = append(errs, fmt.Errorf("%s.semester: must be 1 or 2, got %d", prefix, s.Semester))
		}
		if s.Periods < 0 {
			errs = append(errs, fmt.Errorf("%s.jp must not be negative", prefix))
		}
	}
	return errs
}
