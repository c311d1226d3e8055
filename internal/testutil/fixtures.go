package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/google/uuid"
)

// NewTestContext returns a valid curriculum context: SD phase A mathematics,
// 36 weeks at 4 JP.
func NewTestContext() domain.CurriculumContext {
	return domain.DefaultContext()
}

// NewTestObjectives returns n objectives with IDs TP-1..TP-n.
func NewTestObjectives(n int) []domain.Objective {
	out := make([]domain.Objective, n)
	for i := range out {
		out[i] = domain.Objective{
			ID:         fmt.Sprintf("TP-%d", i+1),
			OutcomeID:  "CP-1",
			Statement:  fmt.Sprintf("Peserta didik mampu menjelaskan konsep %d", i+1),
			Competency: "menjelaskan",
			Content:    fmt.Sprintf("Konsep %d", i+1),
			BloomLevel: "C2 - Memahami",
		}
	}
	return out
}

// NewTestFlow returns one flow module per objective, each lasting jp periods.
func NewTestFlow(objectives []domain.Objective, jp float64) []domain.FlowItem {
	out := make([]domain.FlowItem, len(objectives))
	for i, o := range objectives {
		out[i] = domain.FlowItem{
			ID:              fmt.Sprintf("ATP-%d", i+1),
			ObjectiveID:     o.ID,
			Sequence:        i + 1,
			ModuleName:      fmt.Sprintf("Modul %d", i+1),
			DurationPeriods: jp,
			CharacterTags:   []string{"Bernalar Kritis"},
		}
	}
	return out
}

// NewTestAnnual returns one annual row per flow module.
func NewTestAnnual(flow []domain.FlowItem) []domain.AnnualProgramItem {
	out := make([]domain.AnnualProgramItem, len(flow))
	for i, f := range flow {
		out[i] = domain.AnnualProgramItem{
			No:               i + 1,
			Outcome:          "CP-1",
			FlowRef:          f.ID,
			LearningMaterial: f.ModuleName,
			TotalPeriods:     f.DurationPeriods,
			AssessmentType:   "Formatif",
		}
	}
	return out
}

// NewTestSemester spreads the annual rows over both semesters, first half
// to semester 1.
func NewTestSemester(annual []domain.AnnualProgramItem) []domain.SemesterProgramItem {
	out := make([]domain.SemesterProgramItem, len(annual))
	for i, a := range annual {
		sem := domain.SemesterFirst
		if i >= (len(annual)+1)/2 {
			sem = domain.SemesterSecond
		}
		out[i] = domain.SemesterProgramItem{
			No:               i + 1,
			Semester:         sem,
			Outcome:          a.Outcome,
			FlowRef:          a.FlowRef,
			LearningMaterial: a.LearningMaterial,
			Periods:          a.TotalPeriods,
			AssessmentForm:   "Tes tertulis",
		}
	}
	return out
}

// NewTestPlan returns a fully generated plan with n objectives.
func NewTestPlan(n int) domain.Plan {
	objectives := NewTestObjectives(n)
	flow := NewTestFlow(objectives, 8)
	annual := NewTestAnnual(flow)
	return domain.Plan{
		Objectives: objectives,
		Flow:       flow,
		Annual:     annual,
		Semester:   NewTestSemester(annual),
	}
}

// Run options
type RunOption func(*domain.Run)

func WithPlan(p domain.Plan) RunOption {
	return func(r *domain.Run) {
		r.Plan = p
	}
}

func WithNarrative(s string) RunOption {
	return func(r *domain.Run) {
		r.Narrative = s
	}
}

func WithActiveStage(s domain.Stage) RunOption {
	return func(r *domain.Run) {
		r.ActiveStage = s
	}
}

func WithSubject(s string) RunOption {
	return func(r *domain.Run) {
		r.Context.Subject = s
	}
}

func WithRunID(id string) RunOption {
	return func(r *domain.Run) {
		r.ID = id
	}
}

func NewTestRun(opts ...RunOption) *domain.Run {
	now := time.Now().UTC()
	r := &domain.Run{
		ID:          uuid.New().String(),
		Narrative:   "Peserta didik memahami bilangan cacah sampai 100.",
		Context:     NewTestContext(),
		ActiveStage: domain.StageObjectives,
		GeneratedAt: map[domain.Stage]time.Time{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
