package pipeline

import (
	"maps"
	"time"

	"github.com/alexanderramin/kurikula/internal/domain"
)

// Status is the lifecycle position of one stage.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusLoading  Status = "loading"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// State is everything one pipeline run holds: inputs, the four result
// lists and the transient loading/error flags. Each Orchestrator owns one.
type State struct {
	Narrative    string
	Context      domain.CurriculumContext
	Plan         domain.Plan
	Loading      bool
	LoadingStage domain.Stage
	Err          string
	Active       domain.Stage
	Status       map[domain.Stage]Status
	GeneratedAt  map[domain.Stage]time.Time
}

// NewState returns an idle state with the given context.
func NewState(cc domain.CurriculumContext) State {
	s := State{
		Context:     cc,
		Active:      domain.StageObjectives,
		Status:      make(map[domain.Stage]Status, len(domain.Stages)),
		GeneratedAt: make(map[domain.Stage]time.Time, len(domain.Stages)),
	}
	for _, stage := range domain.Stages {
		s.Status[stage] = StatusIdle
	}
	return s
}

// StateFromRun rebuilds a state from a saved run. Stages with records are
// marked complete.
func StateFromRun(run *domain.Run) State {
	s := NewState(run.Context)
	s.Narrative = run.Narrative
	s.Plan = run.Plan.Clone()
	if run.ActiveStage != "" {
		s.Active = run.ActiveStage
	}
	for _, stage := range domain.Stages {
		if s.Plan.Len(stage) > 0 {
			s.Status[stage] = StatusComplete
		}
	}
	maps.Copy(s.GeneratedAt, run.GeneratedAt)
	return s
}

// ApplyTo copies the persistent part of the state onto run.
func (s State) ApplyTo(run *domain.Run) {
	run.Narrative = s.Narrative
	run.Context = s.Context
	run.Plan = s.Plan.Clone()
	run.ActiveStage = s.Active
	run.GeneratedAt = maps.Clone(s.GeneratedAt)
}

// Clone returns a deep copy of s. Missing status entries come back Idle.
func (s State) Clone() State {
	out := s
	out.Plan = s.Plan.Clone()
	out.Status = maps.Clone(s.Status)
	out.GeneratedAt = maps.Clone(s.GeneratedAt)
	if out.Status == nil {
		out.Status = make(map[domain.Stage]Status, len(domain.Stages))
	}
	if out.GeneratedAt == nil {
		out.GeneratedAt = make(map[domain.Stage]time.Time, len(domain.Stages))
	}
	for _, stage := range domain.Stages {
		if _, ok := out.Status[stage]; !ok {
			out.Status[stage] = StatusIdle
		}
	}
	return out
}

// Ready reports whether stage has the upstream data it needs.
func (s State) Ready(stage domain.Stage) bool {
	return s.missingInput(stage) == ""
}

func (s State) missingInput(stage domain.Stage) string {
	var ok bool
	switch stage {
	case domain.StageObjectives:
		ok = hasText(s.Narrative)
	case domain.StageFlow:
		ok = len(s.Plan.Objectives) > 0
	case domain.StageAnnual:
		ok = len(s.Plan.Flow) > 0
	case domain.StageSemester:
		ok = len(s.Plan.Annual) > 0
	default:
		return "unknown stage"
	}
	if ok {
		return ""
	}
	return missingInputMessages[stage]
}
