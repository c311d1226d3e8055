package domain

import "time"

// Plan holds the four stage outputs of one pipeline run.
type Plan struct {
	Objectives []Objective           `json:"objectives" yaml:"objectives"`
	Flow       []FlowItem            `json:"flow" yaml:"flow"`
	Annual     []AnnualProgramItem   `json:"annual" yaml:"annual"`
	Semester   []SemesterProgramItem `json:"semester" yaml:"semester"`
}

// Len returns the number of records stored for a stage.
func (p Plan) Len(s Stage) int {
	switch s {
	case StageObjectives:
		return len(p.Objectives)
	case StageFlow:
		return len(p.Flow)
	case StageAnnual:
		return len(p.Annual)
	case StageSemester:
		return len(p.Semester)
	}
	return 0
}

// Clear drops the records of a stage.
func (p *Plan) Clear(s Stage) {
	switch s {
	case StageObjectives:
		p.Objectives = nil
	case StageFlow:
		p.Flow = nil
	case StageAnnual:
		p.Annual = nil
	case StageSemester:
		p.Semester = nil
	}
}

// Clone returns a deep copy; flow tag slices are copied too.
func (p Plan) Clone() Plan {
	out := Plan{
		Objectives: append([]Objective(nil), p.Objectives...),
		Annual:     append([]AnnualProgramItem(nil), p.Annual...),
		Semester:   append([]SemesterProgramItem(nil), p.Semester...),
	}
	if p.Flow != nil {
		out.Flow = make([]FlowItem, len(p.Flow))
		for i, f := range p.Flow {
			f.CharacterTags = append([]string(nil), f.CharacterTags...)
			out.Flow[i] = f
		}
	}
	return out
}

// Run is a saved pipeline workspace: the inputs plus whatever stages have
// been generated so far.
type Run struct {
	ID          string
	Narrative   string
	Context     CurriculumContext
	Plan        Plan
	ActiveStage Stage
	GeneratedAt map[Stage]time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayID returns the first eight characters of the run ID.
func (r *Run) DisplayID() string {
	if len(r.ID) >= 8 {
		return r.ID[:8]
	}
	return r.ID
}
