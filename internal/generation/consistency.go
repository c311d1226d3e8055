package generation

import (
	"fmt"

	"github.com/alexanderramin/kurikula/internal/domain"
)

// FindingCode classifies a cross-stage inconsistency.
type FindingCode string

const (
	FindingDuplicateID      FindingCode = "DUPLICATE_ID"
	FindingUnknownObjective FindingCode = "UNKNOWN_OBJECTIVE"
	FindingSequenceOrder    FindingCode = "SEQUENCE_ORDER"
	FindingPeriodsExceeded  FindingCode = "PERIODS_EXCEEDED"
	FindingInvalidSemester  FindingCode = "INVALID_SEMESTER"
)

// Finding is one advisory inconsistency in generated data. Findings are
// not errors; strict mode turns them into a *ConsistencyError.
type Finding struct {
	Stage   domain.Stage
	Code    FindingCode
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s", f.Code, f.Message)
}

// CheckConsistency runs the checks of every stage that has data.
func CheckConsistency(plan domain.Plan, cc domain.CurriculumContext) []Finding {
	var out []Finding
	for _, stage := range domain.Stages {
		out = append(out, CheckStage(stage, plan, cc)...)
	}
	return out
}

// CheckStage checks the records of one stage against the upstream stages
// in plan and against the context.
func CheckStage(stage domain.Stage, plan domain.Plan, cc domain.CurriculumContext) []Finding {
	switch stage {
	case domain.StageObjectives:
		return checkObjectives(plan.Objectives)
	case domain.StageFlow:
		return checkFlow(plan.Flow, plan.Objectives, cc)
	case domain.StageAnnual:
		return checkAnnual(plan.Annual, cc)
	case domain.StageSemester:
		return checkSemester(plan.Semester, cc)
	}
	return nil
}

func checkObjectives(objectives []domain.Objective) []Finding {
	var out []Finding
	seen := make(map[string]bool, len(objectives))
	for _, o := range objectives {
		if seen[o.ID] {
			out = append(out, Finding{
				Stage:   domain.StageObjectives,
				Code:    FindingDuplicateID,
				Message: fmt.Sprintf("objective id %q appears more than once", o.ID),
			})
		}
		seen[o.ID] = true
	}
	return out
}

func checkFlow(flow []domain.FlowItem, objectives []domain.Objective, cc domain.CurriculumContext) []Finding {
	var out []Finding
	idx := domain.ObjectiveIndex(objectives)
	for i, f := range flow {
		if _, ok := idx[f.ObjectiveID]; !ok {
			out = append(out, Finding{
				Stage:   domain.StageFlow,
				Code:    FindingUnknownObjective,
				Message: fmt.Sprintf("flow item %q references unknown objective %q", f.ID, f.ObjectiveID),
			})
		}
		if i > 0 && f.Sequence <= flow[i-1].Sequence {
			out = append(out, Finding{
				Stage:   domain.StageFlow,
				Code:    FindingSequenceOrder,
				Message: fmt.Sprintf("flow item %q has sequence %d after %d", f.ID, f.Sequence, flow[i-1].Sequence),
			})
		}
	}
	out = append(out, checkPeriods(domain.StageFlow, domain.SumFlowPeriods(flow), cc)...)
	return out
}

func checkAnnual(annual []domain.AnnualProgramItem, cc domain.CurriculumContext) []Finding {
	var out []Finding
	for i, a := range annual {
		if i > 0 && a.No <= annual[i-1].No {
			out = append(out, Finding{
				Stage:   domain.StageAnnual,
				Code:    FindingSequenceOrder,
				Message: fmt.Sprintf("annual row %d follows row %d", a.No, annual[i-1].No),
			})
		}
	}
	out = append(out, checkPeriods(domain.StageAnnual, domain.SumAnnualPeriods(annual), cc)...)
	return out
}

func checkSemester(items []domain.SemesterProgramItem, cc domain.CurriculumContext) []Finding {
	var out []Finding
	for _, it := range items {
		if !it.Semester.Valid() {
			out = append(out, Finding{
				Stage:   domain.StageSemester,
				Code:    FindingInvalidSemester,
				Message: fmt.Sprintf("semester row %d has semester %d, expected 1 or 2", it.No, int(it.Semester)),
			})
		}
	}
	out = append(out, checkPeriods(domain.StageSemester, domain.SumSemesterPeriods(items), cc)...)
	return out
}

func checkPeriods(stage domain.Stage, total float64, cc domain.CurriculumContext) []Finding {
	available := cc.AvailablePeriods()
	if available <= 0 || total <= float64(available) {
		return nil
	}
	return []Finding{{
		Stage:   stage,
		Code:    FindingPeriodsExceeded,
		Message: fmt.Sprintf("%s allocates %g JP, more than the %d JP available", stage, total, available),
	}}
}
