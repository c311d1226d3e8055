package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/generation"
)

const textWidth = 60

// FormatContext renders the curriculum context as key/value lines.
func FormatContext(cc domain.CurriculumContext) string {
	rows := [][2]string{
		{"Level", string(cc.Level)},
		{"Phase", cc.Phase},
		{"Subject", cc.Subject},
		{"Academic year", cc.AcademicYear},
		{"Effective weeks", strconv.Itoa(cc.EffectiveWeeks)},
		{"JP per week", strconv.Itoa(cc.PeriodsPerWeek)},
		{"Available", fmt.Sprintf("%d JP", cc.AvailablePeriods())},
		{"Approach", string(cc.Approach)},
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-16s", r[0])), OrDash(r[1]))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatStage renders one stage of the plan under its header.
func FormatStage(stage domain.Stage, plan domain.Plan, cc domain.CurriculumContext) string {
	var body string
	switch stage {
	case domain.StageObjectives:
		body = FormatObjectives(plan.Objectives)
	case domain.StageFlow:
		body = FormatFlow(plan.Flow, plan.Objectives, cc)
	case domain.StageAnnual:
		body = FormatAnnual(plan.Annual, cc)
	case domain.StageSemester:
		body = FormatSemester(plan.Semester, cc)
	default:
		return ""
	}
	return StageHeader(stage) + "\n" + body
}

// FormatObjectives renders the learning objectives table.
func FormatObjectives(items []domain.Objective) string {
	headers := []string{"ID", "CP", "STATEMENT", "COMPETENCY", "CONTENT", "BLOOM"}
	rows := make([][]string, 0, len(items))
	for _, o := range items {
		rows = append(rows, []string{
			StyleID.Render(o.ID),
			OrDash(o.OutcomeID),
			Truncate(o.Statement, textWidth),
			OrDash(o.Competency),
			Truncate(o.Content, 30),
			StyleTag.Render(o.BloomLevel),
		})
	}
	return RenderTable(headers, rows)
}

// FormatFlow renders the flow with the referenced objective statement
// looked up next to each module. References that match no objective show
// a dim marker.
func FormatFlow(items []domain.FlowItem, objectives []domain.Objective, cc domain.CurriculumContext) string {
	idx := domain.ObjectiveIndex(objectives)
	headers := []string{"#", "ID", "TP", "OBJECTIVE", "MODULE", "DURATION", "P3"}
	rows := make([][]string, 0, len(items))
	for _, f := range items {
		statement := Dim("(unknown objective)")
		if o, ok := idx[f.ObjectiveID]; ok {
			statement = Truncate(o.Statement, 40)
		}
		rows = append(rows, []string{
			strconv.Itoa(f.Sequence),
			StyleID.Render(f.ID),
			f.ObjectiveID,
			statement,
			Truncate(f.ModuleName, 36),
			FormatJP(f.DurationPeriods),
			StyleTag.Render(strings.Join(f.CharacterTags, ", ")),
		})
	}
	out := RenderTableAligned(headers, rows, map[int]bool{0: true, 5: true})
	if len(items) == 0 {
		return out
	}
	return out + totalLine(domain.SumFlowPeriods(items), cc)
}

// FormatAnnual renders the annual program table.
func FormatAnnual(items []domain.AnnualProgramItem, cc domain.CurriculumContext) string {
	headers := []string{"NO", "CP", "ATP", "MATERIAL", "JP", "ASSESSMENT"}
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			strconv.Itoa(a.No),
			Truncate(a.Outcome, 30),
			Truncate(a.FlowRef, 30),
			Truncate(a.LearningMaterial, textWidth),
			FormatJP(a.TotalPeriods),
			OrDash(a.AssessmentType),
		})
	}
	out := RenderTableAligned(headers, rows, map[int]bool{0: true, 4: true})
	if len(items) == 0 {
		return out
	}
	return out + totalLine(domain.SumAnnualPeriods(items), cc)
}

// FormatSemester renders the semester program split into its two halves.
// Rows tagged with anything other than semester 1 or 2 are listed
// separately so they are not lost.
func FormatSemester(items []domain.SemesterProgramItem, cc domain.CurriculumContext) string {
	first, second := domain.PartitionBySemester(items)
	var stray []domain.SemesterProgramItem
	for _, it := range items {
		if !it.Semester.Valid() {
			stray = append(stray, it)
		}
	}

	var b strings.Builder
	for _, part := range []struct {
		title string
		rows  []domain.SemesterProgramItem
	}{
		{domain.SemesterFirst.String(), first},
		{domain.SemesterSecond.String(), second},
	} {
		b.WriteString(Bold(part.title))
		b.WriteString("\n")
		b.WriteString(semesterTable(part.rows))
		if len(part.rows) > 0 {
			fmt.Fprintf(&b, "%s %s\n", Dim("Subtotal:"), FormatJP(domain.SumSemesterPeriods(part.rows)))
		}
		b.WriteString("\n")
	}
	if len(stray) > 0 {
		b.WriteString(StyleWarn.Render("Unassigned semester"))
		b.WriteString("\n")
		b.WriteString(semesterTable(stray))
		b.WriteString("\n")
	}
	if len(items) > 0 {
		b.WriteString(totalLine(domain.SumSemesterPeriods(items), cc))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func semesterTable(items []domain.SemesterProgramItem) string {
	headers := []string{"NO", "CP", "ATP", "MATERIAL", "JP", "ASSESSMENT"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			strconv.Itoa(it.No),
			Truncate(it.Outcome, 30),
			Truncate(it.FlowRef, 30),
			Truncate(it.LearningMaterial, textWidth),
			FormatJP(it.Periods),
			OrDash(it.AssessmentForm),
		})
	}
	return RenderTableAligned(headers, rows, map[int]bool{0: true, 4: true})
}

// totalLine reports the allocated periods against the year's budget.
// Over-allocation is highlighted but not rejected.
func totalLine(total float64, cc domain.CurriculumContext) string {
	available := cc.AvailablePeriods()
	line := fmt.Sprintf("Total: %s of %d JP available", FormatJP(total), available)
	if available > 0 && total > float64(available) {
		return StyleError.Render(line) + "\n"
	}
	return Dim(line) + "\n"
}

// FormatFindings renders consistency findings as a warning list.
func FormatFindings(findings []generation.Finding) string {
	if len(findings) == 0 {
		return Success("No consistency findings") + "\n"
	}
	var b strings.Builder
	b.WriteString(Header("Consistency"))
	b.WriteString("\n")
	for _, f := range findings {
		b.WriteString(Warning(fmt.Sprintf("%s %s", Dim(string(f.Stage)), f.String())))
		b.WriteString("\n")
	}
	return b.String()
}
