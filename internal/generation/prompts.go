package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/schema"
)

// systemPrompt frames every stage call.
const systemPrompt = `You are a senior curriculum designer for Indonesia's Kurikulum Merdeka.
You help teachers turn a Capaian Pembelajaran (CP, learning outcome) into
Tujuan Pembelajaran (TP), Alur Tujuan Pembelajaran (ATP), Program Tahunan
(Prota) and Program Semester (Promes).

Rules:
1. Write every text value in formal Bahasa Indonesia.
2. Output ONLY a JSON array matching the requested shape. No markdown, no commentary.
3. Use strict JSON numeric literals (e.g., 0.5, never .5).
4. Keep identifiers stable: reuse the IDs you are given, never invent references to records that do not exist.`

const objectivesInstructions = `Task: derive Tujuan Pembelajaran (TP) from the CP below.
- Produce at least 3 and at most 5 TP for the CP; each must be measurable.
- Orient the objectives to the %s approach.
- Use the revised Bloom taxonomy for bloomLevel, formatted like "C4 - Analisis".
- Number the TP as TP-1, TP-2, ... and set cpId to the CP code (use "CP-1" when none is given).`

const flowInstructions = `Task: arrange the TP below into an Alur Tujuan Pembelajaran (ATP).
- Order the modules logically from foundational understanding to reflection and creation.
- Every tpId must be one of the TP ids listed below.
- Sequence numbers start at 1 and strictly increase.
- Tag each module with the Profil Pelajar Pancasila (P3) elements it builds in p3Elements.
- Keep the sum of durationJP within the %d JP available this year.`

const annualInstructions = `Task: build the Program Tahunan (Prota) from the ATP and TP below.
- Effective weeks: %d. JP per week: %d. Total JP available: %d.
- The totalJP column must add up to no more than %d.
- Number the rows from 1 and fill atp with the ATP id or module name each row covers.`

const semesterInstructions = `Task: split the Program Tahunan below into Program Semester 1 and 2.
- Every row belongs to semester 1 or semester 2; keep the Prota order.
- Semester 1 covers the first half of academic year %s, semester 2 the second half.
- The jp column must add up to the Prota total and to no more than %d.`

// contextBlock renders the context fields every stage sees.
func contextBlock(c domain.CurriculumContext) string {
	var b strings.Builder
	b.WriteString("Curriculum context:\n")
	fmt.Fprintf(&b, "- Education level: %s\n", c.Level)
	fmt.Fprintf(&b, "- Phase: %s\n", c.Phase)
	fmt.Fprintf(&b, "- Subject: %s\n", c.Subject)
	fmt.Fprintf(&b, "- Academic year: %s\n", c.AcademicYear)
	fmt.Fprintf(&b, "- Effective weeks: %d\n", c.EffectiveWeeks)
	fmt.Fprintf(&b, "- JP per week: %d\n", c.PeriodsPerWeek)
	fmt.Fprintf(&b, "- Learning approach: %s\n", c.Approach)
	return b.String()
}

func shapeLine(s schema.Schema) string {
	return "Respond with a JSON " + s.Describe() + "."
}

func marshalRecords(label string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s for prompt: %w", label, err)
	}
	return string(data), nil
}

func buildObjectivesPrompt(narrative string, c domain.CurriculumContext) string {
	var b strings.Builder
	b.WriteString(contextBlock(c))
	b.WriteString("\n")
	fmt.Fprintf(&b, objectivesInstructions, c.Approach)
	b.WriteString("\n\nCP:\n\"\"\"\n")
	b.WriteString(strings.TrimSpace(narrative))
	b.WriteString("\n\"\"\"\n\n")
	b.WriteString(shapeLine(ObjectivesSchema()))
	return b.String()
}

func buildFlowPrompt(objectives []domain.Objective, c domain.CurriculumContext) (string, error) {
	tps, err := marshalRecords("objectives", objectives)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(contextBlock(c))
	b.WriteString("\n")
	fmt.Fprintf(&b, flowInstructions, c.AvailablePeriods())
	b.WriteString("\n\nTP:\n")
	b.WriteString(tps)
	b.WriteString("\n\n")
	b.WriteString(shapeLine(FlowSchema()))
	return b.String(), nil
}

func buildAnnualPrompt(flow []domain.FlowItem, objectives []domain.Objective, c domain.CurriculumContext) (string, error) {
	atps, err := marshalRecords("flow", flow)
	if err != nil {
		return "", err
	}
	tps, err := marshalRecords("objectives", objectives)
	if err != nil {
		return "", err
	}
	total := c.AvailablePeriods()
	var b strings.Builder
	b.WriteString(contextBlock(c))
	b.WriteString("\n")
	fmt.Fprintf(&b, annualInstructions, c.EffectiveWeeks, c.PeriodsPerWeek, total, total)
	b.WriteString("\n\nATP:\n")
	b.WriteString(atps)
	b.WriteString("\n\nTP:\n")
	b.WriteString(tps)
	b.WriteString("\n\n")
	b.WriteString(shapeLine(AnnualProgramSchema()))
	return b.String(), nil
}

func buildSemesterPrompt(annual []domain.AnnualProgramItem, c domain.CurriculumContext) (string, error) {
	prota, err := marshalRecords("annual program", annual)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(contextBlock(c))
	b.WriteString("\n")
	fmt.Fprintf(&b, semesterInstructions, c.AcademicYear, c.AvailablePeriods())
	b.WriteString("\n\nProta:\n")
	b.WriteString(prota)
	b.WriteString("\n\n")
	b.WriteString(shapeLine(SemesterProgramSchema()))
	return b.String(), nil
}
