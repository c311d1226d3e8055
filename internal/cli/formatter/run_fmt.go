package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/repository"
	"github.com/charmbracelet/lipgloss"
)

// FormatRunList renders saved runs, newest first.
func FormatRunList(runs []repository.RunSummary) string {
	if len(runs) == 0 {
		return Dim("No saved runs. Start one with 'kurikula init'.") + "\n"
	}
	headers := []string{"ID", "SUBJECT", "LEVEL", "PHASE", "TP", "ATP", "PROTA", "PROMES", "VIEW", "UPDATED"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		row := []string{
			TruncID(r.ID),
			OrDash(r.Subject),
			string(r.Level),
			OrDash(r.Phase),
		}
		for _, stage := range domain.Stages {
			row = append(row, countCell(r.Counts[stage]))
		}
		row = append(row, string(r.ActiveStage), HumanTimestamp(r.UpdatedAt))
		rows = append(rows, row)
	}
	return RenderTableAligned(headers, rows, map[int]bool{4: true, 5: true, 6: true, 7: true})
}

func countCell(n int) string {
	if n == 0 {
		return Dim("-")
	}
	return StyleOK.Render(strconv.Itoa(n))
}

// FormatRunSummary renders a run's inputs and per-stage progress.
func FormatRunSummary(run *domain.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", Dim("Run"), Bold(run.DisplayID()))
	b.WriteString(FormatContext(run.Context))
	b.WriteString("\n\n")
	narrative := lipgloss.NewStyle().Width(textWidth).Render(Truncate(run.Narrative, 3*textWidth))
	b.WriteString(RenderBox("Capaian Pembelajaran", OrDash(narrative)))
	b.WriteString("\n\n")
	done := 0
	for _, stage := range domain.Stages {
		if run.Plan.Len(stage) > 0 {
			done++
		}
	}
	fmt.Fprintf(&b, "%s %s\n", Dim("Stages:"), RenderProgress(done, len(domain.Stages), 8))
	for _, stage := range domain.Stages {
		n := run.Plan.Len(stage)
		marker := Dim("○")
		if n > 0 {
			marker = StyleOK.Render("●")
		}
		active := ""
		if stage == run.ActiveStage {
			active = StyleAccent.Render(" ◂")
		}
		fmt.Fprintf(&b, "%s %-32s %s%s\n", marker, stage.Label(), Dim(fmt.Sprintf("%d records", n)), active)
	}
	return b.String()
}
