// Package cli implements the kurikula command line: one subcommand per
// pipeline stage plus commands to inspect and manage saved runs.
package cli

import (
	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/service"
	"github.com/charmbracelet/huh"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Workspace service.WorkspaceService
	Planning  service.PlanningService

	// Defaults seeds the context flags of init.
	Defaults domain.CurriculumContext

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// RunForm and RunProgram run interactive UI; tests replace them.
	RunForm    func(*huh.Form) error
	RunProgram func(tea.Model) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runForm(f *huh.Form) error {
	if a.RunForm != nil {
		return a.RunForm(f)
	}
	return f.Run()
}

func (a *App) runProgram(m tea.Model) error {
	if a.RunProgram != nil {
		return a.RunProgram(m)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// NewRootCmd creates the top-level "kurikula" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "kurikula",
		Short: "Curriculum planner: TP, ATP, Prota and Promes from a learning-outcome narrative",
		Long: `kurikula turns a learning-outcome narrative (Capaian Pembelajaran) into
learning objectives (TP), an objective flow (ATP), an annual program (Prota)
and a semester program (Promes). Each stage is generated by a language model
from the output of the stage before it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default $KURIKULA_CONFIG)")
	pf.Bool("ephemeral", false, "use an in-memory workspace that is discarded on exit")
	pf.StringP("run", "r", "", "run ID or prefix (default: most recently updated run)")

	root.AddCommand(
		newInitCmd(app),
		newObjectivesCmd(app),
		newStageCmd(app, domain.StageFlow, "flow", []string{"atp"}, "Generate the objective flow (ATP) from the objectives"),
		newStageCmd(app, domain.StageAnnual, "annual", []string{"prota"}, "Generate the annual program (Prota) from the flow"),
		newStageCmd(app, domain.StageSemester, "semester", []string{"promes"}, "Generate the semester program (Promes) from the annual program"),
		newRunCmd(app),
		newShowCmd(app),
		newViewCmd(app),
		newRunsCmd(app),
	)

	return root
}

// runRef returns the --run flag value.
func runRef(cmd *cobra.Command) string {
	if f := cmd.Flag("run"); f != nil {
		return f.Value.String()
	}
	return ""
}
