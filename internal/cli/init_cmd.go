package cli

import (
	"fmt"

	"github.com/alexanderramin/kurikula/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cc := app.Defaults
	var narrative, narrativeFile string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Start a new planning run",
		Long: `Start a new planning run with the class context. Context flags default to the
config file values. With --interactive the context is collected in a form.`,
		Example: `  kurikula init --level SD --phase A --subject Matematika --weeks 36 --periods 4
  kurikula init --approach pbl --narrative-file cp.txt
  kurikula init --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readNarrative(narrative, narrativeFile, cmd.InOrStdin())
			if err != nil {
				return err
			}

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive needs a terminal on stdin")
				}
				values := newContextFormValues(cc, text)
				if err := app.runForm(contextForm(values)); err != nil {
					return err
				}
				cc, text, err = values.apply()
				if err != nil {
					return err
				}
			}

			run, err := app.Workspace.Create(cmd.Context(), text, cc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Created run %s", run.DisplayID())))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatRunSummary(run))
			if run.Narrative == "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.Dim("Next: kurikula objectives --narrative \"...\""))
			} else {
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.Dim("Next: kurikula objectives"))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Var(levelValue{&cc.Level}, "level", "education level (PAUD, SD, SMP, SMA, SMK)")
	f.StringVar(&cc.Phase, "phase", cc.Phase, "curriculum phase (A-F)")
	f.StringVar(&cc.Subject, "subject", cc.Subject, "subject")
	f.StringVar(&cc.AcademicYear, "year", cc.AcademicYear, "academic year, e.g. 2024/2025")
	f.IntVar(&cc.EffectiveWeeks, "weeks", cc.EffectiveWeeks, "effective weeks in the year")
	f.IntVar(&cc.PeriodsPerWeek, "periods", cc.PeriodsPerWeek, "lesson periods (JP) per week")
	f.Var(approachValue{&cc.Approach}, "approach", "learning approach (deep-learning, pbl, ibl, differentiated)")
	f.BoolVarP(&interactive, "interactive", "i", false, "fill in the context with an interactive form")
	addNarrativeFlags(f, &narrative, &narrativeFile)

	return cmd
}
