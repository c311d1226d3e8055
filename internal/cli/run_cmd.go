package cli

import (
	"fmt"

	"github.com/alexanderramin/kurikula/internal/cli/formatter"
	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/service"
	"github.com/spf13/cobra"
)

func newRunCmd(app *App) *cobra.Command {
	from := domain.StageObjectives
	var narrative, narrativeFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate every stage in order, stopping at the first failure",
		Example: `  kurikula run --narrative-file cp.txt
  kurikula run --from annual`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readNarrative(narrative, narrativeFile, cmd.InOrStdin())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var spinner *formatter.Spinner
			if app.interactive() {
				spinner = formatter.NewSpinner(cmd.ErrOrStderr(), "")
				spinner.Start()
			}
			progress := func(stage domain.Stage) {
				msg := fmt.Sprintf("Generating %s…", stage.Label())
				if spinner != nil {
					spinner.SetMessage(msg)
					return
				}
				fmt.Fprintln(out, formatter.Dim(msg))
			}

			run, err := app.Planning.RunAll(cmd.Context(), service.GenerateRequest{
				RunRef:    runRef(cmd),
				Stage:     from,
				Narrative: text,
			}, progress)
			if spinner != nil {
				spinner.Stop()
			}
			if run != nil {
				fmt.Fprint(out, formatter.FormatRunSummary(run))
			}
			if err != nil {
				return stageFailure(err)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.Success("All stages generated. Browse them with 'kurikula view'."))
			return nil
		},
	}

	cmd.Flags().Var(stageValue{&from}, "from", "first stage to generate (objectives, flow, annual, semester)")
	addNarrativeFlags(cmd.Flags(), &narrative, &narrativeFile)
	return cmd
}
