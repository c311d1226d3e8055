package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/kurikula/internal/cli/formatter"
	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/generation"
	"github.com/alexanderramin/kurikula/internal/pipeline"
	"github.com/alexanderramin/kurikula/internal/service"
	"github.com/spf13/cobra"
)

func newObjectivesCmd(app *App) *cobra.Command {
	var narrative, narrativeFile string

	cmd := &cobra.Command{
		Use:     "objectives",
		Aliases: []string{"tp"},
		Short:   "Generate learning objectives (TP) from the narrative",
		Example: `  kurikula objectives --narrative "Peserta didik dapat membaca bilangan sampai 100"
  kurikula objectives --narrative-file cp.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readNarrative(narrative, narrativeFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return generateStage(cmd, app, service.GenerateRequest{
				RunRef:    runRef(cmd),
				Stage:     domain.StageObjectives,
				Narrative: text,
			})
		},
	}
	addNarrativeFlags(cmd.Flags(), &narrative, &narrativeFile)
	return cmd
}

func newStageCmd(app *App, stage domain.Stage, use string, aliases []string, short string) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateStage(cmd, app, service.GenerateRequest{
				RunRef: runRef(cmd),
				Stage:  stage,
			})
		},
	}
}

func generateStage(cmd *cobra.Command, app *App, req service.GenerateRequest) error {
	stop := startSpinner(cmd, app, fmt.Sprintf("Generating %s…", req.Stage.Label()))
	run, err := app.Planning.Generate(cmd.Context(), req)
	stop()
	if err != nil {
		return stageFailure(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, formatter.FormatStage(req.Stage, run.Plan, run.Context))
	fmt.Fprintln(out, formatter.Success(fmt.Sprintf("%s: %d records saved to run %s",
		req.Stage.Label(), run.Plan.Len(req.Stage), run.DisplayID())))
	if next, ok := req.Stage.Next(); ok {
		fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("Next: kurikula %s", next)))
	}
	return nil
}

// startSpinner shows a spinner on stderr when attached to a terminal.
// The returned function stops it.
func startSpinner(cmd *cobra.Command, app *App, message string) func() {
	if !app.interactive() {
		return func() {}
	}
	s := formatter.NewSpinner(cmd.ErrOrStderr(), message)
	s.Start()
	return s.Stop
}

// stageFailure maps pipeline errors to what the user sees. Remote failures
// lead with the stage's failure message; the cause follows.
func stageFailure(err error) error {
	var rerr *generation.RemoteCallError
	if errors.As(err, &rerr) {
		return fmt.Errorf("%s\n  cause: %w", pipeline.FailureMessage(rerr.Stage), err)
	}
	return err
}
