package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Browse all four stages in a tabbed terminal viewer",
		Long: `Browse the run's stages in a full-screen viewer. Switch tabs with ←/→ or
1-4 and scroll with the arrow and page keys. The tab open on exit becomes the
run's active stage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("view needs a terminal; use 'kurikula show --all' instead")
			}
			run, err := app.Workspace.Resolve(cmd.Context(), runRef(cmd))
			if err != nil {
				return err
			}

			viewer := newStageViewer(run)
			if err := app.runProgram(viewer); err != nil {
				return err
			}
			if viewer.Stage() == run.ActiveStage {
				return nil
			}
			run.ActiveStage = viewer.Stage()
			return app.Workspace.Save(cmd.Context(), run)
		},
	}
}
