package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/kurikula/internal/cli/formatter"
	"github.com/alexanderramin/kurikula/internal/importer"
	"github.com/spf13/cobra"
)

func newRunsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Manage saved planning runs",
	}

	cmd.AddCommand(
		newRunsListCmd(app),
		newRunsInspectCmd(app),
		newRunsDeleteCmd(app),
		newRunsExportCmd(app),
		newRunsImportCmd(app),
	)

	return cmd
}

func newRunsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved runs, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.Workspace.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunList(runs))
			return nil
		},
	}
}

func newRunsInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [id]",
		Short: "Show a run's context, narrative and stage progress",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := runRef(cmd)
			if len(args) == 1 {
				ref = args[0]
			}
			run, err := app.Workspace.Resolve(cmd.Context(), ref)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunSummary(run))
			return nil
		},
	}
}

func newRunsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a run and all of its generated stages",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := app.Workspace.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Deleted run %s", run.DisplayID())))
			return nil
		},
	}
}

func newRunsExportCmd(app *App) *cobra.Command {
	var outPath string
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Write a run to a JSON or YAML bundle",
		Example: `  kurikula runs export 3f2a -o matematika.json
  kurikula runs export --yaml > run.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := runRef(cmd)
			if len(args) == 1 {
				ref = args[0]
			}
			run, err := app.Workspace.Resolve(cmd.Context(), ref)
			if err != nil {
				return err
			}

			format := importer.FormatJSON
			if asYAML {
				format = importer.FormatYAML
			} else if outPath != "" {
				format = importer.FormatFromPath(outPath)
			}

			if outPath == "" {
				return importer.WriteBundle(cmd.OutOrStdout(), importer.Export(run), format)
			}
			var buf bytes.Buffer
			if err := importer.WriteBundle(&buf, importer.Export(run), format); err != nil {
				return err
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing bundle: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Exported run %s to %s", run.DisplayID(), outPath)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to a file instead of stdout (.yaml/.yml selects YAML)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "encode as YAML")
	return cmd
}

func newRunsImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create a new run from a JSON or YAML bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := importer.LoadBundle(args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidateBundle(bundle); len(errs) > 0 {
				return fmt.Errorf("invalid bundle %s:\n%w", args[0], errors.Join(errs...))
			}
			run, err := importer.Convert(bundle)
			if err != nil {
				return err
			}
			if err := app.Workspace.Save(cmd.Context(), run); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Imported run %s", run.DisplayID())))
			fmt.Fprint(out, formatter.FormatRunSummary(run))
			return nil
		},
	}
}
