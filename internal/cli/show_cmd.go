package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexanderramin/kurikula/internal/cli/formatter"
	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/generation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newShowCmd(app *App) *cobra.Command {
	var asJSON, asYAML, check, all bool

	cmd := &cobra.Command{
		Use:   "show [stage]",
		Short: "Show the records of one stage (default: the run's active stage)",
		Long: `Show the records of one stage as a table. The stage may be given by name
(objectives, flow, annual, semester) or abbreviation (tp, atp, prota, promes).
A stage without data renders an empty table.`,
		Example: `  kurikula show atp
  kurikula show promes --check
  kurikula show --all --yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && asYAML {
				return fmt.Errorf("use either --json or --yaml, not both")
			}
			run, err := app.Workspace.Resolve(cmd.Context(), runRef(cmd))
			if err != nil {
				return err
			}

			stages := []domain.Stage{run.ActiveStage}
			if len(args) == 1 {
				stage, err := domain.ParseStage(args[0])
				if err != nil {
					return err
				}
				stages = []domain.Stage{stage}
			}
			if all {
				stages = domain.Stages
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeJSON(out, recordsFor(run.Plan, stages, all))
			case asYAML:
				return writeYAML(out, recordsFor(run.Plan, stages, all))
			}

			for _, stage := range stages {
				fmt.Fprintln(out, formatter.FormatStage(stage, run.Plan, run.Context))
			}
			if check {
				var findings []generation.Finding
				for _, stage := range stages {
					findings = append(findings, generation.CheckStage(stage, run.Plan, run.Context)...)
				}
				fmt.Fprint(out, formatter.FormatFindings(findings))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&asJSON, "json", false, "print raw records as JSON")
	f.BoolVar(&asYAML, "yaml", false, "print raw records as YAML")
	f.BoolVar(&check, "check", false, "append cross-stage consistency findings")
	f.BoolVarP(&all, "all", "a", false, "show every stage")
	return cmd
}

// stageRecords returns the records of one stage, never nil, so empty
// stages encode as [] rather than null.
func stageRecords(plan domain.Plan, stage domain.Stage) any {
	switch stage {
	case domain.StageObjectives:
		return nonNil(plan.Objectives)
	case domain.StageFlow:
		return nonNil(plan.Flow)
	case domain.StageAnnual:
		return nonNil(plan.Annual)
	case domain.StageSemester:
		return nonNil(plan.Semester)
	}
	return []any{}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// recordsFor returns a single stage's list, or a stage-keyed object when
// all stages are requested.
func recordsFor(plan domain.Plan, stages []domain.Stage, keyed bool) any {
	if !keyed && len(stages) == 1 {
		return stageRecords(plan, stages[0])
	}
	out := make(map[string]any, len(stages))
	for _, s := range stages {
		out[string(s)] = stageRecords(plan, s)
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
