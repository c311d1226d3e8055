// Package generation turns pipeline inputs into model calls, one per stage,
// and decodes the structured replies into domain records.
package generation

import (
	"context"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/llm"
	"github.com/alexanderramin/kurikula/internal/schema"
)

// Generator exposes one operation per pipeline stage. Each operation issues
// exactly one Generate call and never caches. Callers are responsible for
// non-empty inputs.
type Generator struct {
	client llm.LLMClient
}

// NewGenerator creates a Generator backed by client.
func NewGenerator(client llm.LLMClient) *Generator {
	return &Generator{client: client}
}

// ProduceObjectives derives learning objectives from an outcome narrative.
func (g *Generator) ProduceObjectives(ctx context.Context, narrative string, cc domain.CurriculumContext) ([]domain.Objective, error) {
	return produce[domain.Objective](ctx, g.client, domain.StageObjectives,
		buildObjectivesPrompt(narrative, cc), ObjectivesSchema())
}

// ProduceFlow sequences objectives into a flow of modules.
func (g *Generator) ProduceFlow(ctx context.Context, objectives []domain.Objective, cc domain.CurriculumContext) ([]domain.FlowItem, error) {
	prompt, err := buildFlowPrompt(objectives, cc)
	if err != nil {
		return nil, &RemoteCallError{Stage: domain.StageFlow, Err: err}
	}
	return produce[domain.FlowItem](ctx, g.client, domain.StageFlow, prompt, FlowSchema())
}

// ProduceAnnualProgram allocates periods across the year from the flow.
func (g *Generator) ProduceAnnualProgram(ctx context.Context, flow []domain.FlowItem, objectives []domain.Objective, cc domain.CurriculumContext) ([]domain.AnnualProgramItem, error) {
	prompt, err := buildAnnualPrompt(flow, objectives, cc)
	if err != nil {
		return nil, &RemoteCallError{Stage: domain.StageAnnual, Err: err}
	}
	return produce[domain.AnnualProgramItem](ctx, g.client, domain.StageAnnual, prompt, AnnualProgramSchema())
}

// ProduceSemesterProgram splits the annual program into semesters 1 and 2.
func (g *Generator) ProduceSemesterProgram(ctx context.Context, annual []domain.AnnualProgramItem, cc domain.CurriculumContext) ([]domain.SemesterProgramItem, error) {
	prompt, err := buildSemesterPrompt(annual, cc)
	if err != nil {
		return nil, &RemoteCallError{Stage: domain.StageSemester, Err: err}
	}
	return produce[domain.SemesterProgramItem](ctx, g.client, domain.StageSemester, prompt, SemesterProgramSchema())
}

func produce[T any](ctx context.Context, client llm.LLMClient, stage domain.Stage, prompt string, s schema.Schema) ([]T, error) {
	resp, err := client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskType(stage),
		SystemPrompt: systemPrompt,
		UserPrompt:   prompt,
		Schema:       &s,
	})
	if err != nil {
		return nil, &RemoteCallError{Stage: stage, Err: err}
	}

	items, err := llm.ExtractConforming[[]T](resp.Text, s)
	if err != nil {
		return nil, &RemoteCallError{Stage: stage, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
