package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/generation"
	"github.com/alexanderramin/kurikula/internal/pipeline"
	"github.com/alexanderramin/kurikula/internal/repository"
	"github.com/alexanderramin/kurikula/internal/service"
	"github.com/alexanderramin/kurikula/internal/teatest"
	"github.com/alexanderramin/kurikula/internal/testutil"
	"github.com/charmbracelet/huh"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// fakeGenerator returns fixture records and can fail at one stage.
type fakeGenerator struct {
	failAt     domain.Stage
	narratives []string
}

func (g *fakeGenerator) fail(stage domain.Stage) error {
	if stage == g.failAt {
		return &generation.RemoteCallError{Stage: stage, Err: errors.New("HTTP 403: API key not valid")}
	}
	return nil
}

func (g *fakeGenerator) ProduceObjectives(_ context.Context, narrative string, _ domain.CurriculumContext) ([]domain.Objective, error) {
	g.narratives = append(g.narratives, narrative)
	if err := g.fail(domain.StageObjectives); err != nil {
		return nil, err
	}
	return testutil.NewTestObjectives(3), nil
}

func (g *fakeGenerator) ProduceFlow(_ context.Context, objectives []domain.Objective, _ domain.CurriculumContext) ([]domain.FlowItem, error) {
	if err := g.fail(domain.StageFlow); err != nil {
		return nil, err
	}
	return testutil.NewTestFlow(objectives, 8), nil
}

func (g *fakeGenerator) ProduceAnnualProgram(_ context.Context, flow []domain.FlowItem, _ []domain.Objective, _ domain.CurriculumContext) ([]domain.AnnualProgramItem, error) {
	if err := g.fail(domain.StageAnnual); err != nil {
		return nil, err
	}
	return testutil.NewTestAnnual(flow), nil
}

func (g *fakeGenerator) ProduceSemesterProgram(_ context.Context, annual []domain.AnnualProgramItem, _ domain.CurriculumContext) ([]domain.SemesterProgramItem, error) {
	if err := g.fail(domain.StageSemester); err != nil {
		return nil, err
	}
	return testutil.NewTestSemester(annual), nil
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T, gen *fakeGenerator) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	workspace := service.NewWorkspaceService(repository.NewSQLiteRunRepo(database), testutil.NewTestUoW(database))
	return &App{
		Workspace: workspace,
		Planning:  service.NewPlanningService(workspace, gen),
		Defaults:  testutil.NewTestContext(),
	}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

func latestRun(t *testing.T, app *App) *domain.Run {
	t.Helper()
	run, err := app.Workspace.Resolve(context.Background(), "")
	require.NoError(t, err)
	return run
}

func TestInitCmd_FromFlags(t *testing.T) {
	app := testApp(t, &fakeGenerator{})

	out, err := executeCmd(t, app, "init",
		"--level", "smp", "--phase", "D", "--subject", "IPA",
		"--weeks", "34", "--periods", "5", "--approach", "pbl",
		"--narrative", "Peserta didik memahami ekosistem.")
	require.NoError(t, err)
	assert.Contains(t, out, "Created run")

	run := latestRun(t, app)
	assert.Equal(t, domain.LevelSMP, run.Context.Level)
	assert.Equal(t, "D", run.Context.Phase)
	assert.Equal(t, "IPA", run.Context.Subject)
	assert.Equal(t, 170, run.Context.AvailablePeriods())
	assert.Equal(t, domain.ApproachProjectBased, run.Context.Approach)
	assert.Equal(t, "Peserta didik memahami ekosistem.", run.Narrative)
}

func TestInitCmd_Defaults(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	out, err := executeCmd(t, app, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "kurikula objectives --narrative")
	assert.Equal(t, domain.DefaultContext(), latestRun(t, app).Context)
}

func TestInitCmd_InvalidFlags(t *testing.T) {
	app := testApp(t, &fakeGenerator{})

	_, err := executeCmd(t, app, "init", "--level", "college")
	assert.ErrorContains(t, err, "unknown education level")

	_, err = executeCmd(t, app, "init", "--weeks", "0")
	assert.ErrorContains(t, err, "effective weeks must be positive")
}

func TestInitCmd_NarrativeFile(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	path := filepath.Join(t.TempDir(), "cp.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  Narasi dari berkas.\n"), 0o644))

	_, err := executeCmd(t, app, "init", "--narrative-file", path)
	require.NoError(t, err)
	assert.Equal(t, "Narasi dari berkas.", latestRun(t, app).Narrative)

	_, err = executeCmd(t, app, "init", "--narrative", "x", "--narrative-file", path)
	assert.ErrorContains(t, err, "not both")
}

func TestInitCmd_InteractiveRequiresTerminal(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	_, err := executeCmd(t, app, "init", "--interactive")
	assert.ErrorContains(t, err, "needs a terminal")
}

func TestInitCmd_InteractiveForm(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	app.IsInteractive = func() bool { return true }
	var ran bool
	app.RunForm = func(f *huh.Form) error {
		ran = true
		return nil
	}

	_, err := executeCmd(t, app, "init", "--interactive", "--subject", "Seni Rupa")
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "Seni Rupa", latestRun(t, app).Context.Subject)
}

func TestObjectivesCmd_RequiresNarrative(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	_, err := executeCmd(t, app, "init")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "objectives")
	var verr *pipeline.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.StageObjectives, verr.Stage)
}

func TestStageCmds_EndToEnd(t *testing.T) {
	gen := &fakeGenerator{}
	app := testApp(t, gen)
	_, err := executeCmd(t, app, "init")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "tp", "--narrative", "CP bilangan cacah")
	require.NoError(t, err)
	assert.Contains(t, out, "TP-3")
	assert.Contains(t, out, "3 records saved")
	assert.Contains(t, out, "Next: kurikula flow")
	assert.Equal(t, []string{"CP bilangan cacah"}, gen.narratives)

	out, err = executeCmd(t, app, "flow")
	require.NoError(t, err)
	assert.Contains(t, out, "ATP-1")
	assert.Contains(t, out, "Total: 24 JP of 144 JP available")

	_, err = executeCmd(t, app, "prota")
	require.NoError(t, err)
	out, err = executeCmd(t, app, "semester")
	require.NoError(t, err)
	assert.Contains(t, out, "Semester 1")
	assert.Contains(t, out, "Semester 2")
	assert.NotContains(t, out, "Next:")

	run := latestRun(t, app)
	assert.Equal(t, domain.StageSemester, run.ActiveStage)
	assert.Len(t, run.Plan.Semester, 3)
}

func TestStageCmd_MissingUpstream(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	_, err := executeCmd(t, app, "init", "--narrative", "CP")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "annual")
	assert.ErrorContains(t, err, "cannot generate annual")
}

func TestStageCmd_RemoteFailureMessage(t *testing.T) {
	app := testApp(t, &fakeGenerator{failAt: domain.StageFlow})
	_, err := executeCmd(t, app, "init", "--narrative", "CP")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "objectives")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "flow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), pipeline.FailureMessage(domain.StageFlow))
	assert.Contains(t, err.Error(), "API key not valid")

	assert.Empty(t, latestRun(t, app).Plan.Flow)
}

func TestStageCmd_NoSavedRun(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	_, err := executeCmd(t, app, "flow")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRunCmd_AllStages(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	_, err := executeCmd(t, app, "init")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "run", "--narrative", "CP geometri")
	require.NoError(t, err)
	assert.Contains(t, out, "Generating Tujuan Pembelajaran (TP)")
	assert.Contains(t, out, "Generating Program Semester (Promes)")
	assert.Contains(t, out, "All stages generated")

	run := latestRun(t, app)
	for _, stage := range domain.Stages {
		assert.Equal(t, 3, run.Plan.Len(stage), stage)
	}
}

func TestRunCmd_StopsAtFailure(t *testing.T) {
	app := testApp(t, &fakeGenerator{failAt: domain.StageAnnual})
	_, err := executeCmd(t, app, "init", "--narrative", "CP")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), pipeline.FailureMessage(domain.StageAnnual))
	assert.NotContains(t, out, "Generating Program Semester")

	run := latestRun(t, app)
	assert.Len(t, run.Plan.Flow, 3)
	assert.Empty(t, run.Plan.Annual)
}

func TestRunCmd_FromStage(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	_, err := executeCmd(t, app, "init", "--narrative", "CP")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "run", "--from", "flow")
	assert.ErrorContains(t, err, "cannot generate flow")

	_, err = executeCmd(t, app, "run", "--from", "lesson")
	assert.ErrorContains(t, err, "unknown stage")
}

func seedFullRun(t *testing.T, app *App) *domain.Run {
	t.Helper()
	_, err := executeCmd(t, app, "init", "--narrative", "CP")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "run")
	require.NoError(t, err)
	return latestRun(t, app)
}

func TestShowCmd_ActiveStageTable(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	seedFullRun(t, app)

	out, err := executeCmd(t, app, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "PROGRAM SEMESTER (PROMES)")

	out, err = executeCmd(t, app, "show", "atp")
	require.NoError(t, err)
	assert.Contains(t, out, "ALUR TUJUAN PEMBELAJARAN (ATP)")
	assert.Contains(t, out, "Peserta didik mampu menjelaskan konsep 2")
}

func TestShowCmd_EmptyStage(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	_, err := executeCmd(t, app, "init", "--narrative", "CP")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "show", "prota")
	require.NoError(t, err)
	assert.Contains(t, out, "MATERIAL")

	out, err = executeCmd(t, app, "show", "prota", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestShowCmd_JSONAndYAML(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	run := seedFullRun(t, app)

	out, err := executeCmd(t, app, "show", "tp", "--json")
	require.NoError(t, err)
	var objectives []domain.Objective
	require.NoError(t, json.Unmarshal([]byte(out), &objectives))
	assert.Equal(t, run.Plan.Objectives, objectives)

	out, err = executeCmd(t, app, "show", "--all", "--yaml")
	require.NoError(t, err)
	var all map[string][]map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &all))
	assert.Len(t, all, 4)
	assert.Len(t, all["semester"], 3)
	assert.EqualValues(t, 1, all["semester"][0]["semester"])

	_, err = executeCmd(t, app, "show", "--json", "--yaml")
	assert.ErrorContains(t, err, "not both")
}

func TestShowCmd_Check(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	run := seedFullRun(t, app)

	out, err := executeCmd(t, app, "show", "--all", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "No consistency findings")

	// Drift the flow away from the objectives and save it back.
	run.Plan.Flow[0].ObjectiveID = "TP-42"
	require.NoError(t, app.Workspace.Save(context.Background(), run))

	out, err = executeCmd(t, app, "show", "flow", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "[UNKNOWN_OBJECTIVE]")
}

func TestRunsCmds(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	_, err := executeCmd(t, app, "init", "--subject", "Bahasa Inggris")
	require.NoError(t, err)
	run := latestRun(t, app)

	out, err := executeCmd(t, app, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, run.DisplayID())
	assert.Contains(t, out, "Bahasa Inggris")

	out, err = executeCmd(t, app, "runs", "inspect", run.DisplayID())
	require.NoError(t, err)
	assert.Contains(t, out, "Bahasa Inggris")

	out, err = executeCmd(t, app, "runs", "rm", run.DisplayID())
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted run")

	out, err = executeCmd(t, app, "runs", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved runs")
}

func TestRunsExportImport(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	src := seedFullRun(t, app)

	out, err := executeCmd(t, app, "runs", "export")
	require.NoError(t, err)
	var bundle map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &bundle))
	assert.EqualValues(t, 1, bundle["version"])

	path := filepath.Join(t.TempDir(), "run.yaml")
	out, err = executeCmd(t, app, "runs", "export", src.DisplayID(), "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported run "+src.DisplayID())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "learning_material:")

	out, err = executeCmd(t, app, "runs", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported run")

	imported := latestRun(t, app)
	assert.NotEqual(t, src.ID, imported.ID)
	assert.Equal(t, src.Plan, imported.Plan)
	assert.Equal(t, src.Context, imported.Context)

	runs, err := app.Workspace.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunsImport_InvalidBundle(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"context":{"level":"SD","phase":"A","subject":"","effectiveWeeks":36,"jpPerWeek":4,"approach":"pbl"}}`), 0o644))

	_, err := executeCmd(t, app, "runs", "import", path)
	assert.ErrorContains(t, err, "invalid bundle")
	assert.ErrorContains(t, err, "subject is required")

	runs, err := app.Workspace.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRunFlag_SelectsRun(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	_, err := executeCmd(t, app, "init", "--subject", "Pertama", "--narrative", "CP")
	require.NoError(t, err)
	first := latestRun(t, app)
	_, err = executeCmd(t, app, "init", "--subject", "Kedua")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "objectives", "--run", first.DisplayID())
	require.NoError(t, err)

	got, err := app.Workspace.Resolve(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Len(t, got.Plan.Objectives, 3)
}

func TestViewCmd_PersistsSelectedTab(t *testing.T) {
	app := testApp(t, &fakeGenerator{})
	seedFullRun(t, app)

	_, err := executeCmd(t, app, "view")
	assert.ErrorContains(t, err, "needs a terminal")

	app.IsInteractive = func() bool { return true }
	app.RunProgram = func(m tea.Model) error {
		d := teatest.New(t, m, teatest.WithSize(120, 40))
		d.Press("2", "q")
		assert.True(t, d.Quitting)
		return nil
	}
	_, err = executeCmd(t, app, "view")
	require.NoError(t, err)
	assert.Equal(t, domain.StageFlow, latestRun(t, app).ActiveStage)
}
