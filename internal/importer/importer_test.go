package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBundle() *Bundle {
	return &Bundle{
		Version:   BundleVersion,
		Narrative: "Peserta didik memahami bilangan cacah sampai 100.",
		Context: ContextImport{
			Level:          "sd",
			Phase:          "A",
			Subject:        "Matematika",
			AcademicYear:   "2024/2025",
			EffectiveWeeks: 36,
			PeriodsPerWeek: 4,
			Approach:       "pbl",
		},
		ActiveStage: "atp",
		Plan:        testutil.NewTestPlan(3),
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("run.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("RUN.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("run.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("run"))
}

func TestValidateBundle_Valid(t *testing.T) {
	assert.Empty(t, ValidateBundle(validBundle()))
}

func TestValidateBundle_CollectsAllErrors(t *testing.T) {
	b := validBundle()
	b.Version = 7
	b.Context.Level = "college"
	b.ActiveStage = "rpp"
	b.Plan.Objectives[1].ID = b.Plan.Objectives[0].ID
	b.Plan.Objectives[2].Statement = "  "
	b.Plan.Flow[0].DurationPeriods = -2
	b.Plan.Semester[0].Semester = 3

	errs := ValidateBundle(b)
	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	joined := strings.Join(msgs, "\n")

	assert.Len(t, errs, 7)
	assert.Contains(t, joined, "unsupported bundle version 7")
	assert.Contains(t, joined, "context: unknown education level")
	assert.Contains(t, joined, "active_stage: unknown stage")
	assert.Contains(t, joined, `plan.objectives[1].id: duplicate id "TP-1"`)
	assert.Contains(t, joined, "plan.objectives[2].statement is required")
	assert.Contains(t, joined, "plan.flow[0].duration_jp must not be negative")
	assert.Contains(t, joined, "plan.semester[0].semester: must be 1 or 2, got 3")
}

func TestValidateBundle_StageWithoutUpstream(t *testing.T) {
	b := validBundle()
	b.Plan.Flow = nil

	errs := ValidateBundle(b)
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "plan.annual: has records but plan.flow is empty")
}

func TestValidateBundle_InvalidContextValues(t *testing.T) {
	b := validBundle()
	b.Context.EffectiveWeeks = 0
	b.Context.Subject = ""

	errs := ValidateBundle(b)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "subject is required")
	assert.ErrorContains(t, errs[0], "effective weeks must be positive")
}

func TestConvert_NewRun(t *testing.T) {
	b := validBundle()
	b.Plan.Semester = nil

	run, err := Convert(b)
	require.NoError(t, err)

	assert.Len(t, run.ID, 36)
	assert.Equal(t, domain.LevelSD, run.Context.Level)
	assert.Equal(t, domain.ApproachProjectBased, run.Context.Approach)
	assert.Equal(t, domain.StageFlow, run.ActiveStage)
	assert.Equal(t, b.Plan.Objectives, run.Plan.Objectives)
	assert.Contains(t, run.GeneratedAt, domain.StageAnnual)
	assert.NotContains(t, run.GeneratedAt, domain.StageSemester)
	assert.False(t, run.CreatedAt.IsZero())

	// the run owns its records
	run.Plan.Flow[0].CharacterTags[0] = "changed"
	assert.Equal(t, "Bernalar Kritis", b.Plan.Flow[0].CharacterTags[0])
}

func TestConvert_DefaultsActiveStage(t *testing.T) {
	b := validBundle()
	b.ActiveStage = ""
	run, err := Convert(b)
	require.NoError(t, err)
	assert.Equal(t, domain.StageObjectives, run.ActiveStage)
}

func TestExportRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			src := testutil.NewTestRun(
				testutil.WithPlan(testutil.NewTestPlan(4)),
				testutil.WithNarrative("Peserta didik mengenal pecahan."),
				testutil.WithActiveStage(domain.StageSemester),
			)

			var buf bytes.Buffer
			require.NoError(t, WriteBundle(&buf, Export(src), format))

			b, err := ParseBundle(buf.Bytes(), format)
			require.NoError(t, err)
			require.Empty(t, ValidateBundle(b))

			run, err := Convert(b)
			require.NoError(t, err)
			assert.NotEqual(t, src.ID, run.ID)
			assert.Equal(t, src.Narrative, run.Narrative)
			assert.Equal(t, src.Context, run.Context)
			assert.Equal(t, src.Plan, run.Plan)
			assert.Equal(t, domain.StageSemester, run.ActiveStage)
		})
	}
}

func TestParseBundle_RejectsUnknownFields(t *testing.T) {
	_, err := ParseBundle([]byte(`{"version":1,"narative":"typo"}`), FormatJSON)
	assert.ErrorContains(t, err, "parsing bundle")

	_, err = ParseBundle([]byte("version: 1\nnarative: typo\n"), FormatYAML)
	assert.ErrorContains(t, err, "parsing bundle")
}

func TestLoadBundle_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := `version: 1
narrative: Peserta didik membaca teks pendek.
context:
  level: SMP
  phase: D
  subject: Bahasa Indonesia
  academic_year: 2025/2026
  effective_weeks: 34
  jp_per_week: 6
  approach: Deep Learning
plan:
  objectives:
    - id: TP-1
      cp_id: CP-1
      statement: Peserta didik mampu menemukan gagasan utama.
      competency: Membaca
      content: Teks deskripsi
      bloom_level: C3 - Menerapkan
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	b, err := LoadBundle(path)
	require.NoError(t, err)
	require.Empty(t, ValidateBundle(b))

	run, err := Convert(b)
	require.NoError(t, err)
	assert.Equal(t, domain.LevelSMP, run.Context.Level)
	assert.Equal(t, 204, run.Context.AvailablePeriods())
	require.Len(t, run.Plan.Objectives, 1)
	assert.Equal(t, "C3 - Menerapkan", run.Plan.Objectives[0].BloomLevel)
}

func TestLoadBundle_MissingFile(t *testing.T) {
	_, err := LoadBundle(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
