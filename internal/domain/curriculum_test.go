package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContext_IsValid(t *testing.T) {
	ctx := DefaultContext()
	require.NoError(t, ctx.Validate())
	assert.Equal(t, 144, ctx.AvailablePeriods())
}

func TestCurriculumContext_ValidateReportsAllProblems(t *testing.T) {
	ctx := CurriculumContext{
		Level:          "SLTA",
		Phase:          " ",
		EffectiveWeeks: 0,
		PeriodsPerWeek: -2,
		Approach:       "Lecture",
	}
	err := ctx.Validate()
	require.Error(t, err)
	for _, want := range []string{"level", "phase", "subject", "effective weeks", "periods per week", "approach"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestParseEducationLevel(t *testing.T) {
	cases := map[string]EducationLevel{
		"SD":               LevelSD,
		"sd":               LevelSD,
		"elementary":       LevelSD,
		"junior-secondary": LevelSMP,
		" SMK ":            LevelSMK,
		"early-childhood":  LevelPAUD,
	}
	for in, want := range cases {
		got, err := ParseEducationLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseEducationLevel("college")
	assert.Error(t, err)
}

func TestParseLearningApproach(t *testing.T) {
	got, err := ParseLearningApproach("pbl")
	require.NoError(t, err)
	assert.Equal(t, ApproachProjectBased, got)

	got, err = ParseLearningApproach("Deep Learning")
	require.NoError(t, err)
	assert.Equal(t, ApproachDeepLearning, got)

	_, err = ParseLearningApproach("rote")
	assert.Error(t, err)
}

func TestStage_NextAndDownstream(t *testing.T) {
	next, ok := StageObjectives.Next()
	assert.True(t, ok)
	assert.Equal(t, StageFlow, next)

	_, ok = StageSemester.Next()
	assert.False(t, ok)

	assert.Equal(t, []Stage{StageAnnual, StageSemester}, StageFlow.Downstream())
	assert.Empty(t, StageSemester.Downstream())
	assert.Nil(t, Stage("bogus").Downstream())
}

func TestParseStage_Aliases(t *testing.T) {
	s, err := ParseStage("Prota")
	require.NoError(t, err)
	assert.Equal(t, StageAnnual, s)

	_, err = ParseStage("weekly")
	assert.Error(t, err)
}

func TestPartitionBySemester_PreservesOrder(t *testing.T) {
	items := []SemesterProgramItem{
		{No: 1, Semester: SemesterFirst},
		{No: 2, Semester: SemesterSecond},
		{No: 3, Semester: SemesterFirst},
		{No: 4, Semester: SemesterSecond},
	}
	first, second := PartitionBySemester(items)
	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, 1, first[0].No)
	assert.Equal(t, 3, first[1].No)
	assert.Equal(t, len(items), len(first)+len(second))
}

func TestPlan_CloneIsDeep(t *testing.T) {
	p := Plan{Flow: []FlowItem{{ID: "ATP1", CharacterTags: []string{"Mandiri"}}}}
	c := p.Clone()
	c.Flow[0].CharacterTags[0] = "Gotong Royong"
	assert.Equal(t, "Mandiri", p.Flow[0].CharacterTags[0])
}

func TestPlan_ClearAndLen(t *testing.T) {
	p := Plan{Objectives: []Objective{{ID: "TP1"}, {ID: "TP2"}}, Annual: []AnnualProgramItem{{No: 1}}}
	assert.Equal(t, 2, p.Len(StageObjectives))
	p.Clear(StageObjectives)
	assert.Equal(t, 0, p.Len(StageObjectives))
	assert.Equal(t, 1, p.Len(StageAnnual))
}
