package domain

import (
	"fmt"
	"strings"
)

type EducationLevel string

const (
	LevelPAUD EducationLevel = "PAUD"
	LevelSD   EducationLevel = "SD"
	LevelSMP  EducationLevel = "SMP"
	LevelSMA  EducationLevel = "SMA"
	LevelSMK  EducationLevel = "SMK"
)

// EducationLevels lists the accepted levels in schooling order.
var EducationLevels = []EducationLevel{LevelPAUD, LevelSD, LevelSMP, LevelSMA, LevelSMK}

var educationLevelAliases = map[string]EducationLevel{
	"paud":             LevelPAUD,
	"early-childhood":  LevelPAUD,
	"sd":               LevelSD,
	"elementary":       LevelSD,
	"smp":              LevelSMP,
	"junior-secondary": LevelSMP,
	"sma":              LevelSMA,
	"senior-secondary": LevelSMA,
	"smk":              LevelSMK,
	"vocational":       LevelSMK,
}

// ParseEducationLevel accepts a level code (SD, smp) or its English alias
// (elementary, vocational).
func ParseEducationLevel(s string) (EducationLevel, error) {
	if l, ok := educationLevelAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return "", fmt.Errorf("unknown education level %q (expected one of PAUD, SD, SMP, SMA, SMK)", s)
}

func (l EducationLevel) Valid() bool {
	for _, v := range EducationLevels {
		if v == l {
			return true
		}
	}
	return false
}

type LearningApproach string

const (
	ApproachDeepLearning   LearningApproach = "Deep Learning"
	ApproachProjectBased   LearningApproach = "Project-Based Learning"
	ApproachInquiryBased   LearningApproach = "Inquiry-Based Learning"
	ApproachDifferentiated LearningApproach = "Differentiated Instruction"
)

var LearningApproaches = []LearningApproach{
	ApproachDeepLearning, ApproachProjectBased, ApproachInquiryBased, ApproachDifferentiated,
}

var learningApproachAliases = map[string]LearningApproach{
	"deep-learning":              ApproachDeepLearning,
	"deep learning":              ApproachDeepLearning,
	"pbl":                        ApproachProjectBased,
	"project-based":              ApproachProjectBased,
	"project-based learning":     ApproachProjectBased,
	"ibl":                        ApproachInquiryBased,
	"inquiry-based":              ApproachInquiryBased,
	"inquiry-based learning":     ApproachInquiryBased,
	"differentiated":             ApproachDifferentiated,
	"differentiated instruction": ApproachDifferentiated,
}

// ParseLearningApproach accepts the full label or a short alias (pbl, ibl).
func ParseLearningApproach(s string) (LearningApproach, error) {
	if a, ok := learningApproachAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}
	return "", fmt.Errorf("unknown learning approach %q (expected deep-learning, pbl, ibl or differentiated)", s)
}

func (a LearningApproach) Valid() bool {
	for _, v := range LearningApproaches {
		if v == a {
			return true
		}
	}
	return false
}

// Semester tags a semester-program row with the half of the academic year it
// belongs to.
type Semester int

const (
	SemesterFirst  Semester = 1
	SemesterSecond Semester = 2
)

func (s Semester) Valid() bool {
	return s == SemesterFirst || s == SemesterSecond
}

func (s Semester) String() string {
	return fmt.Sprintf("Semester %d", int(s))
}

// Stage identifies one step of the generation pipeline.
type Stage string

const (
	StageObjectives Stage = "objectives"
	StageFlow       Stage = "flow"
	StageAnnual     Stage = "annual"
	StageSemester   Stage = "semester"
)

// Stages lists the pipeline stages in execution order.
var Stages = []Stage{StageObjectives, StageFlow, StageAnnual, StageSemester}

var stageLabels = map[Stage]string{
	StageObjectives: "Tujuan Pembelajaran (TP)",
	StageFlow:       "Alur Tujuan Pembelajaran (ATP)",
	StageAnnual:     "Program Tahunan (Prota)",
	StageSemester:   "Program Semester (Promes)",
}

// ParseStage accepts the stage name or its Indonesian abbreviation.
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "objectives", "tp":
		return StageObjectives, nil
	case "flow", "atp":
		return StageFlow, nil
	case "annual", "prota":
		return StageAnnual, nil
	case "semester", "promes":
		return StageSemester, nil
	}
	return "", fmt.Errorf("unknown stage %q (expected objectives, flow, annual or semester)", s)
}

func (s Stage) Label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s Stage) index() int {
	for i, v := range Stages {
		if v == s {
			return i
		}
	}
	return -1
}

// Next returns the stage that consumes this stage's output. The final stage
// returns itself and false.
func (s Stage) Next() (Stage, bool) {
	i := s.index()
	if i < 0 || i == len(Stages)-1 {
		return s, false
	}
	return Stages[i+1], true
}

// Downstream returns every stage after s in execution order.
func (s Stage) Downstream() []Stage {
	i := s.index()
	if i < 0 {
		return nil
	}
	out := make([]Stage, len(Stages)-i-1)
	copy(out, Stages[i+1:])
	return out
}
