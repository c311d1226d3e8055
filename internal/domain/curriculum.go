package domain

import (
	"errors"
	"fmt"
	"strings"
)

// CurriculumContext describes the class being planned. Every stage reads it.
type CurriculumContext struct {
	Level          EducationLevel   `json:"level" yaml:"level"`
	Phase          string           `json:"phase" yaml:"phase"`
	Subject        string           `json:"subject" yaml:"subject"`
	AcademicYear   string           `json:"academicYear" yaml:"academic_year"`
	EffectiveWeeks int              `json:"effectiveWeeks" yaml:"effective_weeks"`
	PeriodsPerWeek int              `json:"jpPerWeek" yaml:"jp_per_week"`
	Approach       LearningApproach `json:"approach" yaml:"approach"`
}

// DefaultContext returns the values the planning form starts with.
func DefaultContext() CurriculumContext {
	return CurriculumContext{
		Level:          LevelSD,
		Phase:          "A",
		Subject:        "Matematika",
		AcademicYear:   "2024/2025",
		EffectiveWeeks: 36,
		PeriodsPerWeek: 4,
		Approach:       ApproachDeepLearning,
	}
}

// AvailablePeriods is the number of lesson periods (JP) in the academic year.
func (c CurriculumContext) AvailablePeriods() int {
	return c.EffectiveWeeks * c.PeriodsPerWeek
}

// Validate reports every problem with the context at once.
func (c CurriculumContext) Validate() error {
	var errs []error
	if !c.Level.Valid() {
		errs = append(errs, fmt.Errorf("level: invalid value %q", c.Level))
	}
	if strings.TrimSpace(c.Phase) == "" {
		errs = append(errs, fmt.Errorf("phase is required"))
	}
	if strings.TrimSpace(c.Subject) == "" {
		errs = append(errs, fmt.Errorf("subject is required"))
	}
	if c.EffectiveWeeks <= 0 {
		errs = append(errs, fmt.Errorf("effective weeks must be positive, got %d", c.EffectiveWeeks))
	}
	if c.PeriodsPerWeek <= 0 {
		errs = append(errs, fmt.Errorf("periods per week must be positive, got %d", c.PeriodsPerWeek))
	}
	if !c.Approach.Valid() {
		errs = append(errs, fmt.Errorf("approach: invalid value %q", c.Approach))
	}
	return errors.Join(errs...)
}
