package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/kurikula/internal/cli/formatter"
	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// kurikulaHuhTheme returns a huh theme using the formatter palette.
func kurikulaHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorAccent).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorAccent)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorOK)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorText)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorText).Background(formatter.ColorAccent).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorMuted).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorAccent)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorAccent)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorText)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorMuted)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorMuted)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorMuted)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorMuted)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorMuted)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorMuted)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorMuted)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorMuted)

	return t
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive whole number")
	}
	return nil
}

// contextFormValues holds the string-typed form fields before they are
// converted back into a context.
type contextFormValues struct {
	level     domain.EducationLevel
	phase     string
	subject   string
	year      string
	weeks     string
	periods   string
	approach  domain.LearningApproach
	narrative string
}

func newContextFormValues(cc domain.CurriculumContext, narrative string) *contextFormValues {
	return &contextFormValues{
		level:     cc.Level,
		phase:     cc.Phase,
		subject:   cc.Subject,
		year:      cc.AcademicYear,
		weeks:     strconv.Itoa(cc.EffectiveWeeks),
		periods:   strconv.Itoa(cc.PeriodsPerWeek),
		approach:  cc.Approach,
		narrative: narrative,
	}
}

// apply converts the form values into a context and narrative.
func (v *contextFormValues) apply() (domain.CurriculumContext, string, error) {
	weeks, err := strconv.Atoi(strings.TrimSpace(v.weeks))
	if err != nil {
		return domain.CurriculumContext{}, "", fmt.Errorf("effective weeks: %w", err)
	}
	periods, err := strconv.Atoi(strings.TrimSpace(v.periods))
	if err != nil {
		return domain.CurriculumContext{}, "", fmt.Errorf("periods per week: %w", err)
	}
	cc := domain.CurriculumContext{
		Level:          v.level,
		Phase:          strings.TrimSpace(v.phase),
		Subject:        strings.TrimSpace(v.subject),
		AcademicYear:   strings.TrimSpace(v.year),
		EffectiveWeeks: weeks,
		PeriodsPerWeek: periods,
		Approach:       v.approach,
	}
	return cc, strings.TrimSpace(v.narrative), cc.Validate()
}

// contextForm builds the interactive planning form bound to v.
func contextForm(v *contextFormValues) *huh.Form {
	levels := make([]huh.Option[domain.EducationLevel], 0, len(domain.EducationLevels))
	for _, l := range domain.EducationLevels {
		levels = append(levels, huh.NewOption(string(l), l))
	}
	approaches := make([]huh.Option[domain.LearningApproach], 0, len(domain.LearningApproaches))
	for _, a := range domain.LearningApproaches {
		approaches = append(approaches, huh.NewOption(string(a), a))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.EducationLevel]().
				Title("Education level").
				Options(levels...).
				Value(&v.level),
			huh.NewInput().Title("Phase").Placeholder("A").Value(&v.phase).Validate(validateRequired),
			huh.NewInput().Title("Subject").Placeholder("Matematika").Value(&v.subject).Validate(validateRequired),
			huh.NewInput().Title("Academic year").Placeholder("2024/2025").Value(&v.year),
		),
		huh.NewGroup(
			huh.NewInput().Title("Effective weeks").Placeholder("36").Value(&v.weeks).Validate(validatePositiveInt),
			huh.NewInput().Title("JP per week").Placeholder("4").Value(&v.periods).Validate(validatePositiveInt),
			huh.NewSelect[domain.LearningApproach]().
				Title("Learning approach").
				Options(approaches...).
				Value(&v.approach),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Learning-outcome narrative (CP)").
				Description("Leave blank to supply it later with 'kurikula objectives --narrative'.").
				Value(&v.narrative),
		),
	).WithTheme(kurikulaHuhTheme()).WithShowHelp(false)
}
