package formatter

import (
	"strings"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Palette. Colors are named by role so screens stay consistent.
var (
	ColorAccent = lipgloss.Color("#e78a4e")
	ColorOK     = lipgloss.Color("#a9b665")
	ColorWarn   = lipgloss.Color("#d8a657")
	ColorError  = lipgloss.Color("#ea6962")
	ColorID     = lipgloss.Color("#7daea3")
	ColorTag    = lipgloss.Color("#d3869b")
	ColorMuted  = lipgloss.Color("#928374")
	ColorText   = lipgloss.Color("#d4be98")
)

var (
	StyleAccent = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	StyleOK     = lipgloss.NewStyle().Foreground(ColorOK)
	StyleWarn   = lipgloss.NewStyle().Foreground(ColorWarn)
	StyleError  = lipgloss.NewStyle().Foreground(ColorError)
	StyleID     = lipgloss.NewStyle().Foreground(ColorID)
	StyleTag    = lipgloss.NewStyle().Foreground(ColorTag)
	StyleMuted  = lipgloss.NewStyle().Foreground(ColorMuted)
	styleStrong = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
)

// stageGlyphs mark each stage in summaries and headers.
var stageGlyphs = map[domain.Stage]string{
	domain.StageObjectives: "◆",
	domain.StageFlow:       "▸",
	domain.StageAnnual:     "▦",
	domain.StageSemester:   "▤",
}

// Header renders an upper-cased accent title over a muted rule of equal width.
func Header(text string) string {
	title := strings.ToUpper(text)
	rule := StyleMuted.Render(strings.Repeat("─", lipgloss.Width(title)))
	return StyleAccent.Render(title) + "\n" + rule
}

// StageHeader is Header prefixed with the stage glyph.
func StageHeader(stage domain.Stage) string {
	glyph, ok := stageGlyphs[stage]
	if !ok {
		return Header(stage.Label())
	}
	return Header(glyph + " " + stage.Label())
}

func Dim(text string) string  { return StyleMuted.Render(text) }
func Bold(text string) string { return styleStrong.Render(text) }

// Success prefixes text with a green check.
func Success(text string) string { return StyleOK.Render("✔ ") + text }

// Warning prefixes text with a yellow triangle.
func Warning(text string) string { return StyleWarn.Render("▲ ") + text }
