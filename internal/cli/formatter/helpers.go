package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const shortIDLen = 8

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorMuted).
	Padding(1, 2)

// RenderBox frames content in a rounded border. A non-empty title is shown
// upper-cased above the content.
func RenderBox(title, content string) string {
	if title == "" {
		return boxStyle.Render(content)
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		StyleAccent.Render(strings.ToUpper(title)),
		"",
		content,
	))
}

// HumanDate names today and yesterday, and prints other days as "Jan 2, 2006".
func HumanDate(t time.Time) string {
	day := func(v time.Time) time.Time {
		y, m, d := v.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	switch day(time.Now()).Sub(day(t)) {
	case 0:
		return "Today"
	case 24 * time.Hour:
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp prints recent times relative to now and older ones via
// HumanDate. The zero time prints as "--".
func HumanTimestamp(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	age := time.Since(t)
	switch {
	case age < 0 || age >= 24*time.Hour:
		return HumanDate(t)
	case age < time.Minute:
		return "Just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age/time.Minute))
	}
	return fmt.Sprintf("%dh ago", int(age/time.Hour))
}

// TruncID shortens a run UUID to its first segment, dimmed.
func TruncID(id string) string {
	if len(id) > shortIDLen {
		id = id[:shortIDLen]
	}
	return Dim(id)
}

// Truncate collapses whitespace in s and cuts it to n runes, marking the cut
// with an ellipsis. n <= 0 disables the limit.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// FormatJP prints lesson periods: 4 JP, 2.5 JP.
func FormatJP(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " JP"
}

// OrDash substitutes a dim "--" for blank values.
func OrDash(s string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return Dim("--")
}
