package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kurikula/internal/cli/formatter"
	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type stageViewerKeyMap struct {
	Next key.Binding
	Prev key.Binding
	Jump key.Binding
	Quit key.Binding
}

func newStageViewerKeyMap() stageViewerKeyMap {
	return stageViewerKeyMap{
		Next: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "next stage")),
		Prev: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "previous stage")),
		Jump: key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "jump")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// stageViewKeyMap scrolls with arrows and pages only; letter keys stay free
// for tab switching.
func stageViewKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown", " ")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
	}
}

var (
	tabActiveStyle = lipgloss.NewStyle().
			Foreground(formatter.ColorAccent).
			Bold(true).
			Underline(true).
			Padding(0, 1)
	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(formatter.ColorMuted).
				Padding(0, 1)
)

// stageViewer is a bubbletea model showing one stage table per tab.
type stageViewer struct {
	run    *domain.Run
	active int
	keys   stageViewerKeyMap
	vp     viewport.Model
	ready  bool
}

func newStageViewer(run *domain.Run) *stageViewer {
	active := 0
	for i, s := range domain.Stages {
		if s == run.ActiveStage {
			active = i
		}
	}
	vp := viewport.New(0, 0)
	vp.KeyMap = stageViewKeyMap()
	vp.MouseWheelEnabled = true
	return &stageViewer{
		run:    run,
		active: active,
		keys:   newStageViewerKeyMap(),
		vp:     vp,
	}
}

// Stage returns the stage currently displayed.
func (m *stageViewer) Stage() domain.Stage {
	return domain.Stages[m.active]
}

func (m *stageViewer) Init() tea.Cmd { return nil }

func (m *stageViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-lipgloss.Height(m.tabsView())-lipgloss.Height(m.footerView()), 1)
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.selectTab((m.active + 1) % len(domain.Stages))
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.selectTab((m.active + len(domain.Stages) - 1) % len(domain.Stages))
			return m, nil
		case key.Matches(msg, m.keys.Jump):
			m.selectTab(int(msg.String()[0] - '1'))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *stageViewer) selectTab(i int) {
	if i < 0 || i >= len(domain.Stages) || i == m.active {
		return
	}
	m.active = i
	m.refresh()
}

func (m *stageViewer) refresh() {
	m.vp.SetContent(formatter.FormatStage(m.Stage(), m.run.Plan, m.run.Context))
	m.vp.GotoTop()
}

func (m *stageViewer) tabsView() string {
	tabs := make([]string, 0, len(domain.Stages))
	for i, s := range domain.Stages {
		label := fmt.Sprintf("%d %s", i+1, strings.ToUpper(shortStageName(s)))
		if n := m.run.Plan.Len(s); n > 0 {
			label += fmt.Sprintf(" (%d)", n)
		}
		if i == m.active {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m *stageViewer) footerView() string {
	bindings := []key.Binding{m.keys.Prev, m.keys.Next, m.keys.Jump, m.keys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return formatter.Dim(fmt.Sprintf("run %s · %s", m.run.DisplayID(), strings.Join(parts, " · ")))
}

func (m *stageViewer) View() string {
	if !m.ready {
		return "Loading…"
	}
	return m.tabsView() + m.vp.View() + "\n" + m.footerView()
}

// shortStageName returns the Indonesian abbreviation used on the tabs.
func shortStageName(s domain.Stage) string {
	switch s {
	case domain.StageObjectives:
		return "tp"
	case domain.StageFlow:
		return "atp"
	case domain.StageAnnual:
		return "prota"
	case domain.StageSemester:
		return "promes"
	}
	return string(s)
}
