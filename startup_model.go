package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spacebird/cosmicflight/internal/ui"
)

type startupResolvedMsg struct {
	model ui.Model
}

type startupStatusMsg launchStatus

// startupModel shows launch progress while the scene is generated in the
// background, then hands over to the flight model.
type startupModel struct {
	width    int
	height   int
	spinner  spinner.Model
	progress progress.Model
	status   launchStatus
	statusCh chan launchStatus
	build    func(status func(launchStatus)) ui.Model
}

func newStartupModel(build func(status func(launchStatus)) ui.Model) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#6366F1", "#EC4899"),
		progress.WithoutPercentage(),
	)

	return startupModel{
		spinner:  s,
		progress: p,
		status:   launchStatus{Phase: "Preparing", Percent: 0},
		statusCh: make(chan launchStatus, 16),
		build:    build,
	}
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForStatus(), launchCmd(m.build, m.statusCh))
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-8, 20), 60)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startupStatusMsg:
		m.status = launchStatus(msg)
		return m, m.waitForStatus()

	case startupResolvedMsg:
		cmds := []tea.Cmd{msg.model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return msg.model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	return m, nil
}

func (m startupModel) waitForStatus() tea.Cmd {
	if m.statusCh == nil {
		return nil
	}
	statusCh := m.statusCh
	return func() tea.Msg {
		status, ok := <-statusCh
		if !ok {
			return nil
		}
		return startupStatusMsg(status)
	}
}

func (m startupModel) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("cosmic flight"))
	b.WriteString("\n\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(startupStatusStyle.Render(m.status.Phase + "..."))
	b.WriteString("\n  ")
	b.WriteString(m.progress.ViewAs(m.status.Percent))
	b.WriteString(fmt.Sprintf("  %.0f%%\n", m.status.Percent*100))
	b.WriteString("\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func launchCmd(build func(status func(launchStatus)) ui.Model, statusCh chan launchStatus) tea.Cmd {
	return func() tea.Msg {
		defer close(statusCh)
		model := build(func(status launchStatus) {
			select {
			case statusCh <- status:
			default:
			}
		})
		return startupResolvedMsg{model: model}
	}
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#4338CA", Dark: "#818CF8"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
)
