package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spacebird/cosmicflight/internal/config"
	"github.com/spacebird/cosmicflight/internal/playlist"
	"github.com/spacebird/cosmicflight/internal/render"
	"github.com/spacebird/cosmicflight/internal/space"
	"github.com/spacebird/cosmicflight/internal/util"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.05
	maxListRow = 5
	// panelRows counts the fixed panel lines: now playing, progress, status
	// and help.
	panelRows = 4
	minWidth  = 30
)

// Model is the Bubbletea model: the space flight fills the screen above a
// player panel.
type Model struct {
	scene      *space.Scene
	renderer   *render.Renderer
	controller *playlist.Controller
	display    config.DisplayConfig

	held     *heldKeys
	report   space.Report
	gauge    *speedGauge
	tracks   list.Model
	progress progress.Model
	help     help.Model

	width    int
	height   int
	quitting bool
	now      func() time.Time
	logger   *slog.Logger
}

// New creates a Model. The controller should already hold its tracks.
func New(scene *space.Scene, renderer *render.Renderer, controller *playlist.Controller, display config.DisplayConfig) Model {
	tracks := list.New(trackItems(controller.Tracks()), trackDelegate{controller: controller}, 0, 0)
	tracks.SetShowTitle(false)
	tracks.SetShowStatusBar(false)
	tracks.SetShowHelp(false)
	tracks.SetFilteringEnabled(false)
	tracks.DisableQuitKeybindings()
	tracks.Select(controller.Status().Index)

	gauge := newSpeedGauge(display.FPS)
	return Model{
		scene:      scene,
		renderer:   renderer,
		controller: controller,
		display:    display,
		held:       newHeldKeys(display.HoldWindow, display.RepeatDelay),
		report:     space.Report{Speed: scene.Speed},
		gauge:      &gauge,
		tracks:     tracks,
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:       help.New(),
		now:        time.Now,
		logger:     slog.With("component", "ui"),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.display.FrameInterval()), tea.SetWindowTitle(m.windowTitle()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if f, ok := m.layout().barFraction(msg.X, msg.Y); ok {
				m.logErr(m.controller.SeekFraction(f))
			}
		}
		return m, nil

	case frameMsg:
		m.report = m.scene.Step(m.held.snapshot(time.Time(msg)))
		m.gauge.update(m.report.Speed)

		var cmd tea.Cmd
		select {
		case <-m.controller.Ended():
			m.logErr(m.controller.OnEnded())
			m.syncSelection()
			cmd = tea.SetWindowTitle(m.windowTitle())
		default:
		}
		return m, tea.Batch(frameCmd(m.display.FrameInterval()), cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if isQuit(msg) {
		m.quitting = true
		if err := m.controller.Close(); err != nil {
			m.logger.Error("Failed to close playback", "error", err)
		}
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}

	k := msg.String()
	if isFlightKey(k) {
		m.held.press(k, m.now())
		return m, nil
	}

	titleChanged := false
	switch {
	case key.Matches(msg, keys.Play):
		m.logErr(m.controller.TogglePlay())
		titleChanged = true
	case key.Matches(msg, keys.Next):
		m.logErr(m.controller.Next())
		m.syncSelection()
		titleChanged = true
	case key.Matches(msg, keys.Prev):
		m.logErr(m.controller.Previous())
		m.syncSelection()
		titleChanged = true
	case key.Matches(msg, keys.Select):
		m.logErr(m.controller.Select(m.tracks.Index()))
		titleChanged = true
	case key.Matches(msg, keys.Up):
		m.tracks.CursorUp()
	case key.Matches(msg, keys.Down):
		m.tracks.CursorDown()
	case key.Matches(msg, keys.Like):
		_, err := m.controller.ToggleLike(m.tracks.Index())
		m.logErr(err)
	case key.Matches(msg, keys.VolUp):
		m.controller.AdjustVolume(volumeStep)
	case key.Matches(msg, keys.VolDown):
		m.controller.AdjustVolume(-volumeStep)
	case key.Matches(msg, keys.Mute):
		m.controller.ToggleMute()
	case key.Matches(msg, keys.Back):
		m.logErr(m.controller.Seek(-seekStep))
	case key.Matches(msg, keys.Forward):
		m.logErr(m.controller.Seek(seekStep))
	case key.Matches(msg, keys.Fraction):
		m.logErr(m.controller.SeekFraction(float64(k[0]-'0') / 10))
	}

	if titleChanged {
		return m, tea.SetWindowTitle(m.windowTitle())
	}
	return m, nil
}

// logErr logs a failed playlist operation. The status line shows the
// controller's last load error on its own.
func (m Model) logErr(err error) {
	if err != nil {
		m.logger.Warn("Playlist operation failed", "error", err)
	}
}

func (m *Model) syncSelection() {
	m.tracks.Select(m.controller.Status().Index)
}

// layout places the panel below the scene.
type layout struct {
	width      int
	sceneRows  int
	listRows   int
	barRow     int
	barX       int
	barWidth   int
	timeLabels int
}

func (m Model) layout() layout {
	w := max(m.width, minWidth)
	n := len(m.controller.Tracks())
	listRows := min(max(n, 1), maxListRow)
	if n > maxListRow {
		listRows++ // pagination
	}
	sceneRows := max(m.height-panelRows-listRows, 1)

	labels := len(util.FormatDuration(m.controller.Status().Duration))
	barX := 2 + labels + 1
	return layout{
		width:      w,
		sceneRows:  sceneRows,
		listRows:   listRows,
		barRow:     sceneRows + 1,
		barX:       barX,
		barWidth:   max(w-2*barX, 10),
		timeLabels: labels,
	}
}

// barFraction maps a click to a fraction of the progress bar.
func (l layout) barFraction(x, y int) (float64, bool) {
	if y != l.barRow || x < l.barX || x >= l.barX+l.barWidth {
		return 0, false
	}
	return float64(x-l.barX) / float64(l.barWidth), true
}

func (m *Model) resize() {
	l := m.layout()
	m.renderer.Resize(l.width, l.sceneRows)
	m.scene.Camera.Resize(m.renderer.DotSize())
	m.tracks.SetSize(l.width, l.listRows)
	m.tracks.SetShowPagination(len(m.controller.Tracks()) > maxListRow)
	m.help.Width = l.width
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	l := m.layout()
	st := m.controller.Status()

	var b strings.Builder
	b.WriteString(m.renderer.Draw(m.scene))
	b.WriteString("\n")
	b.WriteString("  " + m.nowPlaying(st) + "\n")

	elapsed := fmt.Sprintf("%*s", l.timeLabels, util.FormatDuration(st.Position))
	total := util.FormatDuration(st.Duration)
	if st.Duration == 0 && st.Track != nil {
		total = st.Track.Duration
	}
	bar := m.progress
	bar.Width = l.barWidth
	b.WriteString("  " + timeStyle.Render(elapsed) + " " + bar.ViewAs(st.Progress()) + " " + timeStyle.Render(total) + "\n")

	b.WriteString("  " + m.statusLine(st, l.width-4) + "\n")
	b.WriteString(m.tracks.View() + "\n")
	b.WriteString("  " + m.help.View(keys))
	return b.String()
}

func (m Model) nowPlaying(st playlist.Status) string {
	header := headerStyle.Render("cosmic flight")
	if st.Track == nil {
		return header + "  " + statusStyle.Render("no tracks")
	}
	byline := st.Track.Artist
	if st.Track.Year != "" {
		byline += " • " + st.Track.Year
	}
	heart := unlikedStyle.Render("♥")
	if st.Liked {
		heart = likedStyle.Render("♥")
	}
	return fmt.Sprintf("%s  %s  %s  %s", header, titleStyle.Render(st.Track.Title), artistStyle.Render(byline), heart)
}

func (m Model) statusLine(st playlist.Status, width int) string {
	icon, text := "❚❚", "paused"
	if st.Playing {
		icon, text = "▶", "playing"
	}
	left := statusStyle.Render(fmt.Sprintf("%s  %s  %s", icon, text, renderVolumePercent(st.Volume, st.Muted)))
	if st.Err != nil {
		left += "  " + errorStyle.Render(st.Err.Error())
	}
	if !m.display.ShowHUD {
		return left
	}
	right := statusStyle.Render(m.gauge.view(m.report))
	return left + spaces(width-lipgloss.Width(left)-lipgloss.Width(right)) + right
}

func (m Model) windowTitle() string {
	st := m.controller.Status()
	if st.Track == nil {
		return "cosmic flight"
	}
	if st.Playing {
		return "▶ " + st.Track.Title + " · cosmic flight"
	}
	return "⏸ " + st.Track.Title + " · cosmic flight"
}
