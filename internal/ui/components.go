package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spacebird/cosmicflight/internal/playlist"
)

// trackItem adapts a playlist track to the list component.
type trackItem struct {
	index int
	track playlist.Track
}

func (t trackItem) FilterValue() string { return t.track.Title }

func trackItems(tracks []playlist.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{index: i, track: t}
	}
	return items
}

// trackDelegate renders one card line per track, reading play and like state
// from the controller.
type trackDelegate struct {
	controller *playlist.Controller
}

func (d trackDelegate) Height() int                             { return 1 }
func (d trackDelegate) Spacing() int                            { return 0 }
func (d trackDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d trackDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(trackItem)
	if !ok {
		return
	}
	st := d.controller.Status()
	fmt.Fprint(w, renderTrackCard(ti, st.Index == ti.index && st.Playing, d.controller.Liked(ti.index), index == m.Index(), m.Width()))
}

func renderTrackCard(ti trackItem, playing, liked, selected bool, width int) string {
	icon := "▶"
	if playing {
		icon = "❚❚"
	}
	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(badgeColors[ti.index%len(badgeColors)]).
		Render(fmt.Sprintf(" %-2s ", icon))

	heart := unlikedStyle.Render("♥")
	if liked {
		heart = likedStyle.Render("♥")
	}

	byline := ti.track.Artist
	if ti.track.Year != "" {
		byline += " • " + ti.track.Year
	}

	left := fmt.Sprintf("%s %s  %s", badge, titleStyle.Render(ti.track.Title), artistStyle.Render(byline))
	right := fmt.Sprintf("%s  %s", timeStyle.Render(ti.track.Duration), heart)

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	inner := max(width-style.GetHorizontalFrameSize(), 0)
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return style.Render(left + spaces(gap) + right)
}

func renderVolumePercent(vol float64, muted bool) string {
	if muted {
		return "vol muted"
	}
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%*s", n, "")
}
