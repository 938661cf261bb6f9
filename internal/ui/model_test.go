package ui

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spacebird/cosmicflight/internal/config"
	"github.com/spacebird/cosmicflight/internal/playlist"
	"github.com/spacebird/cosmicflight/internal/render"
	"github.com/spacebird/cosmicflight/internal/space"
)

type stubMedia struct {
	loaded   []string
	playing  bool
	position time.Duration
	duration time.Duration
	seeks    []time.Duration
	ended    chan struct{}
}

func (s *stubMedia) Load(path string) error {
	s.loaded = append(s.loaded, path)
	s.ended = make(chan struct{})
	s.position = 0
	s.playing = false
	return nil
}
func (s *stubMedia) Play()                   { s.playing = true }
func (s *stubMedia) Pause()                  { s.playing = false }
func (s *stubMedia) SetVolume(float64)       {}
func (s *stubMedia) Position() time.Duration { return s.position }
func (s *stubMedia) Duration() time.Duration { return s.duration }
func (s *stubMedia) Ended() <-chan struct{}  { return s.ended }
func (s *stubMedia) Close() error            { return nil }

func (s *stubMedia) SeekTo(pos time.Duration) error {
	s.seeks = append(s.seeks, pos)
	s.position = pos
	return nil
}

type memKV map[string][]byte

func (kv memKV) Get(key string) ([]byte, bool) {
	v, ok := kv[key]
	return v, ok
}

func (kv memKV) Set(key string, value []byte) error {
	kv[key] = value
	return nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *stubMedia) {
	t.Helper()
	scene := space.New(rand.New(rand.NewSource(1)), space.Config{
		StarLayers:    1,
		StarsPerLayer: 50,
		Nebulae:       1,
		Galaxies:      1,
		GalaxyPoints:  100,
		GalaxyRadius:  50,
	}, nil)

	likes, err := playlist.LoadLikes(memKV{})
	if err != nil {
		t.Fatalf("LoadLikes() error = %v", err)
	}
	media := &stubMedia{duration: 100 * time.Second}
	c := playlist.NewController(media, likes)
	if err := c.Load(playlist.Builtin()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	m := New(scene, render.New(termenv.Ascii, 40, 10), c, config.DisplayConfig{
		FPS:        30,
		HoldWindow: 120 * time.Millisecond,
		ShowHUD:    true,
	})
	m.now = func() time.Time { return testNow }
	m, _ = m.handleMsg(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, media
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHeldKeysExpireAfterWindow(t *testing.T) {
	h := newHeldKeys(120*time.Millisecond, 0)
	h.press("w", testNow)

	if !h.snapshot(testNow.Add(100 * time.Millisecond))["w"] {
		t.Fatal("expected w to be held inside the window")
	}
	if h.snapshot(testNow.Add(200 * time.Millisecond))["w"] {
		t.Fatal("expected w to be released after the window")
	}
	if len(h.last) != 0 {
		t.Fatalf("expected expired keys to be forgotten, got %v", h.last)
	}
}

func TestFirstPressHeldUntilRepeatStarts(t *testing.T) {
	h := newHeldKeys(120*time.Millisecond, 500*time.Millisecond)
	h.press("e", testNow)

	if !h.snapshot(testNow.Add(400 * time.Millisecond))["e"] {
		t.Fatal("expected e to stay held before auto-repeat starts")
	}

	h.press("e", testNow.Add(450*time.Millisecond))
	if !h.snapshot(testNow.Add(550 * time.Millisecond))["e"] {
		t.Fatal("expected e to stay held between repeats")
	}
	if h.snapshot(testNow.Add(600 * time.Millisecond))["e"] {
		t.Fatal("expected e to be released one window after the last repeat")
	}
}

func TestLikeTargetsCursorTrack(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.handleMsg(runeKey("f"))
	if !m.controller.Liked(1) {
		t.Fatal("expected f to like the track under the cursor")
	}
	if m.controller.Liked(0) {
		t.Fatal("current track was liked instead of the selected one")
	}
	if got := m.controller.Status().Index; got != 0 {
		t.Fatalf("liking changed the current track to %d", got)
	}
}

func TestFrameStepsSceneWithHeldKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = m.handleMsg(runeKey("e"))
	next, cmd := m.handleMsg(frameMsg(testNow.Add(10 * time.Millisecond)))
	if cmd == nil {
		t.Fatal("expected next frame to be scheduled")
	}
	if next.report.Frame != 1 {
		t.Fatalf("frame = %d, want 1", next.report.Frame)
	}
	// Speed picks up an occasional random nudge of at most 0.1.
	want := space.InitialSpeed + 0.7
	if diff := math.Abs(next.report.Speed - want); diff > 0.1 {
		t.Fatalf("speed = %v, want about %v", next.report.Speed, want)
	}

	later, _ := next.handleMsg(frameMsg(testNow.Add(time.Second)))
	if diff := math.Abs(later.report.Speed - next.report.Speed); diff > 0.1 {
		t.Fatalf("speed kept accelerating after key release: %v -> %v", next.report.Speed, later.report.Speed)
	}
}

func TestPlaylistKeys(t *testing.T) {
	m, media := newTestModel(t)

	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if !media.playing {
		t.Fatal("expected space to start playback")
	}

	m, cmd := m.handleMsg(runeKey("n"))
	if cmd == nil {
		t.Fatal("expected window title update on track change")
	}
	if got := m.controller.Status().Index; got != 1 {
		t.Fatalf("index after n = %d, want 1", got)
	}
	if m.tracks.Index() != 1 {
		t.Fatalf("list selection = %d, want 1", m.tracks.Index())
	}

	m, _ = m.handleMsg(runeKey("p"))
	m, _ = m.handleMsg(runeKey("p"))
	if got := m.controller.Status().Index; got != 1 {
		t.Fatalf("index after p p = %d, want 1", got)
	}

	m, _ = m.handleMsg(runeKey("f"))
	if !m.controller.Liked(1) {
		t.Fatal("expected f to like the selected track")
	}

	m, _ = m.handleMsg(runeKey("m"))
	if !m.controller.Status().Muted {
		t.Fatal("expected m to mute")
	}
}

func TestEnterPlaysSelectedTrack(t *testing.T) {
	m, media := newTestModel(t)

	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.controller.Status().Index; got != 1 || !media.playing {
		t.Fatalf("index = %d playing = %v, want 1 true", got, media.playing)
	}
}

func TestDigitSeeksToFraction(t *testing.T) {
	m, media := newTestModel(t)
	m.handleMsg(runeKey("5"))
	if len(media.seeks) != 1 || media.seeks[0] != 50*time.Second {
		t.Fatalf("seeks = %v, want [50s]", media.seeks)
	}
}

func TestClickOnProgressBarSeeks(t *testing.T) {
	m, media := newTestModel(t)
	l := m.layout()

	m.handleMsg(tea.MouseMsg{X: l.barX + l.barWidth/2, Y: l.barRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(media.seeks) != 1 {
		t.Fatalf("seeks = %v, want one", media.seeks)
	}
	if got := media.seeks[0]; got < 45*time.Second || got > 55*time.Second {
		t.Fatalf("seek = %v, want about 50s", got)
	}

	m.handleMsg(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(media.seeks) != 1 {
		t.Fatalf("click outside the bar seeked: %v", media.seeks)
	}
}

func TestBarFraction(t *testing.T) {
	l := layout{barRow: 5, barX: 7, barWidth: 20}
	if f, ok := l.barFraction(12, 5); !ok || f != 0.25 {
		t.Fatalf("barFraction() = %v, %v", f, ok)
	}
	for _, p := range [][2]int{{6, 5}, {27, 5}, {12, 4}} {
		if _, ok := l.barFraction(p[0], p[1]); ok {
			t.Fatalf("barFraction(%d, %d) should miss", p[0], p[1])
		}
	}
}

func TestTrackEndAdvancesOnFrame(t *testing.T) {
	m, media := newTestModel(t)
	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	close(media.ended)
	m, _ = m.handleMsg(frameMsg(testNow))
	if got := m.controller.Status().Index; got != 1 {
		t.Fatalf("index after end = %d, want 1", got)
	}
	if !media.playing {
		t.Fatal("expected next track to play")
	}
	if m.tracks.Index() != 1 {
		t.Fatalf("list selection = %d, want 1", m.tracks.Index())
	}
}

func TestViewShowsSceneAndPanel(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()

	for _, want := range []string{"cosmic flight", "Falla samman", "Dancing", "Spacebird • 2025", "vol 80%", "speed", "space play"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	lines := strings.Split(view, "\n")
	if l := m.layout(); len(lines) < l.sceneRows+panelRows {
		t.Fatalf("view has %d lines, want at least %d", len(lines), l.sceneRows+panelRows)
	}
}

func TestViewHidesHUDWhenDisabled(t *testing.T) {
	m, _ := newTestModel(t)
	m.display.ShowHUD = false
	if strings.Contains(m.View(), "LY") {
		t.Fatal("expected HUD readouts to be hidden")
	}
}

func TestQuitClearsView(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.handleMsg(runeKey("q"))
	if cmd == nil || !next.quitting {
		t.Fatal("expected quit command")
	}
	if next.View() != "" {
		t.Fatal("expected empty view after quit")
	}
}
