package playlist

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrEmpty is returned by operations that need a current track when the
// playlist has none.
var ErrEmpty = errors.New("playlist is empty")

// DefaultVolume is the volume a new controller starts at.
const DefaultVolume = 0.8

// Media is the playback element a Controller drives. Load leaves the new
// track paused.
type Media interface {
	Load(path string) error
	Play()
	Pause()
	SetVolume(v float64)
	SeekTo(pos time.Duration) error
	Position() time.Duration
	Duration() time.Duration
	Ended() <-chan struct{}
	Close() error
}

// Status is a snapshot of the controller for display.
type Status struct {
	Index    int
	Track    *Track
	Playing  bool
	Liked    bool
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
	Err      error
}

// Progress returns the played fraction of the current track.
func (s Status) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return min(max(float64(s.Position)/float64(s.Duration), 0), 1)
}

// Controller keeps the track list, the current selection, the play state and
// the liked set in step with a Media element.
type Controller struct {
	queue   *Queue
	likes   *LikeStore
	media   Media
	logger  *slog.Logger
	playing bool
	volume  float64
	muted   bool
	lastErr error
}

// NewController returns a controller with an empty track list.
func NewController(media Media, likes *LikeStore) *Controller {
	c := &Controller{
		queue:  NewQueue(nil),
		likes:  likes,
		media:  media,
		logger: slog.With("component", "playlist"),
		volume: DefaultVolume,
	}
	media.SetVolume(c.volume)
	return c
}

// Load replaces the track list and cues the first track without playing it.
func (c *Controller) Load(tracks []Track) error {
	if c.playing {
		c.media.Pause()
		c.playing = false
	}
	c.queue = NewQueue(tracks)
	c.logger.Info("Tracks loaded", "count", len(tracks))
	if len(tracks) == 0 {
		return nil
	}
	return c.cue(0)
}

// cue makes track i current and loads it into the media element.
func (c *Controller) cue(i int) error {
	if !c.queue.SetCurrentIndex(i) {
		return fmt.Errorf("track %d out of range [0,%d)", i, c.queue.Len())
	}
	track := c.queue.Current()
	if err := c.media.Load(track.File); err != nil {
		c.lastErr = fmt.Errorf("loading %q: %w", track.Title, err)
		c.pause()
		c.logger.Error("Failed to load track", "index", i, "file", track.File, "error", err)
		return c.lastErr
	}
	c.lastErr = nil
	c.logger.Debug("Track cued", "index", i, "title", track.Title)
	return nil
}

func (c *Controller) play() {
	if c.lastErr != nil {
		return
	}
	c.media.Play()
	c.playing = true
}

func (c *Controller) pause() {
	c.media.Pause()
	c.playing = false
}

// Select makes track i current and plays it. Selecting the current track
// toggles play/pause instead.
func (c *Controller) Select(i int) error {
	if c.queue.Len() == 0 {
		return ErrEmpty
	}
	if i == c.queue.CurrentIndex() && c.lastErr == nil {
		return c.TogglePlay()
	}
	if err := c.cue(i); err != nil {
		return err
	}
	c.play()
	return nil
}

// TogglePlay pauses a playing track or resumes a paused one.
func (c *Controller) TogglePlay() error {
	if c.queue.Len() == 0 {
		return ErrEmpty
	}
	if c.playing {
		c.pause()
	} else {
		c.play()
	}
	return nil
}

// Next advances to the following track, wrapping to the first, and plays it.
func (c *Controller) Next() error {
	if !c.queue.Advance() {
		return ErrEmpty
	}
	if err := c.cue(c.queue.CurrentIndex()); err != nil {
		return err
	}
	c.play()
	return nil
}

// Previous steps back to the preceding track, wrapping to the last, and plays it.
func (c *Controller) Previous() error {
	if !c.queue.Previous() {
		return ErrEmpty
	}
	if err := c.cue(c.queue.CurrentIndex()); err != nil {
		return err
	}
	c.play()
	return nil
}

// OnEnded handles the end of the current track by advancing to the next one.
func (c *Controller) OnEnded() error {
	c.logger.Debug("Track ended", "index", c.queue.CurrentIndex())
	return c.Next()
}

// Ended returns the current track's end-of-playback channel.
func (c *Controller) Ended() <-chan struct{} {
	return c.media.Ended()
}

// ToggleLike flips and persists the liked state of track i.
func (c *Controller) ToggleLike(i int) (bool, error) {
	if c.queue.Track(i) == nil {
		return false, fmt.Errorf("track %d out of range [0,%d)", i, c.queue.Len())
	}
	liked, err := c.likes.Toggle(i)
	if err != nil {
		return liked, err
	}
	c.logger.Debug("Like toggled", "index", i, "liked", liked)
	return liked, nil
}

// Liked reports whether track i is liked.
func (c *Controller) Liked(i int) bool {
	return c.likes.Liked(i)
}

// Volume returns the effective output volume; zero while muted.
func (c *Controller) Volume() float64 {
	if c.muted {
		return 0
	}
	return c.volume
}

// SetVolume sets the volume (clamped to 0.0 - 1.0). A non-zero volume unmutes.
func (c *Controller) SetVolume(v float64) {
	c.volume = min(max(v, 0), 1)
	if c.volume > 0 {
		c.muted = false
	}
	c.media.SetVolume(c.Volume())
}

// AdjustVolume changes the volume by delta.
func (c *Controller) AdjustVolume(delta float64) {
	c.SetVolume(c.volume + delta)
}

// ToggleMute silences output or restores the previous volume.
func (c *Controller) ToggleMute() {
	c.muted = !c.muted
	c.media.SetVolume(c.Volume())
}

// SeekFraction moves playback to fraction f (0.0 - 1.0) of the current track.
// It does nothing until the duration is known.
func (c *Controller) SeekFraction(f float64) error {
	if c.queue.Len() == 0 {
		return ErrEmpty
	}
	d := c.media.Duration()
	if d <= 0 {
		return nil
	}
	f = min(max(f, 0), 1)
	return c.media.SeekTo(time.Duration(f * float64(d)))
}

// Seek moves playback by delta from the current position.
func (c *Controller) Seek(delta time.Duration) error {
	if c.queue.Len() == 0 {
		return ErrEmpty
	}
	pos := c.media.Position() + delta
	return c.media.SeekTo(min(max(pos, 0), c.media.Duration()))
}

// Tracks returns the loaded track list.
func (c *Controller) Tracks() []Track {
	return c.queue.Tracks()
}

// Status reports the current state.
func (c *Controller) Status() Status {
	s := Status{
		Index:   c.queue.CurrentIndex(),
		Track:   c.queue.Current(),
		Playing: c.playing,
		Volume:  c.Volume(),
		Muted:   c.muted,
		Err:     c.lastErr,
	}
	if s.Track == nil {
		return s
	}
	s.Liked = c.likes.Liked(s.Index)
	s.Position = c.media.Position()
	s.Duration = c.media.Duration()
	return s
}

// Close releases the media element.
func (c *Controller) Close() error {
	c.playing = false
	return c.media.Close()
}
