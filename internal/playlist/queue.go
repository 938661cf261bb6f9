package playlist

// Track is a single playlist entry.
type Track struct {
	Title    string
	Artist   string
	Year     string
	File     string
	Duration string // display label, m:ss
	Cover    string
}

// Queue holds the ordered track list and the current position. Navigation
// wraps at both ends.
// It is only mutated from Bubbletea's single-threaded Update loop.
type Queue struct {
	tracks  []Track
	current int
}

// NewQueue creates a Queue from the given tracks.
func NewQueue(tracks []Track) *Queue {
	return &Queue{tracks: tracks}
}

// Current returns a pointer to the current track, or nil if empty.
func (q *Queue) Current() *Track {
	return q.Track(q.current)
}

// Advance moves to the next track, wrapping from the last to the first.
// Returns false if the queue is empty.
func (q *Queue) Advance() bool {
	if len(q.tracks) == 0 {
		return false
	}
	q.current = (q.current + 1) % len(q.tracks)
	return true
}

// Previous moves to the previous track, wrapping from the first to the last.
// Returns false if the queue is empty.
func (q *Queue) Previous() bool {
	if len(q.tracks) == 0 {
		return false
	}
	q.current = (q.current - 1 + len(q.tracks)) % len(q.tracks)
	return true
}

// Len returns the total number of tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// CurrentIndex returns the zero-based index of the current track.
func (q *Queue) CurrentIndex() int {
	return q.current
}

// SetCurrentIndex sets the current track index directly. Out-of-range
// indices are ignored.
func (q *Queue) SetCurrentIndex(i int) bool {
	if i < 0 || i >= len(q.tracks) {
		return false
	}
	q.current = i
	return true
}

// Track returns a pointer to the track at the given index, or nil if out of range.
func (q *Queue) Track(i int) *Track {
	if i < 0 || i >= len(q.tracks) {
		return nil
	}
	return &q.tracks[i]
}

// Tracks returns a copy of the track list.
func (q *Queue) Tracks() []Track {
	out := make([]Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}
