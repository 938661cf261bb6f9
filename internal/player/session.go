package player

import (
	"sync"
	"time"
)

// Session owns the player for whichever track is currently loaded. Volume
// carries over from one track to the next.
type Session struct {
	mu      sync.Mutex
	current *Player
	volume  float64
	open    func(path string) (*Player, error)
}

// NewSession returns an empty session at full volume.
func NewSession() *Session {
	return &Session{volume: 1, open: New}
}

// Load replaces the current track. The new track starts paused. The previous
// track is released even when the new one fails to open, leaving the session
// empty.
func (s *Session) Load(path string) error {
	p, err := s.open(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Close()
		s.current = nil
	}
	if err != nil {
		return err
	}
	p.SetVolume(s.volume)
	s.current = p
	return nil
}

func (s *Session) player() *Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) Play() {
	if p := s.player(); p != nil {
		p.Play()
	}
}

func (s *Session) Pause() {
	if p := s.player(); p != nil {
		p.Pause()
	}
}

func (s *Session) SetVolume(v float64) {
	s.mu.Lock()
	s.volume = min(max(v, 0), 1)
	p := s.current
	s.mu.Unlock()
	if p != nil {
		p.SetVolume(v)
	}
}

func (s *Session) SeekTo(pos time.Duration) error {
	p := s.player()
	if p == nil {
		return nil
	}
	return p.SeekTo(pos, !p.Paused())
}

func (s *Session) Position() time.Duration {
	if p := s.player(); p != nil {
		return p.Position()
	}
	return 0
}

func (s *Session) Duration() time.Duration {
	if p := s.player(); p != nil {
		return p.Duration()
	}
	return 0
}

// Ended returns a channel closed when the current track finishes. It is nil
// while nothing is loaded.
func (s *Session) Ended() <-chan struct{} {
	if p := s.player(); p != nil {
		return p.Done()
	}
	return nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Close()
		s.current = nil
	}
	return nil
}
