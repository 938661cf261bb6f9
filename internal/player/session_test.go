package player

import (
	"errors"
	"testing"
	"time"
)

func newTestSession(opened *[]*Player) *Session {
	s := NewSession()
	s.open = func(path string) (*Player, error) {
		if path == "missing.mp3" {
			return nil, errors.New("open missing.mp3: no such file")
		}
		p := &Player{
			counter:     &countingReader{},
			decoder:     &stubSeekDecoder{length: 10 * bytesPerSec},
			bytesPerSec: bytesPerSec,
			canSeek:     true,
			duration:    10 * time.Second,
			paused:      true,
			done:        make(chan struct{}),
			stopMon:     make(chan struct{}),
		}
		*opened = append(*opened, p)
		return p, nil
	}
	return s
}

func playing(s *Session) bool {
	p := s.player()
	return p != nil && !p.Paused()
}

func TestSessionEmpty(t *testing.T) {
	s := NewSession()
	s.Play()
	s.Pause()
	if playing(s) || s.Position() != 0 || s.Duration() != 0 || s.Ended() != nil {
		t.Fatal("expected empty session to report nothing loaded")
	}
	if err := s.SeekTo(time.Second); err != nil {
		t.Fatalf("SeekTo() on empty session error = %v", err)
	}
}

func TestSessionLoadClosesPreviousAndKeepsVolume(t *testing.T) {
	var opened []*Player
	s := newTestSession(&opened)
	s.SetVolume(0.4)

	if err := s.Load("one.mp3"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s.Play()
	if !playing(s) {
		t.Fatal("expected session to be playing")
	}
	if err := s.Load("two.mp3"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !opened[0].closed {
		t.Fatal("expected previous player to be closed")
	}
	if playing(s) {
		t.Fatal("expected newly loaded track to start paused")
	}
	if got := opened[1].Volume(); got != 0.4 {
		t.Fatalf("volume = %v, want 0.4", got)
	}
	if s.Duration() != 10*time.Second {
		t.Fatalf("Duration() = %v", s.Duration())
	}
}

func TestSessionLoadFailureReleasesCurrent(t *testing.T) {
	var opened []*Player
	s := newTestSession(&opened)
	if err := s.Load("one.mp3"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s.Play()
	close(opened[0].done)

	if err := s.Load("missing.mp3"); err == nil {
		t.Fatal("expected load error")
	}
	if !opened[0].closed {
		t.Fatal("expected previous player to be closed after a failed load")
	}
	if playing(s) {
		t.Fatal("expected nothing to play after a failed load")
	}
	if s.Ended() != nil {
		t.Fatal("expected no end-of-track channel after a failed load")
	}
}

func TestSessionSeekTo(t *testing.T) {
	var opened []*Player
	s := newTestSession(&opened)
	if err := s.Load("one.mp3"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := s.SeekTo(3 * time.Second); err != nil {
		t.Fatalf("SeekTo() error = %v", err)
	}
	if got := s.Position(); got != 3*time.Second {
		t.Fatalf("Position() = %v, want 3s", got)
	}
	if playing(s) {
		t.Fatal("seek on a paused track should stay paused")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !opened[0].closed {
		t.Fatal("expected Close to release the player")
	}
}
