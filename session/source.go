package session

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// TimeSource reports the playback position of the music player.
type TimeSource interface {
	// Position returns the current position in seconds and whether playback is running.
	Position() (seconds float64, playing bool)
}

// SimulatedSource is a local playback clock used when no external player is connected.
type SimulatedSource struct {
	mu        sync.Mutex
	clock     clock.PassiveClock
	base      float64
	startedAt time.Time
	playing   bool
}

// NewSimulatedSource returns a paused source at position 0.
func NewSimulatedSource(c clock.PassiveClock) *SimulatedSource {
	return &SimulatedSource{clock: c}
}

// Position implements TimeSource.
func (s *SimulatedSource) Position() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked(), s.playing
}

func (s *SimulatedSource) positionLocked() float64 {
	if !s.playing {
		return s.base
	}
	return s.base + s.clock.Since(s.startedAt).Seconds()
}

// Play starts or resumes playback.
func (s *SimulatedSource) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		return
	}
	s.startedAt = s.clock.Now()
	s.playing = true
}

// Pause freezes the position.
func (s *SimulatedSource) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return
	}
	s.base = s.positionLocked()
	s.playing = false
}

// Seek moves to seconds without changing the play state.
func (s *SimulatedSource) Seek(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = seconds
	s.startedAt = s.clock.Now()
}
