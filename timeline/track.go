package timeline

import (
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Built-in fallbacks used when neither the event, the segment nor the track supplies a value.
const (
	DefaultLeaderboard = true
	DefaultCueFontSize = FontSizeNormal
	DefaultCuePulsing  = false
)

// Defaults holds the track-level values that segments and events inherit from.
type Defaults struct {
	Leaderboard   *bool     `json:"leaderboard,omitempty" yaml:"leaderboard,omitempty"`
	LightSettings *string   `json:"lightSettings,omitempty" yaml:"lightSettings,omitempty"`
	CueFontSize   *FontSize `json:"cueFontSize,omitempty" yaml:"cueFontSize,omitempty"`
	CuePulsing    *bool     `json:"cuePulsing,omitempty" yaml:"cuePulsing,omitempty"`
}

// Track is the authored choreography for one piece of music.
type Track struct {
	ID     uuid.UUID `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	Artist string    `json:"artist,omitempty" yaml:"artist,omitempty"`

	// LinkedTrackID points at the track that follows this one in class, if any.
	LinkedTrackID *uuid.UUID `json:"linkedTrackId,omitempty" yaml:"linkedTrackId,omitempty"`

	Defaults Defaults  `json:"defaults" yaml:"defaults"`
	Segments []Segment `json:"segments" yaml:"segments"`
}

// Duration is the end of the last segment by start time, or 0 for an empty track.
func (t *Track) Duration() int {
	segments := t.SortedSegments()
	if len(segments) == 0 {
		return 0
	}
	return segments[len(segments)-1].EndTime
}

// SortedSegments returns a copy of the segments ordered by start time. Segments sharing a start time
// keep their authored order.
func (t *Track) SortedSegments() []Segment {
	out := slices.Clone(t.Segments)
	slices.SortStableFunc(out, func(a, b Segment) bool {
		return a.StartTime < b.StartTime
	})
	return out
}

// Sort orders the segments by start time and every segment's events by offset, in place.
func (t *Track) Sort() {
	t.Segments = t.SortedSegments()
	for i := range t.Segments {
		t.Segments[i].Events = t.Segments[i].SortedEvents()
	}
}

// Ptr returns a pointer to v. It keeps optional fields readable when tracks are built in code.
func Ptr[T any](v T) *T {
	return &v
}
