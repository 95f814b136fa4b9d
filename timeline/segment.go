package timeline

import (
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Segment is a block of the timeline, [StartTime, EndTime) in whole seconds, carrying the concrete
// values shown while it is active.
//
// The value fields (Label, RPMRange, Position, PowerShift) are always present. Every pointer field is
// optional; a nil pointer means the value is inherited from the track or, for Resistance, that the
// rider stays at base resistance.
type Segment struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Label     string    `json:"label" yaml:"label"`
	StartTime int       `json:"startTime" yaml:"startTime"`
	EndTime   int       `json:"endTime" yaml:"endTime"`

	RPMRange   string     `json:"rpmRange" yaml:"rpmRange"`
	Position   Position   `json:"position" yaml:"position"`
	PowerShift PowerShift `json:"powerShift" yaml:"powerShift"`
	Resistance *float64   `json:"resistance,omitempty" yaml:"resistance,omitempty"`
	Cue        *string    `json:"cue,omitempty" yaml:"cue,omitempty"`

	// track-level overrides
	Leaderboard   *bool     `json:"leaderboard,omitempty" yaml:"leaderboard,omitempty"`
	LightSettings *string   `json:"lightSettings,omitempty" yaml:"lightSettings,omitempty"`
	CueFontSize   *FontSize `json:"cueFontSize,omitempty" yaml:"cueFontSize,omitempty"`
	CuePulsing    *bool     `json:"cuePulsing,omitempty" yaml:"cuePulsing,omitempty"`

	Events []Event `json:"events,omitempty" yaml:"events,omitempty"`
}

// Duration returns EndTime - StartTime.
func (s *Segment) Duration() int {
	return s.EndTime - s.StartTime
}

// SortedEvents returns a copy of the events ordered by offset.
func (s *Segment) SortedEvents() []Event {
	out := slices.Clone(s.Events)
	slices.SortStableFunc(out, func(a, b Event) bool {
		return a.Offset < b.Offset
	})
	return out
}

// SameAs reports whether s and other are the same authored segment. Segments without an ID are
// compared by their time window.
func (s *Segment) SameAs(other *Segment) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.ID != uuid.Nil || other.ID != uuid.Nil {
		return s.ID == other.ID
	}
	return s.StartTime == other.StartTime && s.EndTime == other.EndTime
}

// Event is a timestamped override firing Offset seconds into its segment. Every field other than
// Offset is optional and replaces the segment's value while the event is active.
type Event struct {
	ID     uuid.UUID `json:"id" yaml:"id"`
	Offset int       `json:"offset" yaml:"offset"`

	Cue           *string     `json:"cue,omitempty" yaml:"cue,omitempty"`
	RPMRange      *string     `json:"rpmRange,omitempty" yaml:"rpmRange,omitempty"`
	Position      *Position   `json:"position,omitempty" yaml:"position,omitempty"`
	Resistance    *float64    `json:"resistance,omitempty" yaml:"resistance,omitempty"`
	PowerShift    *PowerShift `json:"powerShift,omitempty" yaml:"powerShift,omitempty"`
	Leaderboard   *bool       `json:"leaderboard,omitempty" yaml:"leaderboard,omitempty"`
	LightSettings *string     `json:"lightSettings,omitempty" yaml:"lightSettings,omitempty"`
	CueFontSize   *FontSize   `json:"cueFontSize,omitempty" yaml:"cueFontSize,omitempty"`
	CuePulsing    *bool       `json:"cuePulsing,omitempty" yaml:"cuePulsing,omitempty"`
}
