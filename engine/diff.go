package engine

import (
	"time"

	"github.com/robmorgan/cadence/timeline"
)

// DefaultHighlightCap is the longest a transition highlight pulses for.
const DefaultHighlightCap = 10 * time.Second

// Baselines used when the segment leaves an attribute absent.
const (
	baselineResistance    = 0.0
	baselineLightSettings = ""
)

// UpcomingDiff describes what an imminent in-segment event is about to change, compared with its own
// segment. Only the overrides of flagged fields are set.
type UpcomingDiff struct {
	Fields FieldSet `json:"fields"`

	Cue           *string              `json:"cue,omitempty"`
	RPMRange      *string              `json:"rpmRange,omitempty"`
	Position      *timeline.Position   `json:"position,omitempty"`
	Resistance    *float64             `json:"resistance,omitempty"`
	PowerShift    *timeline.PowerShift `json:"powerShift,omitempty"`
	Leaderboard   *bool                `json:"leaderboard,omitempty"`
	LightSettings *string              `json:"lightSettings,omitempty"`
	CueFontSize   *timeline.FontSize   `json:"cueFontSize,omitempty"`
	CuePulsing    *bool                `json:"cuePulsing,omitempty"`
}

// HasChanges reports whether the event changes anything worth previewing.
func (d UpcomingDiff) HasChanges() bool {
	return !d.Fields.Empty()
}

// UpcomingChanges compares an event's overrides with the segment it belongs to. A field is flagged when
// the event overrides it with a different value; cue is flagged whenever the event carries one. A nil
// event yields an empty diff.
func UpcomingChanges(seg *timeline.Segment, ev *timeline.Event) UpcomingDiff {
	var d UpcomingDiff
	if seg == nil || ev == nil {
		return d
	}

	if ev.Cue != nil {
		d.Cue = ev.Cue
		d.Fields = d.Fields.With(FieldCue)
	}
	if differs(ev.RPMRange, seg.RPMRange) {
		d.RPMRange = ev.RPMRange
		d.Fields = d.Fields.With(FieldRPMRange)
	}
	if differs(ev.Position, seg.Position) {
		d.Position = ev.Position
		d.Fields = d.Fields.With(FieldPosition)
	}
	if differs(ev.Resistance, firstOr(baselineResistance, seg.Resistance)) {
		d.Resistance = ev.Resistance
		d.Fields = d.Fields.With(FieldResistance)
	}
	if differs(ev.PowerShift, seg.PowerShift) {
		d.PowerShift = ev.PowerShift
		d.Fields = d.Fields.With(FieldPowerShift)
	}
	if differs(ev.Leaderboard, firstOr(timeline.DefaultLeaderboard, seg.Leaderboard)) {
		d.Leaderboard = ev.Leaderboard
		d.Fields = d.Fields.With(FieldLeaderboard)
	}
	if differs(ev.LightSettings, firstOr(baselineLightSettings, seg.LightSettings)) {
		d.LightSettings = ev.LightSettings
		d.Fields = d.Fields.With(FieldLightSettings)
	}
	if differs(ev.CueFontSize, firstOr(timeline.DefaultCueFontSize, seg.CueFontSize)) {
		d.CueFontSize = ev.CueFontSize
		d.Fields = d.Fields.With(FieldCueFontSize)
	}
	if differs(ev.CuePulsing, firstOr(timeline.DefaultCuePulsing, seg.CuePulsing)) {
		d.CuePulsing = ev.CuePulsing
		d.Fields = d.Fields.With(FieldCuePulsing)
	}

	return d
}

func differs[T comparable](override *T, baseline T) bool {
	return override != nil && *override != baseline
}

// TransitionChanges lists the attributes that differ between the effective state of the outgoing
// segment and that of the incoming one. Cue is never part of a transition.
func TransitionChanges(prev, next Effective) FieldSet {
	var s FieldSet
	if prev.Position != next.Position {
		s = s.With(FieldPosition)
	}
	if prev.RPMRange != next.RPMRange {
		s = s.With(FieldRPMRange)
	}
	if !equalPtr(prev.Resistance, next.Resistance) {
		s = s.With(FieldResistance)
	}
	if prev.PowerShift != next.PowerShift {
		s = s.With(FieldPowerShift)
	}
	if prev.Leaderboard != next.Leaderboard {
		s = s.With(FieldLeaderboard)
	}
	if !equalPtr(prev.LightSettings, next.LightSettings) {
		s = s.With(FieldLightSettings)
	}
	return s
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// HighlightDuration is how long the fields of a transition pulse: the time left in the new segment,
// capped. A non-positive cap falls back to DefaultHighlightCap.
func HighlightDuration(timeRemaining int, limit time.Duration) time.Duration {
	if limit <= 0 {
		limit = DefaultHighlightCap
	}
	remaining := time.Duration(timeRemaining) * time.Second
	if remaining < 0 {
		return 0
	}
	if remaining < limit {
		return remaining
	}
	return limit
}
