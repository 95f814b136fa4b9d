package engine

import (
	"fmt"
	"strconv"

	"github.com/robmorgan/cadence/timeline"
)

// Effective holds the value of every overridable attribute after its override chain is applied.
type Effective struct {
	Cue           *string             `json:"cue,omitempty"`
	RPMRange      string              `json:"rpmRange"`
	Position      timeline.Position   `json:"position"`
	Resistance    *float64            `json:"resistance,omitempty"`
	PowerShift    timeline.PowerShift `json:"powerShift"`
	Leaderboard   bool                `json:"leaderboard"`
	LightSettings *string             `json:"lightSettings,omitempty"`
	CueFontSize   timeline.FontSize   `json:"cueFontSize"`
	CuePulsing    bool                `json:"cuePulsing"`
}

// Resolve computes the effective values for a segment with an optional active event. It performs no
// selection of its own, so callers may pass any pairing, e.g. a linked track's first segment with no
// event.
//
//	cue, rpmRange, position, resistance, powerShift:   event -> segment
//	leaderboard, lightSettings, cueFontSize, cuePulsing: event -> segment -> track default -> built-in
//
// An empty lightSettings string at any level counts as absent.
func Resolve(seg *timeline.Segment, ev *timeline.Event, defaults timeline.Defaults) Effective {
	if ev == nil {
		ev = &timeline.Event{}
	}

	return Effective{
		Cue:        first(ev.Cue, seg.Cue),
		RPMRange:   firstOr(seg.RPMRange, ev.RPMRange),
		Position:   firstOr(seg.Position, ev.Position),
		Resistance: first(ev.Resistance, seg.Resistance),
		PowerShift: firstOr(seg.PowerShift, ev.PowerShift),

		Leaderboard:   firstOr(timeline.DefaultLeaderboard, ev.Leaderboard, seg.Leaderboard, defaults.Leaderboard),
		LightSettings: first(nonEmpty(ev.LightSettings), nonEmpty(seg.LightSettings), nonEmpty(defaults.LightSettings)),
		CueFontSize:   firstOr(timeline.DefaultCueFontSize, ev.CueFontSize, seg.CueFontSize, defaults.CueFontSize),
		CuePulsing:    firstOr(timeline.DefaultCuePulsing, ev.CuePulsing, seg.CuePulsing, defaults.CuePulsing),
	}
}

// ResolveOpening resolves the first segment of a track with no event, which is what a preview of the
// linked next track shows. ok is false for an empty track.
func ResolveOpening(track *timeline.Track) (eff Effective, ok bool) {
	segments := track.SortedSegments()
	if len(segments) == 0 {
		return Effective{}, false
	}
	return Resolve(&segments[0], nil, track.Defaults), true
}

// first returns the first non-nil value of the chain.
func first[T any](chain ...*T) *T {
	for _, v := range chain {
		if v != nil {
			return v
		}
	}
	return nil
}

// firstOr returns the first non-nil value of the chain, or fallback.
func firstOr[T any](fallback T, chain ...*T) T {
	if v := first(chain...); v != nil {
		return *v
	}
	return fallback
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// ResistanceLabel renders resistance relative to base: "B" when absent or zero, otherwise "B+<n>" with
// trailing zero decimals trimmed.
func ResistanceLabel(resistance *float64) string {
	if resistance == nil || *resistance == 0 {
		return "B"
	}
	return "B+" + strconv.FormatFloat(*resistance, 'f', -1, 64)
}

// PowerShiftLabel is the single letter shown for a power shift.
func PowerShiftLabel(s timeline.PowerShift) string {
	switch s {
	case timeline.PowerShiftLeft:
		return "L"
	case timeline.PowerShiftMiddle:
		return "M"
	case timeline.PowerShiftRight:
		return "R"
	}
	return "-"
}

// MetricsLine is the combined "rpm / resistance / power shift" line. All three parts are always rendered.
func (e Effective) MetricsLine() string {
	rpm := e.RPMRange
	if rpm == "" {
		rpm = "-"
	}
	return fmt.Sprintf("%s / %s / %s", rpm, ResistanceLabel(e.Resistance), PowerShiftLabel(e.PowerShift))
}
