// Package engine resolves an authored timeline at a playback position: which segment and event are
// active, the effective value of every overridable attribute, and which attributes changed.
//
// Everything in this package is pure. Nothing here logs, schedules timers or mutates the timeline,
// so it can be sampled from any goroutine at any rate.
package engine

import (
	"math"

	"github.com/robmorgan/cadence/timeline"
	"github.com/robmorgan/cadence/utils"
)

// DefaultLookahead is how many seconds before its start a segment is already treated as current.
// It hides the empty frame that would otherwise flash between two adjacent segments.
const DefaultLookahead = 1

// Location is what the timeline dictates at one instant.
type Location struct {
	CurrentSegment *timeline.Segment `json:"-"`
	NextSegment    *timeline.Segment `json:"-"`
	CurrentEvent   *timeline.Event   `json:"-"`
	NextEvent      *timeline.Event   `json:"-"`

	// All three are zero when there is no current segment.
	TimeElapsed   int     `json:"timeElapsed"`
	TimeRemaining int     `json:"timeRemaining"`
	Progress      float64 `json:"progress"`

	// TimeUntilNext is the number of seconds until the next event or segment, nil when nothing follows.
	TimeUntilNext *int `json:"timeUntilNext,omitempty"`

	TotalDuration int `json:"totalDuration"`
}

// Locator finds the active segment and event for a playback time.
type Locator struct {
	// Lookahead in seconds; negative values are treated as 0.
	Lookahead int
}

// NewLocator returns a Locator using DefaultLookahead.
func NewLocator() Locator {
	return Locator{Lookahead: DefaultLookahead}
}

// Locate uses DefaultLookahead. segments must be ordered by start time.
func Locate(segments []timeline.Segment, t int) Location {
	return NewLocator().Locate(segments, t)
}

// LocateSeconds floors a fractional playback position and locates it with DefaultLookahead.
func LocateSeconds(segments []timeline.Segment, seconds float64) Location {
	return NewLocator().LocateSeconds(segments, seconds)
}

// LocateSeconds floors a fractional playback position and locates it.
func (l Locator) LocateSeconds(segments []timeline.Segment, seconds float64) Location {
	return l.Locate(segments, int(math.Floor(seconds)))
}

// Locate returns the Location at time t. segments must be ordered by start time; the first segment
// that contains t, or starts within the lookahead window after t, is the current one.
func (l Locator) Locate(segments []timeline.Segment, t int) Location {
	var loc Location
	if len(segments) == 0 {
		return loc
	}

	lookahead := l.Lookahead
	if lookahead < 0 {
		lookahead = 0
	}

	loc.TotalDuration = segments[len(segments)-1].EndTime

	for i := range segments {
		seg := &segments[i]
		if loc.CurrentSegment == nil && isCurrent(seg, t, lookahead) {
			loc.CurrentSegment = seg
		}
		if loc.NextSegment == nil && seg.StartTime > t+lookahead {
			loc.NextSegment = seg
		}
		if loc.CurrentSegment != nil && loc.NextSegment != nil {
			break
		}
	}

	if loc.CurrentSegment == nil {
		if loc.NextSegment != nil {
			loc.TimeUntilNext = intPtr(loc.NextSegment.StartTime - t)
		}
		return loc
	}

	seg := loc.CurrentSegment
	effectiveT := t
	if effectiveT < seg.StartTime {
		effectiveT = seg.StartTime
	}

	loc.TimeElapsed = effectiveT - seg.StartTime
	loc.TimeRemaining = seg.EndTime - effectiveT
	if duration := seg.Duration(); duration > 0 {
		loc.Progress = utils.Clamp(float64(loc.TimeElapsed)/float64(duration), 0, 1)
	}

	loc.CurrentEvent, loc.NextEvent = locateEvents(seg.Events, loc.TimeElapsed)

	switch {
	case loc.NextEvent != nil:
		loc.TimeUntilNext = intPtr(seg.StartTime + loc.NextEvent.Offset - t)
	case loc.NextSegment != nil:
		loc.TimeUntilNext = intPtr(loc.NextSegment.StartTime - t)
	}

	return loc
}

func isCurrent(seg *timeline.Segment, t, lookahead int) bool {
	if t >= seg.StartTime && t < seg.EndTime {
		return true
	}
	lead := seg.StartTime - t
	return lead >= 0 && lead <= lookahead
}

// locateEvents picks the last event at or before rel and the first one after it, ordering by offset.
// Events sharing an offset resolve to the later one in authored order for current, the earlier for next.
func locateEvents(events []timeline.Event, rel int) (current, next *timeline.Event) {
	for i := range events {
		ev := &events[i]
		if ev.Offset <= rel {
			if current == nil || ev.Offset >= current.Offset {
				current = ev
			}
			continue
		}
		if next == nil || ev.Offset < next.Offset {
			next = ev
		}
	}
	return current, next
}

func intPtr(v int) *int {
	return &v
}
