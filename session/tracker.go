package session

import (
	"time"

	"github.com/robmorgan/cadence/engine"
	"github.com/robmorgan/cadence/timeline"
)

// Tracker holds the state that the transition diff needs across samples: the last effective state of
// the most recent current segment. The engine cannot recover it once that segment stops being current,
// so it is retained through gaps where no segment is active.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	highlightCap time.Duration

	prev        *engine.Effective
	prevSegment *timeline.Segment
	highlight   *Highlight
}

// NewTracker returns a Tracker whose highlights last at most highlightCap.
func NewTracker(highlightCap time.Duration) *Tracker {
	return &Tracker{highlightCap: highlightCap}
}

// Observe records one sample. eff is the effective state resolved for loc's current segment and
// event, nil when there is no current segment. It returns the fields that changed when the sample
// entered a new segment, and whether a transition happened at all.
func (t *Tracker) Observe(loc engine.Location, eff *engine.Effective, now time.Time) (engine.FieldSet, bool) {
	if loc.CurrentSegment == nil || eff == nil {
		return 0, false
	}

	seg := *loc.CurrentSegment
	current := *eff

	if t.prevSegment == nil {
		t.prev, t.prevSegment = &current, &seg
		return 0, false
	}

	if t.prevSegment.SameAs(&seg) {
		t.prev = &current
		return 0, false
	}

	changed := engine.TransitionChanges(*t.prev, current)
	t.prev, t.prevSegment = &current, &seg

	// a new transition replaces any running highlight
	t.highlight = nil
	if !changed.Empty() {
		t.highlight = &Highlight{
			Fields:   changed,
			Start:    now,
			Duration: engine.HighlightDuration(loc.TimeRemaining, t.highlightCap),
		}
	}

	return changed, true
}

// Highlight returns the running highlight, or nil once it has expired.
func (t *Tracker) Highlight(now time.Time) *Highlight {
	if !t.highlight.Active(now) {
		return nil
	}
	return t.highlight
}

// Previous is the retained effective state, nil before the first segment was seen.
func (t *Tracker) Previous() *engine.Effective {
	return t.prev
}

// Reset forgets the retained state, e.g. when a different track is loaded.
func (t *Tracker) Reset() {
	t.prev = nil
	t.prevSegment = nil
	t.highlight = nil
}
