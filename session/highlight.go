package session

import (
	"math"
	"time"

	"github.com/fogleman/ease"

	"github.com/robmorgan/cadence/engine"
	"github.com/robmorgan/cadence/utils"
)

// PulsePeriod is the length of one bright-dim-bright cycle of a highlight.
const PulsePeriod = time.Second

// Highlight marks the fields that changed on a segment transition for a limited time.
type Highlight struct {
	Fields   engine.FieldSet
	Start    time.Time
	Duration time.Duration
}

// Active reports whether the highlight is still running at now.
func (h *Highlight) Active(now time.Time) bool {
	if h == nil || h.Fields.Empty() {
		return false
	}
	elapsed := now.Sub(h.Start)
	return elapsed >= 0 && elapsed < h.Duration
}

// Remaining is how long the highlight keeps running after now.
func (h *Highlight) Remaining(now time.Time) time.Duration {
	if !h.Active(now) {
		return 0
	}
	return h.Duration - now.Sub(h.Start)
}

// Level is the pulse brightness in [0,1] at now. It starts fully lit, eases down to 0 half way through
// each period and back up, and is 0 once the highlight has expired.
func (h *Highlight) Level(now time.Time) float64 {
	if !h.Active(now) {
		return 0
	}
	elapsed := now.Sub(h.Start)
	phase := float64(elapsed%PulsePeriod) / float64(PulsePeriod)
	return utils.Clamp(ease.InOutSine(math.Abs(2*phase-1)), 0, 1)
}
