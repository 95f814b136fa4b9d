package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/robmorgan/cadence/config"
	"github.com/robmorgan/cadence/engine"
	"github.com/robmorgan/cadence/logger"
	"github.com/robmorgan/cadence/timeline"
)

// Frame is everything the display needs for one sample.
type Frame struct {
	At      time.Time
	Seconds float64
	Playing bool

	Location engine.Location

	// Current is nil when no segment is current.
	Current  *engine.Effective
	Upcoming engine.UpcomingDiff

	// Changed is set on the sample that entered a new segment.
	Changed    engine.FieldSet
	Transition bool
	Highlight  *Highlight
}

// Player samples a TimeSource on a fixed cadence and resolves the track at each sample.
type Player struct {
	clock    clock.WithTicker
	source   TimeSource
	track    *timeline.Track
	segments []timeline.Segment
	locator  engine.Locator
	tracker  *Tracker
	interval time.Duration
}

// NewPlayer creates a Player for track. The track is not modified.
func NewPlayer(c clock.WithTicker, source TimeSource, track *timeline.Track, cfg config.CadenceConfig) *Player {
	interval := cfg.SampleInterval
	if interval <= 0 {
		interval = config.DefaultSampleInterval
	}

	return &Player{
		clock:    c,
		source:   source,
		track:    track,
		segments: track.SortedSegments(),
		locator:  cfg.Locator(),
		tracker:  NewTracker(cfg.HighlightCap),
		interval: interval,
	}
}

// Sample takes one sample of the time source. Only one goroutine may call Sample or Run at a time.
func (p *Player) Sample() Frame {
	now := p.clock.Now()
	seconds, playing := p.source.Position()

	loc := p.locator.LocateSeconds(p.segments, seconds)
	frame := Frame{
		At:       now,
		Seconds:  seconds,
		Playing:  playing,
		Location: loc,
	}

	if seg := loc.CurrentSegment; seg != nil {
		eff := engine.Resolve(seg, loc.CurrentEvent, p.track.Defaults)
		frame.Current = &eff
		frame.Upcoming = engine.UpcomingChanges(seg, loc.NextEvent)
	}

	prev := p.tracker.Previous()
	frame.Changed, frame.Transition = p.tracker.Observe(loc, frame.Current, now)
	frame.Highlight = p.tracker.Highlight(now)

	if frame.Transition {
		logger.GetProjectLogger().WithFields(logrus.Fields{
			"segment": loc.CurrentSegment.Label,
			"seconds": seconds,
			"changed": frame.Changed.String(),
			"from":    prev.MetricsLine(),
			"to":      frame.Current.MetricsLine(),
		}).Debug("Segment transition")
	}

	return frame
}

// Run samples until ctx is cancelled, handing every frame to onFrame.
func (p *Player) Run(ctx context.Context, onFrame func(Frame)) error {
	log := logger.GetProjectLogger()
	log.WithFields(logrus.Fields{"track": p.track.Name, "interval": p.interval}).Info("Player started")

	t := p.clock.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.WithField("track", p.track.Name).Info("Player shutdown")
			return ctx.Err()
		case <-t.C():
			onFrame(p.Sample())
		}
	}
}

// Reset drops the retained transition state, e.g. after a seek to an unrelated position.
func (p *Player) Reset() {
	p.tracker.Reset()
}
