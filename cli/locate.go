package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/robmorgan/cadence/display"
	"github.com/robmorgan/cadence/engine"
	"github.com/robmorgan/cadence/timeline"
)

// SegmentRef identifies a segment in command output.
type SegmentRef struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label,omitempty"`
	StartTime int       `json:"startTime"`
	EndTime   int       `json:"endTime"`
}

// EventRef identifies an event in command output.
type EventRef struct {
	ID     uuid.UUID `json:"id"`
	Offset int       `json:"offset"`
}

// LocateResult is what the timeline dictates at one instant.
type LocateResult struct {
	Track       string               `json:"track"`
	At          float64              `json:"at"`
	Segment     *SegmentRef          `json:"segment,omitempty"`
	Event       *EventRef            `json:"event,omitempty"`
	NextSegment *SegmentRef          `json:"nextSegment,omitempty"`
	NextEvent   *EventRef            `json:"nextEvent,omitempty"`
	Location    engine.Location      `json:"location"`
	Effective   *engine.Effective    `json:"effective,omitempty"`
	Metrics     string               `json:"metrics,omitempty"`
	Upcoming    *engine.UpcomingDiff `json:"upcoming,omitempty"`
}

type locateOptions struct {
	track  string
	at     float64
	config string
}

// NewLocateCommand creates the locate command.
func NewLocateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &locateOptions{}

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Show the resolved cue state at one point of a track",
		Long: `Locate the current segment and event of a track at a playback position and print
the effective value of every attribute together with the changes the next event brings.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocate(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.track, "track", "t", "", "track file (.yaml or .json)")
	cmd.Flags().Float64Var(&opts.at, "at", 0, "playback position in seconds")
	cmd.Flags().StringVar(&opts.config, "config", "", "config file")
	_ = cmd.MarkFlagRequired("track")

	return cmd
}

func runLocate(rootOpts *RootOptions, opts *locateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	cfg, err := loadConfig(rootOpts, formatter, opts.config)
	if err != nil {
		return err
	}
	track, err := loadTrack(formatter, opts.track)
	if err != nil {
		return err
	}

	loc := cfg.Locator().LocateSeconds(track.Segments, opts.at)
	result := newLocateResult(track, opts.at, loc)

	return formatter.Success(result, func(w io.Writer) {
		writeLocateText(w, result)
	})
}

// newLocateResult resolves loc, which must have been located in track's segments.
func newLocateResult(track *timeline.Track, at float64, loc engine.Location) LocateResult {
	result := LocateResult{
		Track:       track.Name,
		At:          at,
		Segment:     segmentRef(loc.CurrentSegment),
		Event:       eventRef(loc.CurrentEvent),
		NextSegment: segmentRef(loc.NextSegment),
		NextEvent:   eventRef(loc.NextEvent),
		Location:    loc,
	}

	if seg := loc.CurrentSegment; seg != nil {
		eff := engine.Resolve(seg, loc.CurrentEvent, track.Defaults)
		result.Effective = &eff
		result.Metrics = eff.MetricsLine()
		if d := engine.UpcomingChanges(seg, loc.NextEvent); d.HasChanges() {
			result.Upcoming = &d
		}
	}

	return result
}

func segmentRef(seg *timeline.Segment) *SegmentRef {
	if seg == nil {
		return nil
	}
	return &SegmentRef{ID: seg.ID, Label: seg.Label, StartTime: seg.StartTime, EndTime: seg.EndTime}
}

func eventRef(ev *timeline.Event) *EventRef {
	if ev == nil {
		return nil
	}
	return &EventRef{ID: ev.ID, Offset: ev.Offset}
}

func writeLocateText(w io.Writer, r LocateResult) {
	fmt.Fprintf(w, "%s at %s\n", r.Track, display.FormatClock(int(math.Floor(r.At))))

	if r.Segment == nil || r.Effective == nil {
		if r.Location.TimeUntilNext != nil {
			fmt.Fprintf(w, "No segment, next in %ds\n", *r.Location.TimeUntilNext)
			return
		}
		fmt.Fprintln(w, "No segment")
		return
	}

	eff := r.Effective
	fmt.Fprintf(w, "Segment: %s (%s-%s)\n", r.Segment.Label,
		display.FormatClock(r.Segment.StartTime), display.FormatClock(r.Segment.EndTime))
	fmt.Fprintf(w, "Elapsed %s, remaining %s, %.0f%%\n",
		display.FormatClock(r.Location.TimeElapsed), display.FormatClock(r.Location.TimeRemaining), r.Location.Progress*100)
	fmt.Fprintf(w, "Metrics: %s\n", r.Metrics)
	fmt.Fprintf(w, "Position: %s\n", eff.Position)
	fmt.Fprintf(w, "Cue: %s\n", valueOr(eff.Cue, "-"))
	fmt.Fprintf(w, "Leaderboard: %s\n", onOff(eff.Leaderboard))
	fmt.Fprintf(w, "Lights: %s\n", valueOr(eff.LightSettings, "off"))

	if r.Location.TimeUntilNext == nil {
		return
	}
	if r.Upcoming != nil {
		fmt.Fprintf(w, "Next in %ds: %s\n", *r.Location.TimeUntilNext, display.DescribeUpcoming(*r.Upcoming))
		return
	}
	fmt.Fprintf(w, "Next in %ds\n", *r.Location.TimeUntilNext)
}

func valueOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
