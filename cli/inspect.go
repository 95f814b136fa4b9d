package cli

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/robmorgan/cadence/display"
	"github.com/robmorgan/cadence/engine"
	"github.com/robmorgan/cadence/timeline"
)

// InspectResult is the resolved outline of a whole track.
type InspectResult struct {
	Track    string           `json:"track"`
	Artist   string           `json:"artist,omitempty"`
	Duration int              `json:"duration"`
	Segments []InspectSegment `json:"segments"`
	Next     *NextTrack       `json:"next,omitempty"`
}

// InspectSegment lists the states a segment goes through.
type InspectSegment struct {
	SegmentRef

	// Gap is the silence in seconds since the previous segment ended.
	Gap int `json:"gap,omitempty"`

	// Transition is what changes when this segment takes over from the previous one. It is absent
	// for the first segment.
	Transition *engine.FieldSet `json:"transition,omitempty"`

	States []InspectState `json:"states"`
}

// InspectState is the effective state from At, an absolute track time, until the next state.
type InspectState struct {
	At        int              `json:"at"`
	EventID   *uuid.UUID       `json:"eventId,omitempty"`
	Effective engine.Effective `json:"effective"`
	Metrics   string           `json:"metrics"`
}

// NextTrack previews the opening of the track that follows.
type NextTrack struct {
	Track   string           `json:"track"`
	Opening engine.Effective `json:"opening"`
	Metrics string           `json:"metrics"`
}

type inspectOptions struct {
	track string
	next  string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List every segment and event of a track with its resolved state",
		Long: `Inspect resolves a track at each segment start and event boundary and shows which
attributes change from one segment to the next.

With --next, the opening state of the linked track is shown as well.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.track, "track", "t", "", "track file (.yaml or .json)")
	cmd.Flags().StringVar(&opts.next, "next", "", "track file of the linked next track")
	_ = cmd.MarkFlagRequired("track")

	return cmd
}

func runInspect(rootOpts *RootOptions, opts *inspectOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	track, err := loadTrack(formatter, opts.track)
	if err != nil {
		return err
	}

	var next *timeline.Track
	if opts.next != "" {
		if next, err = loadTrack(formatter, opts.next); err != nil {
			return err
		}
		if track.LinkedTrackID != nil && *track.LinkedTrackID != next.ID {
			formatter.VerboseLog("%s links to %s, not %s", track.Name, track.LinkedTrackID, next.ID)
		}
	}

	result := Inspect(track, next)
	return formatter.Success(result, func(w io.Writer) {
		writeInspectText(w, result)
	})
}

// Inspect builds the outline of track. next may be nil.
func Inspect(track *timeline.Track, next *timeline.Track) InspectResult {
	segments := track.SortedSegments()
	result := InspectResult{
		Track:    track.Name,
		Artist:   track.Artist,
		Duration: track.Duration(),
		Segments: make([]InspectSegment, 0, len(segments)),
	}

	var prev *engine.Effective
	for i := range segments {
		seg := &segments[i]
		item := InspectSegment{
			SegmentRef: *segmentRef(seg),
			States:     segmentStates(seg, track.Defaults),
		}
		if i > 0 {
			if gap := seg.StartTime - segments[i-1].EndTime; gap > 0 {
				item.Gap = gap
			}
		}
		if prev != nil {
			changed := engine.TransitionChanges(*prev, item.States[0].Effective)
			item.Transition = &changed
		}
		prev = &item.States[len(item.States)-1].Effective

		result.Segments = append(result.Segments, item)
	}

	if next != nil {
		if opening, ok := engine.ResolveOpening(next); ok {
			result.Next = &NextTrack{Track: next.Name, Opening: opening, Metrics: opening.MetricsLine()}
		}
	}

	return result
}

// segmentStates resolves seg at its start and at every event that becomes active before it ends.
// Events sharing an offset collapse into the last one.
func segmentStates(seg *timeline.Segment, defaults timeline.Defaults) []InspectState {
	events := seg.SortedEvents()

	var start *timeline.Event
	var rest []timeline.Event
	for i := range events {
		ev := &events[i]
		switch {
		case ev.Offset <= 0:
			start = ev
		case ev.Offset < seg.Duration():
			rest = append(rest, *ev)
		}
	}

	states := []InspectState{newInspectState(seg, start, defaults, seg.StartTime)}
	for i := range rest {
		ev := &rest[i]
		if i+1 < len(rest) && rest[i+1].Offset == ev.Offset {
			continue
		}
		states = append(states, newInspectState(seg, ev, defaults, seg.StartTime+ev.Offset))
	}
	return states
}

func newInspectState(seg *timeline.Segment, ev *timeline.Event, defaults timeline.Defaults, at int) InspectState {
	eff := engine.Resolve(seg, ev, defaults)
	state := InspectState{At: at, Effective: eff, Metrics: eff.MetricsLine()}
	if ev != nil {
		id := ev.ID
		state.EventID = &id
	}
	return state
}

func writeInspectText(w io.Writer, r InspectResult) {
	title := r.Track
	if r.Artist != "" {
		title += " by " + r.Artist
	}
	fmt.Fprintf(w, "%s (%s)\n", title, display.FormatClock(r.Duration))

	for _, seg := range r.Segments {
		fmt.Fprintln(w)
		if seg.Gap > 0 {
			fmt.Fprintf(w, "  %ds gap\n", seg.Gap)
		}
		fmt.Fprintf(w, "%s-%s  %s", display.FormatClock(seg.StartTime), display.FormatClock(seg.EndTime), seg.Label)
		if seg.Transition != nil {
			fmt.Fprintf(w, "  changes %s", seg.Transition)
		}
		fmt.Fprintln(w)

		for _, state := range seg.States {
			fmt.Fprintf(w, "  %s  %s  %s", display.FormatClock(state.At), state.Metrics, state.Effective.Position)
			if state.Effective.Cue != nil {
				fmt.Fprintf(w, "  %q", *state.Effective.Cue)
			}
			fmt.Fprintln(w)
		}
	}

	if r.Next != nil {
		fmt.Fprintf(w, "\nUp next: %s  %s  %s\n", r.Next.Track, r.Next.Metrics, r.Next.Opening.Position)
	}
}
