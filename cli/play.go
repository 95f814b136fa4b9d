package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"k8s.io/utils/clock"

	"github.com/robmorgan/cadence/display"
	"github.com/robmorgan/cadence/logger"
	"github.com/robmorgan/cadence/session"
)

const clearScreen = "\033[H\033[2J"

type playOptions struct {
	track  string
	from   float64
	loop   bool
	config string
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a track against a simulated music clock",
		Long: `Play runs the track from --from seconds on a local clock and shows the live cue state
until the track ends or Ctrl+C is pressed. With --loop the track restarts from --from instead of
ending, for rehearsing a section.

With --format json one frame is printed per second of playback.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(rootOpts, opts, cmd, clock.RealClock{})
		},
	}

	cmd.Flags().StringVarP(&opts.track, "track", "t", "", "track file (.yaml or .json)")
	cmd.Flags().Float64Var(&opts.from, "from", 0, "start position in seconds")
	cmd.Flags().BoolVar(&opts.loop, "loop", false, "restart from --from when the track ends")
	cmd.Flags().StringVar(&opts.config, "config", "", "config file")
	_ = cmd.MarkFlagRequired("track")

	return cmd
}

func runPlay(rootOpts *RootOptions, opts *playOptions, cmd *cobra.Command, c clock.WithTicker) error {
	formatter := newFormatter(rootOpts, cmd)

	cfg, err := loadConfig(rootOpts, formatter, opts.config)
	if err != nil {
		return err
	}
	track, err := loadTrack(formatter, opts.track)
	if err != nil {
		return err
	}

	end := float64(track.Duration())
	if opts.loop && opts.from >= end {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, "invalid --from",
			fmt.Errorf("--loop needs a start before the end of the track at %s", display.FormatClock(int(end))),
			map[string]float64{"from": opts.from, "end": end})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	source := session.NewSimulatedSource(c)
	source.Seek(opts.from)
	source.Play()

	player := session.NewPlayer(c, source, track, cfg)
	lastSecond := math.MinInt

	var writeErr error
	err = player.Run(ctx, func(f session.Frame) {
		second := int(math.Floor(f.Seconds))

		switch {
		case formatter.JSON():
			if second != lastSecond {
				result := newLocateResult(track, f.Seconds, f.Location)
				writeErr = formatter.Success(result, nil)
			}
		case second != lastSecond || f.Highlight.Active(f.At):
			_, writeErr = fmt.Fprint(formatter.Writer, clearScreen+display.RenderFrame(f, f.At)+"\n")
		}
		lastSecond = second

		switch {
		case writeErr != nil:
			cancel()
		case f.Seconds < end:
		case opts.loop:
			// the previous pass must not count as the segment before the restart
			source.Pause()
			source.Seek(opts.from)
			player.Reset()
			source.Play()
			lastSecond = math.MinInt
			logger.GetProjectLogger().WithField("from", opts.from).Info("Looping track")
		default:
			cancel()
		}
	})

	if writeErr != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "writing frame", writeErr, nil)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "playing track", err, nil)
	}

	position, _ := source.Position()
	logger.GetProjectLogger().WithFields(logrus.Fields{
		"track":    track.Name,
		"position": position,
	}).Debug("Playback stopped")
	return nil
}
