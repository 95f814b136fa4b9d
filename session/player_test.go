package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/robmorgan/cadence/config"
	"github.com/robmorgan/cadence/engine"
	"github.com/robmorgan/cadence/timeline"
)

func TestPlayerSample(t *testing.T) {
	t.Parallel()

	fc := testingclock.NewFakeClock(time.Unix(0, 0))
	src := NewSimulatedSource(fc)
	src.Seek(91.8)

	p := NewPlayer(fc, src, testTrack(), config.NewCadenceConfig())

	frame := p.Sample()
	assert.False(t, frame.Playing)
	assert.InDelta(t, 91.8, frame.Seconds, 1e-9)
	require.NotNil(t, frame.Location.CurrentSegment)
	assert.Equal(t, "climb", frame.Location.CurrentSegment.Label)
	assert.Equal(t, 49, frame.Location.TimeElapsed)

	require.NotNil(t, frame.Current)
	assert.Equal(t, timeline.PositionStanding, frame.Current.Position)

	// the event at offset 50 is one second away
	assert.Equal(t, engine.NewFieldSet(engine.FieldPosition, engine.FieldRPMRange), frame.Upcoming.Fields)
	require.NotNil(t, frame.Location.TimeUntilNext)
	assert.Equal(t, 1, *frame.Location.TimeUntilNext)
	assert.False(t, frame.Transition)
}

func TestPlayerSampleOutsideTrack(t *testing.T) {
	t.Parallel()

	fc := testingclock.NewFakeClock(time.Unix(0, 0))
	src := NewSimulatedSource(fc)
	src.Seek(500)

	frame := NewPlayer(fc, src, testTrack(), config.NewCadenceConfig()).Sample()
	assert.Nil(t, frame.Current)
	assert.Nil(t, frame.Location.CurrentSegment)
	assert.False(t, frame.Upcoming.HasChanges())
	assert.Equal(t, 140, frame.Location.TotalDuration)
}

func TestPlayerDoesNotReorderTrack(t *testing.T) {
	t.Parallel()

	track := testTrack()
	track.Segments[0], track.Segments[2] = track.Segments[2], track.Segments[0]

	fc := testingclock.NewFakeClock(time.Unix(0, 0))
	src := NewSimulatedSource(fc)
	src.Seek(5)

	frame := NewPlayer(fc, src, track, config.NewCadenceConfig()).Sample()
	require.NotNil(t, frame.Location.CurrentSegment)
	assert.Equal(t, "warmup", frame.Location.CurrentSegment.Label)
	assert.Equal(t, "sprint", track.Segments[0].Label)
}

func TestPlayerRun(t *testing.T) {
	t.Parallel()

	fc := testingclock.NewFakeClock(time.Unix(0, 0))
	src := NewSimulatedSource(fc)
	src.Seek(40.5)
	src.Play()

	cfg := config.NewCadenceConfig()
	p := NewPlayer(fc, src, testTrack(), cfg)

	frames := make(chan Frame, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx, func(f Frame) { frames <- f })
	}()

	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)

	next := func() Frame {
		t.Helper()
		select {
		case f := <-frames:
			return f
		case <-time.After(time.Second):
			require.FailNow(t, "no frame received")
			return Frame{}
		}
	}

	fc.Step(cfg.SampleInterval)
	first := next()
	assert.True(t, first.Playing)
	require.NotNil(t, first.Location.CurrentSegment)
	assert.Equal(t, "warmup", first.Location.CurrentSegment.Label)
	assert.False(t, first.Transition)

	fc.Step(2 * time.Second)
	second := next()
	require.NotNil(t, second.Location.CurrentSegment)
	assert.Equal(t, "climb", second.Location.CurrentSegment.Label)
	assert.True(t, second.Transition)
	assert.Equal(t, engine.NewFieldSet(engine.FieldPosition, engine.FieldRPMRange), second.Changed)
	require.NotNil(t, second.Highlight)
	assert.True(t, second.Highlight.Active(second.At))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		require.FailNow(t, "player did not stop")
	}
}

func TestPlayerResetForgetsPreviousSegment(t *testing.T) {
	t.Parallel()

	fc := testingclock.NewFakeClock(time.Unix(0, 0))
	src := NewSimulatedSource(fc)
	p := NewPlayer(fc, src, testTrack(), config.NewCadenceConfig())

	src.Seek(10)
	p.Sample()

	// after a reset, landing in climb is a first sighting rather than a transition
	p.Reset()
	src.Seek(60)
	frame := p.Sample()
	assert.False(t, frame.Transition)
	assert.Nil(t, frame.Highlight)

	src.Seek(115)
	frame = p.Sample()
	assert.True(t, frame.Transition)
}
