package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmorgan/cadence/engine"
	"github.com/robmorgan/cadence/timeline"
	"github.com/robmorgan/cadence/trackfile"
)

func TestInspectJSON(t *testing.T) {
	stdout, _, err := executeRoot(t, "inspect", "--track", hillsPath, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   InspectResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	result := resp.Data
	assert.Equal(t, "Hills", result.Track)
	assert.Equal(t, 140, result.Duration)
	require.Len(t, result.Segments, 3)

	warmup, climb, sprint := result.Segments[0], result.Segments[1], result.Segments[2]

	assert.Equal(t, "Warmup", warmup.Label)
	assert.Nil(t, warmup.Transition)
	require.Len(t, warmup.States, 1)
	assert.Nil(t, warmup.States[0].EventID)

	assert.Equal(t, "Climb", climb.Label)
	assert.Zero(t, climb.Gap)
	require.NotNil(t, climb.Transition)
	assert.Equal(t, engine.NewFieldSet(
		engine.FieldRPMRange,
		engine.FieldPosition,
		engine.FieldResistance,
		engine.FieldPowerShift,
		engine.FieldLeaderboard,
	), *climb.Transition)

	require.Len(t, climb.States, 3)
	assert.Equal(t, []int{42, 62, 82}, []int{climb.States[0].At, climb.States[1].At, climb.States[2].At})
	assert.Equal(t, "60-70 / B+3.5 / M", climb.States[1].Metrics)
	require.NotNil(t, climb.States[2].EventID)
	assert.Equal(t, uuid.MustParse("3e8c9d6b-5f4a-4b1c-8d0e-9f8a7b6c5d4e"), *climb.States[2].EventID)
	assert.Equal(t, timeline.PositionSeated, climb.States[2].Effective.Position)

	// compared against the last state of climb, after its seated event
	assert.Equal(t, "Sprint", sprint.Label)
	assert.Equal(t, 8, sprint.Gap)
	require.NotNil(t, sprint.Transition)
	assert.Equal(t, engine.NewFieldSet(
		engine.FieldRPMRange,
		engine.FieldResistance,
		engine.FieldPowerShift,
		engine.FieldLeaderboard,
		engine.FieldLightSettings,
	), *sprint.Transition)
	assert.Nil(t, result.Next)
}

func TestInspectText(t *testing.T) {
	stdout, _, err := executeRoot(t, "inspect", "--track", hillsPath)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "Hills by The Pacers (2:20)\n")
	assert.Contains(t, out, "0:42-1:42  Climb  changes {rpmRange, position, resistance, powerShift, leaderboard}\n")
	assert.Contains(t, out, "  1:02  60-70 / B+3.5 / M  standing  \"Add a gear\"\n")
	assert.Contains(t, out, "  8s gap\n")
}

func TestInspectWithNextTrack(t *testing.T) {
	next := &timeline.Track{
		ID:   uuid.MustParse("9a1b2c3d-4e5f-4a6b-8c7d-0e1f2a3b4c5d"),
		Name: "Cooldown",
		Segments: []timeline.Segment{
			{Label: "Spin out", StartTime: 0, EndTime: 60, RPMRange: "70-80", Position: timeline.PositionSeated, PowerShift: timeline.PowerShiftLeft},
		},
	}
	nextPath := filepath.Join(t.TempDir(), "cooldown.json")
	require.NoError(t, trackfile.Save(nextPath, next))

	stdout, _, err := executeRoot(t, "inspect", "--track", hillsPath, "--next", nextPath)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Up next: Cooldown  70-80 / B / L  seated\n")
}

func TestInspectSegmentStates(t *testing.T) {
	seg := &timeline.Segment{
		StartTime: 10,
		EndTime:   20,
		RPMRange:  "80",
		Events: []timeline.Event{
			{Offset: 0, RPMRange: timeline.Ptr("90")},
			{Offset: 5, RPMRange: timeline.Ptr("95")},
			{Offset: 5, RPMRange: timeline.Ptr("100")},
			{Offset: 10, RPMRange: timeline.Ptr("never")},
		},
	}

	states := segmentStates(seg, timeline.Defaults{})
	require.Len(t, states, 2)
	assert.Equal(t, 10, states[0].At)
	assert.Equal(t, "90", states[0].Effective.RPMRange)
	assert.Equal(t, 15, states[1].At)
	assert.Equal(t, "100", states[1].Effective.RPMRange)
}
