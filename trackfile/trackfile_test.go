package trackfile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmorgan/cadence/timeline"
)

const fixture = "testdata/hills.yaml"

func TestLoadFixture(t *testing.T) {
	t.Parallel()

	track, err := Load(fixture)
	require.NoError(t, err)

	assert.Equal(t, "Hills", track.Name)
	assert.Equal(t, uuid.MustParse("6f1c2b4e-8a4d-4e1a-9b7c-1d2e3f4a5b6c"), track.ID)
	require.NotNil(t, track.Defaults.LightSettings)
	assert.Equal(t, "#1E90FF", *track.Defaults.LightSettings)
	assert.Nil(t, track.Defaults.Leaderboard)

	// sorted on decode
	require.Len(t, track.Segments, 3)
	assert.Equal(t, "Warmup", track.Segments[0].Label)
	assert.Equal(t, "Climb", track.Segments[1].Label)
	assert.Equal(t, "Sprint", track.Segments[2].Label)
	assert.Equal(t, 140, track.Duration())

	climb := track.Segments[1]
	require.NotNil(t, climb.Resistance)
	assert.Equal(t, 2.0, *climb.Resistance)
	require.NotNil(t, climb.Leaderboard)
	assert.False(t, *climb.Leaderboard)
	assert.Nil(t, climb.Cue)
	require.Len(t, climb.Events, 2)
	assert.Equal(t, 20, climb.Events[0].Offset)
	assert.Equal(t, 40, climb.Events[1].Offset)
	assert.Nil(t, climb.Events[0].Position)
	require.NotNil(t, climb.Events[1].Position)
	assert.Equal(t, timeline.PositionSeated, *climb.Events[1].Position)

	warmup := track.Segments[0]
	assert.Nil(t, warmup.Resistance)
	assert.Empty(t, warmup.Events)
}

func TestRoundTripKeepsAbsentFieldsAbsent(t *testing.T) {
	t.Parallel()

	track, err := Load(fixture)
	require.NoError(t, err)

	for _, format := range []Format{FormatYAML, FormatJSON} {
		format := format
		t.Run(format.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, track, format))

			decoded, err := Decode(bytes.NewReader(buf.Bytes()), format)
			require.NoError(t, err)
			assert.Equal(t, track, decoded)
		})
	}
}

func TestEncodeOmitsAbsentOptionals(t *testing.T) {
	t.Parallel()

	track := &timeline.Track{
		Name: "Flat",
		Segments: []timeline.Segment{
			{Label: "ride", StartTime: 0, EndTime: 30, Position: timeline.PositionSeated, PowerShift: timeline.PowerShiftLeft},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, track, FormatJSON))
	out := buf.String()

	assert.Contains(t, out, `"rpmRange": ""`)
	for _, key := range []string{"resistance", "cue", "leaderboard", "lightSettings", "cueFontSize", "cuePulsing", "events", "linkedTrackId"} {
		assert.NotContains(t, out, `"`+key+`"`)
	}
}

func TestExplicitFalseSurvivesRoundTrip(t *testing.T) {
	t.Parallel()

	track := &timeline.Track{
		Defaults: timeline.Defaults{Leaderboard: timeline.Ptr(false), CuePulsing: timeline.Ptr(false)},
		Segments: []timeline.Segment{
			{
				StartTime:  0,
				EndTime:    10,
				Position:   timeline.PositionEither,
				PowerShift: timeline.PowerShiftMiddle,
				Resistance: timeline.Ptr(0.0),
				Events:     []timeline.Event{{Offset: 2, Cue: timeline.Ptr("")}},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, track, FormatYAML))

	decoded, err := Decode(&buf, FormatYAML)
	require.NoError(t, err)

	require.NotNil(t, decoded.Defaults.Leaderboard)
	assert.False(t, *decoded.Defaults.Leaderboard)
	require.NotNil(t, decoded.Segments[0].Resistance)
	assert.Equal(t, 0.0, *decoded.Segments[0].Resistance)
	require.NotNil(t, decoded.Segments[0].Events[0].Cue)
	assert.Equal(t, "", *decoded.Segments[0].Events[0].Cue)
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	track, err := Load(fixture)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hills.json")
	require.NoError(t, Save(path, track))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, track, loaded)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := Decode(strings.NewReader("name: x\ntempo: 120\n"), FormatYAML)
	require.Error(t, err)

	_, err = Decode(strings.NewReader(`{"name":"x","tempo":120}`), FormatJSON)
	require.Error(t, err)
}

func TestDecodeRejectsUnknownEnumValues(t *testing.T) {
	t.Parallel()

	doc := "segments:\n  - startTime: 0\n    endTime: 10\n    position: floating\n"
	_, err := Decode(strings.NewReader(doc), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown position")
}

func TestDecodeEmptyDocument(t *testing.T) {
	t.Parallel()

	track, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, track.Segments)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, ErrTrackNotFound)
}

func TestUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := Decode(strings.NewReader(""), Format(7))
	require.ErrorIs(t, err, ErrUnknownFormat)

	err = Encode(&bytes.Buffer{}, &timeline.Track{}, Format(7))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatJSON, FormatFromPath("class/hills.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("hills.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("hills"))
}
