// Package trackfile reads and writes tracks in their exchange format. Optional fields are omitted when
// absent, so a decode/encode cycle keeps every absent value absent.
package trackfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/gruntwork-io/go-commons/files"
	"gopkg.in/yaml.v3"

	"github.com/robmorgan/cadence/timeline"
)

var (
	// ErrTrackNotFound is returned by Load when the file does not exist.
	ErrTrackNotFound = errors.New("track file not found")

	// ErrUnknownFormat is returned for a Format that is neither YAML nor JSON.
	ErrUnknownFormat = errors.New("unknown track file format")
)

// Format is an encoding of a track file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath picks JSON for a .json extension and YAML for anything else.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads and decodes the track at path.
func Load(path string) (*timeline.Track, error) {
	if !files.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerrors.WithStackTrace(err)
	}

	track, err := Decode(bytes.NewReader(data), FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return track, nil
}

// Save encodes the track to path, choosing the format from its extension.
func Save(path string, track *timeline.Track) error {
	var buf bytes.Buffer
	if err := Encode(&buf, track, FormatFromPath(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return goerrors.WithStackTrace(err)
	}
	return nil
}

// Decode reads a single track. Unknown keys and unknown enumeration values are rejected. Segments come
// back ordered by start time and events by offset.
func Decode(r io.Reader, format Format) (*timeline.Track, error) {
	var track timeline.Track

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&track); err != nil {
			if errors.Is(err, io.EOF) {
				return &track, nil
			}
			return nil, err
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&track); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	track.Sort()
	return &track, nil
}

// Encode writes the track in the given format.
func Encode(w io.Writer, track *timeline.Track, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(track); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(track)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}
