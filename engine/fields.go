package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Field names one overridable attribute of a segment or event.
type Field string

const (
	FieldCue           Field = "cue"
	FieldRPMRange      Field = "rpmRange"
	FieldPosition      Field = "position"
	FieldResistance    Field = "resistance"
	FieldPowerShift    Field = "powerShift"
	FieldLeaderboard   Field = "leaderboard"
	FieldLightSettings Field = "lightSettings"
	FieldCueFontSize   Field = "cueFontSize"
	FieldCuePulsing    Field = "cuePulsing"
)

// allFields is the canonical order used when listing a FieldSet.
var allFields = []Field{
	FieldCue,
	FieldRPMRange,
	FieldPosition,
	FieldResistance,
	FieldPowerShift,
	FieldLeaderboard,
	FieldLightSettings,
	FieldCueFontSize,
	FieldCuePulsing,
}

func (f Field) bit() FieldSet {
	for i, candidate := range allFields {
		if candidate == f {
			return 1 << uint(i)
		}
	}
	return 0
}

// FieldSet is a set of Fields. The zero value is the empty set.
type FieldSet uint16

// NewFieldSet builds a set from the given fields.
func NewFieldSet(fields ...Field) FieldSet {
	var s FieldSet
	for _, f := range fields {
		s = s.With(f)
	}
	return s
}

// With returns s plus f.
func (s FieldSet) With(f Field) FieldSet {
	return s | f.bit()
}

// Has reports whether f is in s.
func (s FieldSet) Has(f Field) bool {
	b := f.bit()
	return b != 0 && s&b == b
}

// Empty reports whether s has no fields.
func (s FieldSet) Empty() bool {
	return s == 0
}

// Len returns the number of fields in s.
func (s FieldSet) Len() int {
	n := 0
	for _, f := range allFields {
		if s.Has(f) {
			n++
		}
	}
	return n
}

// Fields lists the members of s in canonical order.
func (s FieldSet) Fields() []Field {
	out := make([]Field, 0, len(allFields))
	for _, f := range allFields {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s FieldSet) String() string {
	names := make([]string, 0, len(allFields))
	for _, f := range s.Fields() {
		names = append(names, string(f))
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func (s FieldSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Fields())
}

func (s *FieldSet) UnmarshalJSON(data []byte) error {
	var fields []Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, f := range fields {
		if f.bit() == 0 {
			return fmt.Errorf("unknown field %q", string(f))
		}
	}
	*s = NewFieldSet(fields...)
	return nil
}
