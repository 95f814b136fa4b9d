package timeline

import "fmt"

// Position is where the rider should be on the bike.
type Position string

const (
	PositionStanding Position = "standing"
	PositionSeated   Position = "seated"
	PositionEither   Position = "either"
)

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	switch p {
	case PositionStanding, PositionSeated, PositionEither:
		return true
	}
	return false
}

func (p Position) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	v := Position(text)
	if !v.Valid() {
		return fmt.Errorf("unknown position %q", string(text))
	}
	*p = v
	return nil
}

// PowerShift is the hand position on the handlebars, which drives the power zone display.
type PowerShift string

const (
	PowerShiftLeft   PowerShift = "left"
	PowerShiftMiddle PowerShift = "middle"
	PowerShiftRight  PowerShift = "right"
)

// Valid reports whether s is one of the known power shifts.
func (s PowerShift) Valid() bool {
	switch s {
	case PowerShiftLeft, PowerShiftMiddle, PowerShiftRight:
		return true
	}
	return false
}

func (s PowerShift) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

func (s *PowerShift) UnmarshalText(text []byte) error {
	v := PowerShift(text)
	if !v.Valid() {
		return fmt.Errorf("unknown power shift %q", string(text))
	}
	*s = v
	return nil
}

// FontSize controls how large the cue text is shown.
type FontSize string

const (
	FontSizeSmall  FontSize = "small"
	FontSizeNormal FontSize = "normal"
	FontSizeLarge  FontSize = "large"
)

// Valid reports whether f is one of the known font sizes.
func (f FontSize) Valid() bool {
	switch f {
	case FontSizeSmall, FontSizeNormal, FontSizeLarge:
		return true
	}
	return false
}

func (f FontSize) MarshalText() ([]byte, error) {
	return []byte(f), nil
}

func (f *FontSize) UnmarshalText(text []byte) error {
	v := FontSize(text)
	if !v.Valid() {
		return fmt.Errorf("unknown cue font size %q", string(text))
	}
	*f = v
	return nil
}
