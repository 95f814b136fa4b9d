// Package display renders session frames for the terminal.
package display

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/robmorgan/cadence/engine"
	"github.com/robmorgan/cadence/session"
	"github.com/robmorgan/cadence/timeline"
	"github.com/robmorgan/cadence/utils"
)

const progressWidth = 24

var (
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	upcomingStyle = dimStyle.Copy().Italic(true)
	appStyle      = lipgloss.NewStyle().Margin(1, 2, 0, 2)
)

// highlighted fields pulse between these two colors
var (
	pulseDim    = colorful.Color{R: 0.55, G: 0.42, B: 0.08}
	pulseBright = colorful.Color{R: 1, G: 0.85, B: 0.2}
)

// RenderFrame renders everything the instructor sees for one frame.
func RenderFrame(f session.Frame, now time.Time) string {
	var b strings.Builder
	b.WriteString(header(f))
	b.WriteString("\n\n")

	eff := f.Current
	if eff == nil {
		b.WriteString(dimStyle.Render(idleText(f)))
		return appStyle.Render(b.String())
	}

	hl := f.Highlight
	style := func(field engine.Field, text string) string {
		if !hl.Active(now) || !hl.Fields.Has(field) {
			return text
		}
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(PulseColor(hl.Level(now)))).Render(text)
	}

	rpm := eff.RPMRange
	if rpm == "" {
		rpm = "-"
	}
	fmt.Fprintf(&b, "%s\n", style(engine.FieldPosition, positionText(eff.Position)))
	fmt.Fprintf(&b, "%s / %s / %s\n",
		style(engine.FieldRPMRange, rpm),
		style(engine.FieldResistance, engine.ResistanceLabel(eff.Resistance)),
		style(engine.FieldPowerShift, engine.PowerShiftLabel(eff.PowerShift)),
	)
	if hl.Active(now) {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render(changedText(hl, now)))
	}
	fmt.Fprintf(&b, "\n%s\n\n", cueText(eff))
	fmt.Fprintf(&b, "Leaderboard: %s\n", style(engine.FieldLeaderboard, onOff(eff.Leaderboard)))
	fmt.Fprintf(&b, "Lights: %s\n", style(engine.FieldLightSettings, lightsText(eff.LightSettings)))

	if f.Upcoming.HasChanges() {
		next := "Next"
		if f.Location.TimeUntilNext != nil {
			next = fmt.Sprintf("Next in %ds", *f.Location.TimeUntilNext)
		}
		fmt.Fprintf(&b, "\n%s\n", upcomingStyle.Render(next+": "+DescribeUpcoming(f.Upcoming)))
	}

	return appStyle.Render(b.String())
}

func header(f session.Frame) string {
	state := ""
	if !f.Playing {
		state = " " + dimStyle.Render("(paused)")
	}

	seg := f.Location.CurrentSegment
	if seg == nil {
		return fmt.Sprintf("%s / %s%s", FormatClock(wholeSeconds(f.Seconds)), FormatClock(f.Location.TotalDuration), state)
	}

	label := seg.Label
	if label == "" {
		label = "Segment"
	}
	return fmt.Sprintf("%s  %s / %s  -%s  %s%s",
		labelStyle.Render(label),
		FormatClock(f.Location.TimeElapsed),
		FormatClock(seg.Duration()),
		FormatClock(f.Location.TimeRemaining),
		ProgressBar(f.Location.Progress, progressWidth),
		state,
	)
}

func idleText(f session.Frame) string {
	switch {
	case f.Location.TimeUntilNext != nil:
		return fmt.Sprintf("Next segment in %ds", *f.Location.TimeUntilNext)
	case f.Location.TotalDuration > 0 && wholeSeconds(f.Seconds) >= f.Location.TotalDuration:
		return "Track finished"
	}
	return "Waiting"
}

// wholeSeconds floors a playback position the way the locator does.
func wholeSeconds(seconds float64) int {
	return int(math.Floor(seconds))
}

// changedText lists the highlighted fields with the whole seconds left on the highlight.
func changedText(hl *session.Highlight, now time.Time) string {
	names := make([]string, 0, hl.Fields.Len())
	for _, field := range hl.Fields.Fields() {
		names = append(names, string(field))
	}
	left := int(math.Ceil(hl.Remaining(now).Seconds()))
	return fmt.Sprintf("Changed: %s (%ds)", strings.Join(names, ", "), left)
}

func positionText(p timeline.Position) string {
	if p == "" {
		return "-"
	}
	return strings.ToUpper(string(p))
}

func cueText(eff *engine.Effective) string {
	if eff.Cue == nil || *eff.Cue == "" {
		return dimStyle.Render("no cue")
	}

	style := lipgloss.NewStyle()
	switch eff.CueFontSize {
	case timeline.FontSizeSmall:
		style = style.Faint(true)
	case timeline.FontSizeLarge:
		style = style.Bold(true).Underline(true)
	}
	if eff.CuePulsing {
		style = style.Blink(true)
	}
	return style.Render(*eff.Cue)
}

func lightsText(light *string) string {
	if light == nil || *light == "" {
		return "off"
	}
	if swatch, ok := Swatch(*light); ok {
		return *light + " " + swatch
	}
	return *light
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// Swatch renders a block in the color of a hex light setting. ok is false when the value is not a hex
// color, e.g. a named scene.
func Swatch(light string) (swatch string, ok bool) {
	c, err := colorful.Hex(light)
	if err != nil {
		return "", false
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("██"), true
}

// PulseColor is the hex color of a highlighted field at the given pulse level.
func PulseColor(level float64) string {
	return pulseDim.BlendLab(pulseBright, utils.Clamp(level, 0, 1)).Clamped().Hex()
}

// ProgressBar renders progress in [0,1] as a fixed width bar.
func ProgressBar(progress float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(utils.Clamp(progress, 0, 1) * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// FormatClock formats whole seconds as m:ss.
func FormatClock(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%d:%02d", sign, seconds/60, seconds%60)
}

// DescribeUpcoming summarises an upcoming diff in canonical field order, e.g. `rpm 100-110, seated`.
func DescribeUpcoming(d engine.UpcomingDiff) string {
	parts := make([]string, 0, d.Fields.Len())
	for _, field := range d.Fields.Fields() {
		switch field {
		case engine.FieldCue:
			parts = append(parts, fmt.Sprintf("cue %q", *d.Cue))
		case engine.FieldRPMRange:
			parts = append(parts, "rpm "+*d.RPMRange)
		case engine.FieldPosition:
			parts = append(parts, string(*d.Position))
		case engine.FieldResistance:
			parts = append(parts, engine.ResistanceLabel(d.Resistance))
		case engine.FieldPowerShift:
			parts = append(parts, "power shift "+engine.PowerShiftLabel(*d.PowerShift))
		case engine.FieldLeaderboard:
			parts = append(parts, "leaderboard "+onOff(*d.Leaderboard))
		case engine.FieldLightSettings:
			parts = append(parts, "lights "+lightsName(*d.LightSettings))
		case engine.FieldCueFontSize:
			parts = append(parts, "cue "+string(*d.CueFontSize))
		case engine.FieldCuePulsing:
			parts = append(parts, "pulsing "+onOff(*d.CuePulsing))
		}
	}
	return strings.Join(parts, ", ")
}

func lightsName(light string) string {
	if light == "" {
		return "off"
	}
	return light
}
