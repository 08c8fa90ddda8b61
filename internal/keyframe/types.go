// Package keyframe provides piecewise keyframe tables and their interpolation.
//
// A table maps local progress in [0,1] to one visual channel value (scale,
// opacity, offset, rotation, glow blur/alpha). Tables are validated once at
// construction; evaluation never fails and never divides by zero.
package keyframe

import "fmt"

// Keyframe is one (stop, value) pair of a table.
type Keyframe struct {
	Stop  float64 // Progress in [0,1] at which Value is exact
	Value float64 // Channel value at Stop
}

// Set is an ordered keyframe table for a single visual channel.
//
// Invariants (enforced by NewSet / Validate):
//   - at least one keyframe
//   - first stop is 0, last stop is 1
//   - stops are non-decreasing
//   - every stop and value is finite
type Set struct {
	Keyframes []Keyframe

	// Ease is applied to the ratio inside each bracket before the lerp.
	// Empty or "Linear" gives plain piecewise-linear interpolation.
	Ease string
}

// Glow is the composite shadow/glow channel: blur radius plus alpha,
// interpolated together from two independent tables.
type Glow struct {
	Blur  float64 // Blur radius in pixels
	Alpha float64 // Opacity of the glow colour (0-1)
}

// GlowSet holds the two tables behind a Glow.
type GlowSet struct {
	Blur  Set
	Alpha Set
}

// Error describes an invalid keyframe table.
type Error struct {
	Index  int // Offending keyframe index, -1 when the table as a whole is wrong
	Reason string
}

func (e *Error) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid keyframe table: %s", e.Reason)
	}
	return fmt.Sprintf("invalid keyframe table: keyframe #%d: %s", e.Index, e.Reason)
}

// Len returns the number of keyframes.
func (s Set) Len() int {
	return len(s.Keyframes)
}

// Stops returns a copy of the table's stops.
func (s Set) Stops() []float64 {
	stops := make([]float64, len(s.Keyframes))
	for i, k := range s.Keyframes {
		stops[i] = k.Stop
	}
	return stops
}

// Values returns a copy of the table's values.
func (s Set) Values() []float64 {
	values := make([]float64, len(s.Keyframes))
	for i, k := range s.Keyframes {
		values[i] = k.Value
	}
	return values
}
