package keyframe

import (
	"github.com/decker502/motionfx/pkg/utils"
)

// NewSet builds a validated table from parallel stop/value slices.
func NewSet(stops, values []float64) (Set, error) {
	if len(stops) != len(values) {
		return Set{}, &Error{Index: -1, Reason: "stops and values differ in length"}
	}
	s := Set{Keyframes: make([]Keyframe, len(stops))}
	for i := range stops {
		s.Keyframes[i] = Keyframe{Stop: stops[i], Value: values[i]}
	}
	if err := s.Validate(); err != nil {
		return Set{}, err
	}
	return s, nil
}

// MustSet is NewSet for tables known to be valid at compile time (defaults).
func MustSet(stops, values []float64) Set {
	s, err := NewSet(stops, values)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks the table invariants.
func (s Set) Validate() error {
	n := len(s.Keyframes)
	if n == 0 {
		return &Error{Index: -1, Reason: "table is empty"}
	}
	for i, k := range s.Keyframes {
		if !utils.IsFinite(k.Stop) || !utils.IsFinite(k.Value) {
			return &Error{Index: i, Reason: "stop and value must be finite"}
		}
		if i > 0 && k.Stop < s.Keyframes[i-1].Stop {
			return &Error{Index: i, Reason: "stops must be non-decreasing"}
		}
	}
	if s.Keyframes[0].Stop != 0 {
		return &Error{Index: 0, Reason: "first stop must be 0"}
	}
	if s.Keyframes[n-1].Stop != 1 {
		return &Error{Index: n - 1, Reason: "last stop must be 1"}
	}
	if _, ok := utils.EaseByName(s.Ease); !ok {
		return &Error{Index: -1, Reason: "unknown ease " + s.Ease}
	}
	return nil
}

// Evaluate interpolates parallel stop/value slices at progress p.
//
// p is clamped to [0,1] (NaN reads as 0). Inside a bracket
// stops[j] <= p <= stops[j+1] the result is the linear blend of values[j]
// and values[j+1]; a zero-width bracket yields values[j]. Mismatched slice
// lengths use the shorter one; an empty table yields 0.
func Evaluate(p float64, stops, values []float64) float64 {
	n := min(len(stops), len(values))
	return evaluate(p, n, func(i int) (float64, float64) {
		return stops[i], values[i]
	}, utils.EaseLinear)
}

// Evaluate interpolates the table at progress p, applying the table's ease
// inside each bracket.
func (s Set) Evaluate(p float64) float64 {
	ease, _ := utils.EaseByName(s.Ease)
	return evaluate(p, len(s.Keyframes), func(i int) (float64, float64) {
		return s.Keyframes[i].Stop, s.Keyframes[i].Value
	}, ease)
}

// Evaluate interpolates blur and alpha at the same progress.
func (g GlowSet) Evaluate(p float64) Glow {
	return Glow{
		Blur:  g.Blur.Evaluate(p),
		Alpha: g.Alpha.Evaluate(p),
	}
}

// Validate checks both glow tables.
func (g GlowSet) Validate() error {
	if err := g.Blur.Validate(); err != nil {
		return err
	}
	return g.Alpha.Validate()
}

func evaluate(p float64, n int, at func(i int) (float64, float64), ease utils.EaseFunc) float64 {
	if n == 0 {
		return 0
	}
	p = utils.Clamp01(p)

	stop0, value0 := at(0)
	if n == 1 || p <= stop0 {
		return value0
	}

	// 线性扫描：表长度通常只有 3~4 个关键帧
	for j := 0; j < n-1; j++ {
		s0, v0 := at(j)
		s1, v1 := at(j + 1)
		if p > s1 {
			continue
		}
		width := s1 - s0
		if width <= 0 {
			return v0
		}
		ratio := ease((p - s0) / width)
		return v0 + (v1-v0)*ratio
	}

	_, last := at(n - 1)
	return last
}
