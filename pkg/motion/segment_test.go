package motion

import (
	"math"
	"testing"
)

// TestWindowFor_DisjointPartition 窗口必须连续、不重叠，且并集精确覆盖 [0,1]
func TestWindowFor_DisjointPartition(t *testing.T) {
	for count := 1; count <= 17; count++ {
		prevEnd := 0.0
		for i := 0; i < count; i++ {
			w := WindowFor(i, count)
			if w.Start > w.End {
				t.Fatalf("count=%d index=%d: Start %v > End %v", count, i, w.Start, w.End)
			}
			if w.Start != prevEnd {
				t.Fatalf("count=%d index=%d: 窗口不连续, Start %v != 上一个 End %v", count, i, w.Start, prevEnd)
			}
			prevEnd = w.End
		}
		if prevEnd != 1 {
			t.Errorf("count=%d: 最后一个窗口 End = %v, 期望 1", count, prevEnd)
		}
	}
}

func TestWindowFor_EdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		index int
		count int
		want  Window
	}{
		{"单个目标", 0, 1, Window{Start: 0, End: 1}},
		{"零个目标", 0, 0, Window{}},
		{"负数目标", 0, -2, Window{}},
		{"索引越界", 3, 3, Window{}},
		{"负索引", -1, 3, Window{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowFor(tt.index, tt.count); got != tt.want {
				t.Errorf("WindowFor(%d, %d) = %+v, 期望 %+v", tt.index, tt.count, got, tt.want)
			}
		})
	}
}

func TestLocalProgress_Disjoint(t *testing.T) {
	w := WindowFor(1, 3) // [1/3, 2/3]

	tests := []struct {
		name   string
		global float64
		want   float64
	}{
		{"窗口之前", 0.1, 0},
		{"窗口起点", 1.0 / 3, 0},
		{"窗口中点", 0.5, 0.5},
		{"窗口终点", 2.0 / 3, 1},
		{"窗口之后", 0.9, 1},
		{"全局越界", 7, 1},
		{"NaN", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalProgress(SegmentDisjoint, tt.global, w)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LocalProgress(%v) = %v, 期望 %v", tt.global, got, tt.want)
			}
		})
	}
}

func TestLocalProgress_Centered(t *testing.T) {
	w := WindowFor(0, 2) // [0, 0.5]

	tests := []struct {
		name   string
		global float64
		want   float64
	}{
		{"起点", 0, 0},
		{"四分之一", 0.125, 0.5},
		{"中点峰值", 0.25, 1},
		{"四分之三", 0.375, 0.5},
		{"终点", 0.5, 0},
		{"窗口之后", 0.8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalProgress(SegmentCentered, tt.global, w)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LocalProgress(%v) = %v, 期望 %v", tt.global, got, tt.want)
			}
		})
	}
}

func TestSegmenter_SingleTargetIdentity(t *testing.T) {
	s := Segmenter{Policy: SegmentDisjoint, Count: 1}
	for _, g := range []float64{0, 0.2, 0.5, 0.77, 1} {
		if got := s.Local(0, g); math.Abs(got-g) > 1e-12 {
			t.Errorf("单目标应为恒等映射: Local(%v) = %v", g, got)
		}
	}
}

func TestSegmenter_ZeroCountNoop(t *testing.T) {
	s := Segmenter{Policy: SegmentCentered, Count: 0}
	if got := s.Local(0, 0.5); got != 0 {
		t.Errorf("零目标 Local = %v, 期望 0", got)
	}
	if got := s.Emphasis(0, 0.5); got != 0 {
		t.Errorf("零目标 Emphasis = %v, 期望 0", got)
	}
	if got := s.Window(0); got != (Window{}) {
		t.Errorf("零目标 Window = %+v, 期望零窗口", got)
	}
}

func TestEmphasis(t *testing.T) {
	s := Segmenter{Policy: SegmentDisjoint, Count: 3}

	tests := []struct {
		name   string
		index  int
		global float64
		want   float64
	}{
		{"第一个窗口中点", 0, 1.0 / 6, 1},
		{"第一个窗口边缘", 0, 1.0 / 3, 0},
		{"第二个窗口四分之一", 1, 5.0 / 12, 0.5},
		{"窗口之外", 2, 0.1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Emphasis(tt.index, tt.global)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Emphasis(%d, %v) = %v, 期望 %v", tt.index, tt.global, got, tt.want)
			}
		})
	}
}

func TestWindow_Remap_ZeroWidth(t *testing.T) {
	w := Window{Start: 0.5, End: 0.5}
	if got := w.Remap(0.4); got != 0 {
		t.Errorf("零宽窗口之前 = %v, 期望 0", got)
	}
	if got := w.Remap(0.5); got != 1 {
		t.Errorf("零宽窗口到达 = %v, 期望 1", got)
	}
}

func TestParseSegmentPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    SegmentPolicy
		wantErr bool
	}{
		{"disjoint", SegmentDisjoint, false},
		{"centered", SegmentCentered, false},
		{"", SegmentDisjoint, false},
		{"overlap", SegmentDisjoint, true},
	}
	for _, tt := range tests {
		got, err := ParseSegmentPolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseSegmentPolicy(%q) = %v, %v", tt.in, got, err)
		}
		if err == nil && tt.in != "" && got.String() != tt.in {
			t.Errorf("String() = %q, 期望 %q", got.String(), tt.in)
		}
	}
}
