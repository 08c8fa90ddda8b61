package components

import (
	"testing"

	"github.com/decker502/motionfx/pkg/types"
)

func TestTrailComponent_Reset(t *testing.T) {
	trail := &TrailComponent{
		Followers: []FollowerState{
			{Position: types.Vector2{X: 10, Y: 20}, Size: 60, Duration: 0.1},
			{Position: types.Vector2{X: 30, Y: 40}, Size: 125, Duration: 0.5},
		},
		Visible: true,
		Opacity: 1,
	}

	trail.Reset()

	for i, f := range trail.Followers {
		if f.Position != (types.Vector2{}) {
			t.Errorf("跟随点 %d 未回到原点: %+v", i, f.Position)
		}
	}
	// 尺寸和时长不受影响
	if trail.Followers[1].Size != 125 || trail.Followers[1].Duration != 0.5 {
		t.Errorf("Reset 不应修改外观参数: %+v", trail.Followers[1])
	}
	if trail.Visible || trail.Opacity != 0 {
		t.Errorf("Reset 后应隐藏: visible=%v opacity=%v", trail.Visible, trail.Opacity)
	}
}

func TestTrailComponent_Leader(t *testing.T) {
	empty := &TrailComponent{}
	if got := empty.Leader(); got != (types.Vector2{}) {
		t.Errorf("空拖尾 Leader() = %+v", got)
	}

	trail := &TrailComponent{Followers: []FollowerState{{Position: types.Vector2{X: 3, Y: 4}}}}
	if got := trail.Leader(); got.X != 3 || got.Y != 4 {
		t.Errorf("Leader() = %+v", got)
	}
}

func TestParseTrailShape(t *testing.T) {
	tests := []struct {
		in   string
		want TrailShape
	}{
		{"circle", ShapeCircle},
		{"square", ShapeSquare},
		{"", ShapeCircle},
		{"hexagon", ShapeCircle},
	}
	for _, tt := range tests {
		if got := ParseTrailShape(tt.in); got != tt.want {
			t.Errorf("ParseTrailShape(%q) = %v, 期望 %v", tt.in, got, tt.want)
		}
	}
	if ShapeSquare.String() != "square" || ShapeCircle.String() != "circle" {
		t.Error("String() 结果不正确")
	}
}

func TestStackComponent_Buffers(t *testing.T) {
	stack := &StackComponent{Targets: make([]StackTarget, 4)}

	emphasis, orders := stack.Buffers()
	if len(emphasis) != 4 || orders != nil {
		t.Fatalf("首次 Buffers() = %d/%v", len(emphasis), orders)
	}

	stack.SetOrders([]int{4, 3, 2, 1})
	emphasis2, orders2 := stack.Buffers()
	if &emphasis2[0] != &emphasis[0] {
		t.Error("emphasis 缓冲区应被复用")
	}
	if len(orders2) != 4 {
		t.Error("orders 缓冲区应被保留")
	}
}
