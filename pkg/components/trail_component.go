package components

import "github.com/decker502/motionfx/pkg/types"

// TrailShape 跟随点形状
type TrailShape int

const (
	ShapeCircle TrailShape = iota
	ShapeSquare
)

func (s TrailShape) String() string {
	if s == ShapeSquare {
		return "square"
	}
	return "circle"
}

// MarshalText 以形状名输出
func (s TrailShape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseTrailShape 解析形状名，未知名称回退为 circle
func ParseTrailShape(name string) TrailShape {
	if name == "square" {
		return ShapeSquare
	}
	return ShapeCircle
}

// FollowerState 单个跟随点的状态
type FollowerState struct {
	// Position 当前平滑后的位置（视口像素坐标）
	Position types.Vector2

	// Size 外圈直径（像素）
	Size float64

	// InnerSize 内圈直径（像素）
	InnerSize float64

	// Opacity 外圈透明度 (0.0-1.0)
	Opacity float64

	// Duration 平滑时长（秒），构造时已保证 > 0
	Duration float64
}

// TrailShadow 拖尾投影参数
type TrailShadow struct {
	Color   string
	Alpha   float64
	Blur    float64
	OffsetX float64
	OffsetY float64
}

// TrailComponent 光标拖尾组件
// 跟随点按链式排列：第 0 个追逐指针，第 i 个追逐第 i-1 个
type TrailComponent struct {
	Followers []FollowerState

	// Pointer 最近一次有效的指针位置，第 0 个跟随点追逐它
	Pointer types.Vector2

	// Visible 指针当前是否在视口内
	// 指针离开时跟随点冻结在原地，整体淡出，不销毁
	Visible bool

	// Opacity 整体透明度，按 FadeDuration 线性趋近 0 或 1
	Opacity float64

	// FadeDuration 整体淡入淡出时长（秒），0 表示立即切换
	FadeDuration float64

	Shape      TrailShape
	FillColor  string
	InnerColor string
	InnerAlpha float64
	Shadow     TrailShadow

	// ZIndex 拖尾层整体层级
	ZIndex int
}

// Reset 将所有跟随点放回原点并隐藏
func (t *TrailComponent) Reset() {
	for i := range t.Followers {
		t.Followers[i].Position = types.Vector2{}
	}
	t.Pointer = types.Vector2{}
	t.Visible = false
	t.Opacity = 0
}

// Leader 返回第一个跟随点的位置，没有跟随点时返回原点
func (t *TrailComponent) Leader() types.Vector2 {
	if len(t.Followers) == 0 {
		return types.Vector2{}
	}
	return t.Followers[0].Position
}
