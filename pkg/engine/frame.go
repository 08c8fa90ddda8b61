package engine

import (
	"github.com/decker502/motionfx/pkg/components"
	"github.com/decker502/motionfx/pkg/ecs"
	"github.com/decker502/motionfx/pkg/types"
)

// Frame 一帧的只读快照
// 所有字段都是值拷贝，可以安全地交给其他 goroutine
type Frame struct {
	Seq    uint64
	DT     float64
	Trails []TrailFrame
	Stacks []StackFrame
}

// FollowerFrame 单个跟随点的快照
type FollowerFrame struct {
	Position  types.Vector2
	Size      float64
	InnerSize float64
	Opacity   float64
}

// TrailFrame 光标拖尾的快照
type TrailFrame struct {
	ID         ecs.EntityID
	Visible    bool
	Opacity    float64
	Shape      components.TrailShape
	FillColor  string
	InnerColor string
	InnerAlpha float64
	Shadow     components.TrailShadow
	ZIndex     int
	Followers  []FollowerFrame
}

// TargetFrame 堆叠目标的快照
type TargetFrame struct {
	Handle                 any
	components.StackVisual `yaml:",inline"`
}

// StackFrame 滚动堆叠的快照
type StackFrame struct {
	ID ecs.EntityID
	// Progress 平滑并截断后的全局进度
	Progress float64
	// RawProgress 最近一次输入的全局进度
	RawProgress float64
	AtRest      bool
	GlowColor   string
	Targets     []TargetFrame
}

// Renderer 消费帧快照的绘制端
type Renderer interface {
	Render(frame Frame)
}

// RendererFunc 函数适配器
type RendererFunc func(frame Frame)

// Render 实现 Renderer
func (f RendererFunc) Render(frame Frame) {
	f(frame)
}

// Fanout 返回依次调用所有 Renderer 的发布函数，nil 项被跳过
func Fanout(renderers ...Renderer) func(Frame) {
	return func(frame Frame) {
		for _, r := range renderers {
			if r != nil {
				r.Render(frame)
			}
		}
	}
}

func snapshotTrail(id ecs.EntityID, t *components.TrailComponent) TrailFrame {
	followers := make([]FollowerFrame, len(t.Followers))
	for i, f := range t.Followers {
		followers[i] = FollowerFrame{
			Position:  f.Position,
			Size:      f.Size,
			InnerSize: f.InnerSize,
			Opacity:   f.Opacity,
		}
	}
	return TrailFrame{
		ID:         id,
		Visible:    t.Visible,
		Opacity:    t.Opacity,
		Shape:      t.Shape,
		FillColor:  t.FillColor,
		InnerColor: t.InnerColor,
		InnerAlpha: t.InnerAlpha,
		Shadow:     t.Shadow,
		ZIndex:     t.ZIndex,
		Followers:  followers,
	}
}

func snapshotStack(id ecs.EntityID, s *components.StackComponent, progress float64) StackFrame {
	targets := make([]TargetFrame, len(s.Targets))
	for i, target := range s.Targets {
		targets[i] = TargetFrame{Handle: target.Handle, StackVisual: target.Visual}
	}
	return StackFrame{
		ID:          id,
		Progress:    progress,
		RawProgress: s.RawProgress,
		AtRest:      s.Progress.AtRest,
		GlowColor:   s.Channels.GlowColor,
		Targets:     targets,
	}
}
