package components

import (
	"github.com/decker502/motionfx/internal/keyframe"
	"github.com/decker502/motionfx/pkg/motion"
)

// StackVisual 单个堆叠目标在当前帧的视觉状态
type StackVisual struct {
	Index int

	// Window 目标在全局进度上占据的区间
	Window motion.Window

	// LocalProgress 分段策略映射后的局部进度 [0,1]
	LocalProgress float64

	// Emphasis 目标在自身窗口内的突出程度，窗口中点为 1，边缘为 0
	Emphasis float64

	Scale   float64
	Opacity float64
	OffsetY float64 // 像素
	RotateX float64 // 角度
	Glow    keyframe.Glow

	// PaintOrder 绘制顺序，1..N，数值大的绘制在上层
	PaintOrder int
}

// StackTarget 堆叠中的一个目标
type StackTarget struct {
	// Handle 宿主提供的不透明句柄（例如 UI 元素），引擎不解释其内容
	Handle any

	Visual StackVisual
}

// StackChannels 各视觉通道的关键帧表
type StackChannels struct {
	Scale     keyframe.Set
	Opacity   keyframe.Set
	OffsetY   keyframe.Set
	RotateX   keyframe.Set
	Glow      keyframe.GlowSet
	GlowColor string
}

// StackComponent 滚动堆叠组件
type StackComponent struct {
	Targets []StackTarget

	// RawProgress 最近一次输入的全局进度（已截断到 [0,1]）
	RawProgress float64

	// Progress 弹簧平滑后的全局进度
	Progress motion.SpringState

	Spring    motion.Spring
	Segmenter motion.Segmenter
	ZOrder    motion.ZOrderPolicy
	Channels  StackChannels

	// emphasis 和 orders 为每帧复用的缓冲区
	emphasis []float64
	orders   []int
}

// Buffers 返回长度为目标数量的复用缓冲区
func (s *StackComponent) Buffers() (emphasis []float64, orders []int) {
	n := len(s.Targets)
	if cap(s.emphasis) < n {
		s.emphasis = make([]float64, n)
	}
	s.emphasis = s.emphasis[:n]
	return s.emphasis, s.orders
}

// SetOrders 保存绘制顺序缓冲区以便下一帧复用
func (s *StackComponent) SetOrders(orders []int) {
	s.orders = orders
}
