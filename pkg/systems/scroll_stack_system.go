package systems

import (
	"github.com/decker502/motionfx/pkg/components"
	"github.com/decker502/motionfx/pkg/ecs"
	"github.com/decker502/motionfx/pkg/motion"
	"github.com/decker502/motionfx/pkg/utils"
)

// ProgressInput 一帧的滚动进度输入
type ProgressInput struct {
	// Value 全局滚动进度，超出 [0,1] 的值被截断
	Value float64
	// Valid 本帧是否有进度样本；无样本时沿用上一次的目标
	Valid bool
}

// ScrollStackSystem 推进所有滚动堆叠
//
// 每帧流程：截断原始进度 -> 弹簧平滑 -> 截断平滑值 ->
// 逐目标计算窗口、局部进度、突出程度和各通道 -> 整体解析绘制顺序。
type ScrollStackSystem struct {
	entityManager *ecs.EntityManager
}

// NewScrollStackSystem 创建滚动堆叠系统
func NewScrollStackSystem(em *ecs.EntityManager) *ScrollStackSystem {
	return &ScrollStackSystem{
		entityManager: em,
	}
}

// Update 推进一帧
func (s *ScrollStackSystem) Update(dt float64, progress ProgressInput) {
	entities := ecs.GetEntitiesWith1[*components.StackComponent](s.entityManager)
	for _, id := range entities {
		stack, ok := ecs.GetComponent[*components.StackComponent](s.entityManager, id)
		if !ok {
			continue
		}
		UpdateStack(stack, dt, progress)
	}
}

// UpdateStack 推进单个堆叠
func UpdateStack(stack *components.StackComponent, dt float64, progress ProgressInput) {
	if progress.Valid && utils.IsFinite(progress.Value) {
		stack.RawProgress = utils.Clamp01(progress.Value)
	}
	stack.Progress = stack.Spring.Advance(stack.Progress, stack.RawProgress, dt)

	// 欠阻尼弹簧可能越过端点，分段前再截断一次
	ApplyStackProgress(stack, utils.Clamp01(stack.Progress.Value))
}

// ApplyStackProgress 按给定的全局进度计算所有目标的视觉状态
func ApplyStackProgress(stack *components.StackComponent, global float64) {
	emphasis, orders := stack.Buffers()
	seg := stack.Segmenter
	ch := &stack.Channels

	for i := range stack.Targets {
		v := &stack.Targets[i].Visual
		v.Index = i
		v.Window = seg.Window(i)
		v.LocalProgress = seg.LocalProgress(global, v.Window)
		v.Emphasis = motion.Emphasis(global, v.Window)

		v.Scale = ch.Scale.Evaluate(v.LocalProgress)
		v.Opacity = ch.Opacity.Evaluate(v.LocalProgress)
		v.OffsetY = ch.OffsetY.Evaluate(v.LocalProgress)
		v.RotateX = ch.RotateX.Evaluate(v.LocalProgress)
		v.Glow = ch.Glow.Evaluate(v.LocalProgress)

		emphasis[i] = v.Emphasis
	}

	orders = motion.PaintOrders(stack.ZOrder, emphasis, orders)
	for i := range stack.Targets {
		stack.Targets[i].Visual.PaintOrder = orders[i]
	}
	stack.SetOrders(orders)
}
