// Package engine 组合拖尾与滚动堆叠两类动效
//
// 每个动效实例是一个 ECS 实体，携带 *components.TrailComponent 或
// *components.StackComponent。Engine 不是并发安全的，只应在帧调度的
// 执行上下文中调用；跨 goroutine 传递的只有 Frame 快照。
package engine

import (
	"fmt"
	"log"

	"github.com/decker502/motionfx/pkg/components"
	"github.com/decker502/motionfx/pkg/config"
	"github.com/decker502/motionfx/pkg/ecs"
	"github.com/decker502/motionfx/pkg/entities"
	"github.com/decker502/motionfx/pkg/scheduler"
	"github.com/decker502/motionfx/pkg/systems"
	"github.com/decker502/motionfx/pkg/utils"
)

// Engine 动效引擎
type Engine struct {
	entityManager *ecs.EntityManager
	trailSystem   *systems.TrailSystem
	stackSystem   *systems.ScrollStackSystem
	seq           uint64
}

// New 创建空引擎
func New() *Engine {
	em := ecs.NewEntityManager()
	return &Engine{
		entityManager: em,
		trailSystem:   systems.NewTrailSystem(em),
		stackSystem:   systems.NewScrollStackSystem(em),
	}
}

// NewFromConfig 按配置创建包含一个拖尾和一个堆叠的引擎
// handles 为 nil 时使用目标索引作为句柄
func NewFromConfig(cfg config.EffectsConfig, handles []any) (*Engine, ecs.EntityID, ecs.EntityID, error) {
	e := New()
	trailID, err := e.AddTrail(cfg.Trail)
	if err != nil {
		return nil, 0, 0, err
	}
	if handles == nil {
		handles = IndexHandles(cfg.Stack.Count)
	}
	stackID, err := e.AddStack(cfg.Stack, handles)
	if err != nil {
		return nil, 0, 0, err
	}
	return e, trailID, stackID, nil
}

// IndexHandles 返回 0..n-1 的句柄列表
func IndexHandles(n int) []any {
	if n < 0 {
		n = 0
	}
	handles := make([]any, n)
	for i := range handles {
		handles[i] = i
	}
	return handles
}

// AddTrail 添加光标拖尾
func (e *Engine) AddTrail(cfg config.TrailConfig) (ecs.EntityID, error) {
	return entities.NewTrailEntity(e.entityManager, cfg)
}

// AddStack 添加滚动堆叠，len(handles) 必须等于 cfg.Count
func (e *Engine) AddStack(cfg config.StackConfig, handles []any) (ecs.EntityID, error) {
	return entities.NewStackEntity(e.entityManager, cfg, handles)
}

// ReconfigureTrail 用新配置重建拖尾，跟随点回到原点
func (e *Engine) ReconfigureTrail(id ecs.EntityID, cfg config.TrailConfig) error {
	if !ecs.HasComponent[*components.TrailComponent](e.entityManager, id) {
		return fmt.Errorf("entity %d is not a trail", id)
	}
	trail, err := entities.NewTrailComponent(cfg)
	if err != nil {
		return fmt.Errorf("failed to reconfigure trail %d: %w", id, err)
	}
	e.entityManager.AddComponent(id, trail)
	log.Printf("[Engine] Reconfigured trail %d (%d followers)", id, len(trail.Followers))
	return nil
}

// ReconfigureStack 用新配置重建堆叠
// 目标句柄和当前平滑进度保留，新的目标数量必须与原来一致
func (e *Engine) ReconfigureStack(id ecs.EntityID, cfg config.StackConfig) error {
	old, ok := ecs.GetComponent[*components.StackComponent](e.entityManager, id)
	if !ok {
		return fmt.Errorf("entity %d is not a stack", id)
	}
	handles := make([]any, len(old.Targets))
	for i, t := range old.Targets {
		handles[i] = t.Handle
	}
	stack, err := entities.NewStackComponent(cfg, handles)
	if err != nil {
		return fmt.Errorf("failed to reconfigure stack %d: %w", id, err)
	}
	stack.RawProgress = old.RawProgress
	stack.Progress = old.Progress
	stack.Progress.AtRest = false
	systems.ApplyStackProgress(stack, utils.Clamp01(stack.Progress.Value))

	e.entityManager.AddComponent(id, stack)
	log.Printf("[Engine] Reconfigured stack %d (%s/%s)", id, stack.Segmenter.Policy, stack.ZOrder)
	return nil
}

// Remove 移除动效实例
func (e *Engine) Remove(id ecs.EntityID) error {
	if !e.entityManager.Exists(id) {
		return fmt.Errorf("entity %d does not exist", id)
	}
	e.entityManager.DestroyEntity(id)
	e.entityManager.RemoveMarkedEntities()
	return nil
}

// Len 返回动效实例数量
func (e *Engine) Len() int {
	return e.entityManager.EntityCount()
}

// Step 推进一帧并返回快照
// 签名与 scheduler.StepFunc[Frame] 一致，可以直接交给 FrameScheduler
func (e *Engine) Step(dt float64, sample scheduler.Sample) Frame {
	e.trailSystem.Update(dt, systems.PointerInput{
		Position: sample.Pointer,
		Present:  sample.PointerPresent,
	})
	e.stackSystem.Update(dt, systems.ProgressInput{
		Value: sample.Progress,
		Valid: sample.HasProgress,
	})
	e.seq++
	return e.Snapshot(dt)
}

// Snapshot 返回当前状态的快照（不推进）
func (e *Engine) Snapshot(dt float64) Frame {
	frame := Frame{Seq: e.seq, DT: dt}

	for _, id := range ecs.GetEntitiesWith1[*components.TrailComponent](e.entityManager) {
		trail, _ := ecs.GetComponent[*components.TrailComponent](e.entityManager, id)
		frame.Trails = append(frame.Trails, snapshotTrail(id, trail))
	}
	for _, id := range ecs.GetEntitiesWith1[*components.StackComponent](e.entityManager) {
		stack, _ := ecs.GetComponent[*components.StackComponent](e.entityManager, id)
		frame.Stacks = append(frame.Stacks, snapshotStack(id, stack, utils.Clamp01(stack.Progress.Value)))
	}
	return frame
}
