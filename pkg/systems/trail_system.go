package systems

import (
	"github.com/decker502/motionfx/pkg/components"
	"github.com/decker502/motionfx/pkg/ecs"
	"github.com/decker502/motionfx/pkg/motion"
	"github.com/decker502/motionfx/pkg/types"
	"github.com/decker502/motionfx/pkg/utils"
)

// PointerInput 一帧的指针输入
type PointerInput struct {
	Position types.Vector2
	// Present 指针是否在视口内
	Present bool
}

// TrailSystem 推进所有光标拖尾
//
// 链式跟随：第 0 个跟随点追逐指针，第 i 个追逐第 i-1 个在本帧更新前的位置。
// 为此从链尾向链头倒序更新。
type TrailSystem struct {
	entityManager *ecs.EntityManager
}

// NewTrailSystem 创建拖尾系统
func NewTrailSystem(em *ecs.EntityManager) *TrailSystem {
	return &TrailSystem{
		entityManager: em,
	}
}

// Update 推进一帧
// dt 非正或非有限时本帧不做任何修改
func (s *TrailSystem) Update(dt float64, pointer PointerInput) {
	if !(dt > 0) || !utils.IsFinite(dt) {
		return
	}

	entities := ecs.GetEntitiesWith1[*components.TrailComponent](s.entityManager)
	for _, id := range entities {
		trail, ok := ecs.GetComponent[*components.TrailComponent](s.entityManager, id)
		if !ok {
			continue
		}
		UpdateTrail(trail, dt, pointer)
	}
}

// UpdateTrail 推进单个拖尾
func UpdateTrail(trail *components.TrailComponent, dt float64, pointer PointerInput) {
	if pointer.Present && pointer.Position.IsFinite() {
		trail.Pointer = pointer.Position
	}
	trail.Visible = pointer.Present

	if trail.Visible {
		advanceChain(trail, dt)
		trail.Opacity = fade(trail.Opacity, 1, dt, trail.FadeDuration)
	} else {
		// 指针离开视口：跟随点冻结，整体淡出
		trail.Opacity = fade(trail.Opacity, 0, dt, trail.FadeDuration)
	}
}

func advanceChain(trail *components.TrailComponent, dt float64) {
	followers := trail.Followers
	for i := len(followers) - 1; i >= 0; i-- {
		target := trail.Pointer
		if i > 0 {
			target = followers[i-1].Position
		}
		followers[i].Position = motion.AdvanceVector(followers[i].Position, target, dt, followers[i].Duration)
	}
}

// fade 以恒定速度趋近目标透明度，duration <= 0 时立即到达
func fade(current, target, dt, duration float64) float64 {
	if duration <= 0 {
		return target
	}
	step := dt / duration
	if current < target {
		return utils.Clamp(current+step, current, target)
	}
	return utils.Clamp(current-step, target, current)
}
