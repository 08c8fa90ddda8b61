package entities

import (
	"fmt"
	"log"

	"github.com/decker502/motionfx/pkg/components"
	"github.com/decker502/motionfx/pkg/config"
	"github.com/decker502/motionfx/pkg/ecs"
	"github.com/decker502/motionfx/pkg/motion"
)

// NewTrailComponent 根据配置构造拖尾组件
// 所有跟随点从原点出发，整体透明度为 0（等待指针进入）
//
// 返回:
//   - *components.TrailComponent: 新的拖尾组件
//   - error: 配置校验失败时返回 *config.Error
func NewTrailComponent(cfg config.TrailConfig) (*components.TrailComponent, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	followers := make([]components.FollowerState, cfg.Count)
	for i := range followers {
		followers[i] = components.FollowerState{
			Size:      cfg.Sizes[i],
			InnerSize: cfg.InnerSizes[i],
			Opacity:   cfg.Opacities[i],
			Duration:  cfg.Durations[i],
		}
	}

	return &components.TrailComponent{
		Followers:    followers,
		FadeDuration: cfg.FadeDuration,
		Shape:        components.ParseTrailShape(cfg.Shape),
		FillColor:    cfg.FillColor,
		InnerColor:   cfg.InnerColor,
		InnerAlpha:   cfg.InnerAlpha,
		Shadow: components.TrailShadow{
			Color:   cfg.Shadow.Color,
			Alpha:   cfg.Shadow.Alpha,
			Blur:    cfg.Shadow.Blur,
			OffsetX: cfg.Shadow.OffsetX,
			OffsetY: cfg.Shadow.OffsetY,
		},
		ZIndex: cfg.ZIndex,
	}, nil
}

// NewStackComponent 根据配置和宿主句柄构造堆叠组件
// handles 的数量必须等于 cfg.Count
func NewStackComponent(cfg config.StackConfig, handles []any) (*components.StackComponent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(handles) != cfg.Count {
		return nil, &config.Error{
			Field:  "stack.count",
			Reason: fmt.Sprintf("is %d but %d target handles were supplied", cfg.Count, len(handles)),
		}
	}

	channels, err := buildChannels(cfg.Channels)
	if err != nil {
		return nil, err
	}

	targets := make([]components.StackTarget, len(handles))
	for i, h := range handles {
		targets[i] = components.StackTarget{
			Handle: h,
			Visual: components.StackVisual{
				Index:      i,
				Window:     motion.WindowFor(i, cfg.Count),
				PaintOrder: cfg.Count - i,
			},
		}
	}

	return &components.StackComponent{
		Targets:   targets,
		Spring:    cfg.Spring.MotionSpring(),
		Segmenter: motion.Segmenter{Policy: cfg.SegmentPolicy(), Count: cfg.Count},
		ZOrder:    cfg.ZOrderPolicy(),
		Channels:  channels,
	}, nil
}

func buildChannels(c config.ChannelsConfig) (components.StackChannels, error) {
	var ch components.StackChannels
	var err error
	if ch.Scale, err = c.Scale.Set(); err != nil {
		return ch, fmt.Errorf("scale: %w", err)
	}
	if ch.Opacity, err = c.Opacity.Set(); err != nil {
		return ch, fmt.Errorf("opacity: %w", err)
	}
	if ch.OffsetY, err = c.OffsetY.Set(); err != nil {
		return ch, fmt.Errorf("offset_y: %w", err)
	}
	if ch.RotateX, err = c.RotateX.Set(); err != nil {
		return ch, fmt.Errorf("rotate_x: %w", err)
	}
	if ch.Glow, err = c.GlowSet(); err != nil {
		return ch, err
	}
	ch.GlowColor = c.GlowColor
	return ch, nil
}

// NewTrailEntity 创建光标拖尾实体
func NewTrailEntity(em *ecs.EntityManager, cfg config.TrailConfig) (ecs.EntityID, error) {
	trail, err := NewTrailComponent(cfg)
	if err != nil {
		return ecs.InvalidEntity, fmt.Errorf("failed to create trail: %w", err)
	}
	id := em.CreateEntity()
	em.AddComponent(id, trail)
	log.Printf("[EffectFactory] Created trail entity %d (%d followers, %s)", id, len(trail.Followers), trail.Shape)
	return id, nil
}

// NewStackEntity 创建滚动堆叠实体
func NewStackEntity(em *ecs.EntityManager, cfg config.StackConfig, handles []any) (ecs.EntityID, error) {
	stack, err := NewStackComponent(cfg, handles)
	if err != nil {
		return ecs.InvalidEntity, fmt.Errorf("failed to create stack: %w", err)
	}
	id := em.CreateEntity()
	em.AddComponent(id, stack)
	log.Printf("[EffectFactory] Created stack entity %d (%d targets, %s/%s)",
		id, len(stack.Targets), stack.Segmenter.Policy, stack.ZOrder)
	return id, nil
}
