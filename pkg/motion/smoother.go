// Package motion 提供逐帧运动计算：指数衰减平滑、阻尼弹簧、进度分段与绘制顺序
//
// 本包只包含纯计算，不持有任何调度状态；每个函数都在一帧内同步调用。
package motion

import (
	"math"

	"github.com/decker502/motionfx/pkg/types"
	"github.com/decker502/motionfx/pkg/utils"
)

const (
	// MinDuration 平滑时长下限（秒）
	// 非正数时长会被提升到该值，避免 dt/duration 除零
	MinDuration = 1e-4

	// DefaultFrameDT 首帧（尚无上一帧时间戳）使用的帧间隔，假定 60Hz
	DefaultFrameDT = 1.0 / 60.0
)

// SanitizeDuration 将非正数或非有限的时长提升到 MinDuration
func SanitizeDuration(duration float64) float64 {
	if !utils.IsFinite(duration) || duration < MinDuration {
		return MinDuration
	}
	return duration
}

// ExpFactor 计算指数衰减的单帧混合系数
//
// 公式：factor = 1 - exp(-dt / duration)
//   - duration 越小，factor 越接近 1（几乎立即到达目标）
//   - duration 越大，factor 越接近 0（明显滞后）
//
// dt <= 0 或非有限时返回 0（本帧不移动）
func ExpFactor(dt, duration float64) float64 {
	if !utils.IsFinite(dt) || dt <= 0 {
		return 0
	}
	return 1 - math.Exp(-dt/SanitizeDuration(duration))
}

// Advance 对标量执行一次指数衰减平滑
// 返回 current + (target - current) * factor
//
// factor ∈ [0, 1]，因此结果永远不会越过目标值
func Advance(current, target, dt, duration float64) float64 {
	return current + (target-current)*ExpFactor(dt, duration)
}

// AdvanceVector 对二维坐标执行一次指数衰减平滑
// 两个分量使用同一个 factor
func AdvanceVector(current, target types.Vector2, dt, duration float64) types.Vector2 {
	factor := ExpFactor(dt, duration)
	return types.Vector2{
		X: current.X + (target.X-current.X)*factor,
		Y: current.Y + (target.Y-current.Y)*factor,
	}
}
