package motion

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/decker502/motionfx/pkg/utils"
)

// maxSpringStep 单次求解的最大步长（秒）
// 超过该值的 dt 会被拆分为多个子步，保证求解稳定
const maxSpringStep = 1.0 / 30.0

// Spring 阻尼弹簧参数
//
// 参数含义与常见动画库一致：
//   - Stiffness: 刚度 k
//   - Damping: 阻尼 c
//   - Mass: 质量 m（默认 1）
//   - RestDelta: 位置误差小于该值视为静止
//   - RestSpeed: 速度小于该值视为静止
//
// 角频率 ω = √(k/m)，阻尼比 ζ = c / (2√(km))。
// ζ >= 1 为临界/过阻尼（不会越过目标），ζ < 1 为欠阻尼（会越过目标但仍会收敛）。
type Spring struct {
	Stiffness float64
	Damping   float64
	Mass      float64
	RestDelta float64
	RestSpeed float64

	// 按步长与参数缓存的 harmonica 系数
	cacheStep  float64
	cacheOmega float64
	cacheZeta  float64
	cache      harmonica.Spring
}

// SpringState 弹簧的逐帧状态
type SpringState struct {
	Value    float64
	Velocity float64
	AtRest   bool
}

// DefaultSpring 返回滚动进度使用的默认弹簧（k=50, c=25, m=1, restDelta=0.001）
func DefaultSpring() Spring {
	return Spring{
		Stiffness: 50,
		Damping:   25,
		Mass:      1,
		RestDelta: 0.001,
		RestSpeed: 0.01,
	}
}

// AngularFrequency 返回 ω = √(k/m)
func (s *Spring) AngularFrequency() float64 {
	if s.Stiffness <= 0 {
		return 0
	}
	return math.Sqrt(s.Stiffness / s.mass())
}

// DampingRatio 返回 ζ = c / (2√(km))
func (s *Spring) DampingRatio() float64 {
	if s.Stiffness <= 0 || s.Damping <= 0 {
		return 0
	}
	denom := 2 * math.Sqrt(s.Stiffness*s.mass())
	if denom == 0 {
		return 0
	}
	return s.Damping / denom
}

func (s *Spring) mass() float64 {
	if s.Mass <= 0 || !utils.IsFinite(s.Mass) {
		return 1
	}
	return s.Mass
}

// Advance 将状态向 target 推进 dt 秒，返回新状态
//
// 纯状态转换：不修改传入的 state。dt <= 0 或非有限时原样返回；
// 非有限的 target 会被忽略（保持当前目标不变即保持当前值）。
// 误差与速度同时低于静止阈值时，状态吸附到目标并标记 AtRest。
func (s *Spring) Advance(state SpringState, target, dt float64) SpringState {
	if !utils.IsFinite(dt) || dt <= 0 {
		return state
	}
	if !utils.IsFinite(target) {
		target = state.Value
	}
	if state.AtRest && state.Value == target {
		return state
	}

	steps := int(math.Ceil(dt / maxSpringStep))
	if steps < 1 {
		steps = 1
	}
	h := dt / float64(steps)
	spring := s.solver(h)

	pos, vel := state.Value, state.Velocity
	for i := 0; i < steps; i++ {
		pos, vel = spring.Update(pos, vel, target)
	}

	// 数值异常时直接吸附到目标，绝不向外传播 NaN/Inf
	if !utils.IsFinite(pos) || !utils.IsFinite(vel) {
		return SpringState{Value: target, AtRest: true}
	}

	if math.Abs(target-pos) < s.RestDelta && math.Abs(vel) < s.restSpeed() {
		return SpringState{Value: target, AtRest: true}
	}
	return SpringState{Value: pos, Velocity: vel}
}

func (s *Spring) restSpeed() float64 {
	if s.RestSpeed <= 0 {
		return s.RestDelta
	}
	return s.RestSpeed
}

// solver 返回步长 h 对应的 harmonica 求解器，步长不变时复用缓存
func (s *Spring) solver(h float64) harmonica.Spring {
	omega, zeta := s.AngularFrequency(), s.DampingRatio()
	if h != s.cacheStep || omega != s.cacheOmega || zeta != s.cacheZeta {
		s.cache = harmonica.NewSpring(h, omega, zeta)
		s.cacheStep, s.cacheOmega, s.cacheZeta = h, omega, zeta
	}
	return s.cache
}
