package utils

import "math"

// Easing Functions (缓动函数)
//
// 缓动函数用于控制关键帧区间内的速度曲线。
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
//
// 参考：https://easings.net/

// EaseFunc 缓动函数签名
type EaseFunc func(t float64) float64

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic 三次方缓出
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInCubic 三次方缓入
// 公式：f(t) = t³
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseInOutCubic 三次方缓入缓出
// 公式：
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutQuad 二次方缓出
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInQuad 二次方缓入
// 公式：f(t) = t²
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseOutExpo 指数缓出
// 公式：f(t) = 1 - 2^(-10t)
func EaseOutExpo(t float64) float64 {
	if t >= 1.0 {
		return 1.0
	}
	return 1 - math.Pow(2, -10*t)
}

// easeByName 关键帧表中可用的缓动名称
// 名称与 YAML 配置中的写法保持一致
var easeByName = map[string]EaseFunc{
	"":             EaseLinear,
	"Linear":       EaseLinear,
	"EaseIn":       EaseInQuad,
	"EaseOut":      EaseOutQuad,
	"EaseInOut":    EaseInOutCubic,
	"EaseInCubic":  EaseInCubic,
	"EaseOutCubic": EaseOutCubic,
	"EaseOutExpo":  EaseOutExpo,
}

// EaseByName 根据名称查找缓动函数
// 未知名称返回 EaseLinear 和 false
func EaseByName(name string) (EaseFunc, bool) {
	if fn, ok := easeByName[name]; ok {
		return fn, true
	}
	return EaseLinear, false
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// InverseLerp 反向插值，返回 v 在 [a, b] 中的相对位置
// 区间宽度为 0 时返回 0（避免除零）
func InverseLerp(a, b, v float64) float64 {
	if b == a {
		return 0
	}
	return (v - a) / (b - a)
}

// Clamp 将 v 限制在 [lo, hi] 范围内
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 将 v 限制在 [0, 1] 范围内
// NaN 视为 0
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(v, 0, 1)
}

// IsFinite 检查 v 是否为有限值
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
