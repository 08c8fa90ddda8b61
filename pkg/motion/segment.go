package motion

import (
	"fmt"
	"math"

	"github.com/decker502/motionfx/internal/keyframe"
	"github.com/decker502/motionfx/pkg/utils"
)

// SegmentPolicy 全局进度到局部进度的映射策略
type SegmentPolicy int

const (
	// SegmentDisjoint 互不重叠的窗口：局部进度是全局进度在窗口内的线性重映射
	// 每个目标在自己窗口的顶点处独占画面
	SegmentDisjoint SegmentPolicy = iota

	// SegmentCentered 中心偏置：窗口内局部进度再经过 [0,0.5,1]→[0,1,0] 整形
	// 目标在窗口中点达到峰值，两侧对称淡出，相邻目标部分共存（"堆叠"效果）
	SegmentCentered
)

// String 返回策略名称（与 YAML 配置一致）
func (p SegmentPolicy) String() string {
	switch p {
	case SegmentDisjoint:
		return "disjoint"
	case SegmentCentered:
		return "centered"
	default:
		return fmt.Sprintf("SegmentPolicy(%d)", int(p))
	}
}

// ParseSegmentPolicy 解析策略名称
func ParseSegmentPolicy(name string) (SegmentPolicy, error) {
	switch name {
	case "disjoint", "":
		return SegmentDisjoint, nil
	case "centered":
		return SegmentCentered, nil
	default:
		return SegmentDisjoint, fmt.Errorf("unknown segmentation policy %q", name)
	}
}

// Window 某个目标在全局进度中的活动区间 [Start, End]
// 派生值，不存储；Start <= End 恒成立
type Window struct {
	Start float64
	End   float64
}

// Width 返回窗口宽度
func (w Window) Width() float64 {
	return w.End - w.Start
}

// Center 返回窗口中点
func (w Window) Center() float64 {
	return (w.Start + w.End) / 2
}

// Contains 检查全局进度是否落在窗口内（含端点）
func (w Window) Contains(global float64) bool {
	return global >= w.Start && global <= w.End
}

// Remap 将全局进度线性映射到窗口内的 [0,1]，窗口外被限制
// 零宽窗口：进度到达 End 时为 1，否则为 0
func (w Window) Remap(global float64) float64 {
	if w.Width() <= 0 {
		if global >= w.End {
			return 1
		}
		return 0
	}
	return utils.Clamp01((global - w.Start) / w.Width())
}

// WindowFor 计算第 index 个目标（共 count 个）的窗口 [i/N, (i+1)/N]
// count <= 0 或 index 越界时返回零窗口
func WindowFor(index, count int) Window {
	if count <= 0 || index < 0 || index >= count {
		return Window{}
	}
	n := float64(count)
	start := float64(index) / n
	end := float64(index+1) / n
	if index == count-1 {
		end = 1 // 保证最后一个窗口精确闭合到 1
	}
	return Window{Start: start, End: end}
}

// centerShape 中心偏置整形曲线
var centerShape = keyframe.MustSet([]float64{0, 0.5, 1}, []float64{0, 1, 0})

// LocalProgress 按策略计算全局进度在窗口内的局部进度 ∈ [0,1]
func LocalProgress(policy SegmentPolicy, global float64, w Window) float64 {
	local := w.Remap(utils.Clamp01(global))
	if policy == SegmentCentered {
		return centerShape.Evaluate(local)
	}
	return local
}

// Emphasis 目标的显著度 ∈ [0,1]：窗口中点为 1，窗口边缘及以外为 0
// 与分段策略无关，用于绘制顺序的动态计算
func Emphasis(global float64, w Window) float64 {
	if w.Width() <= 0 {
		return 0
	}
	local := w.Remap(utils.Clamp01(global))
	return 1 - math.Abs(2*local-1)
}

// Segmenter 绑定了目标数量和策略的分段器
// Count == 0 时所有方法都是空操作
type Segmenter struct {
	Policy SegmentPolicy
	Count  int
}

// Window 返回第 index 个目标的窗口
func (s Segmenter) Window(index int) Window {
	return WindowFor(index, s.Count)
}

// LocalProgress 返回全局进度在窗口 w 内的局部进度
func (s Segmenter) LocalProgress(global float64, w Window) float64 {
	if s.Count <= 0 {
		return 0
	}
	return LocalProgress(s.Policy, global, w)
}

// Local 返回第 index 个目标的局部进度
func (s Segmenter) Local(index int, global float64) float64 {
	return s.LocalProgress(global, s.Window(index))
}

// Emphasis 返回第 index 个目标的显著度
func (s Segmenter) Emphasis(index int, global float64) float64 {
	if s.Count <= 0 {
		return 0
	}
	return Emphasis(global, s.Window(index))
}
