package motion

import (
	"fmt"
	"sort"
)

// ZOrderPolicy 绘制顺序（z-index）策略
// 同一个堆叠内只能使用一种策略，混用会导致相邻目标交替遮挡（z-fighting）
type ZOrderPolicy int

const (
	// ZOrderEmphasis 按显著度动态排序（默认）
	// 显著度最高（最接近窗口中点）的目标位于最上层，其余按显著度降序、
	// 同显著度按索引升序排列；所有显著度相同时退化为 count - index
	ZOrderEmphasis ZOrderPolicy = iota

	// ZOrderStatic 静态顺序 count - index，运行期间不变
	ZOrderStatic
)

// String 返回策略名称（与 YAML 配置一致）
func (p ZOrderPolicy) String() string {
	switch p {
	case ZOrderEmphasis:
		return "emphasis"
	case ZOrderStatic:
		return "static"
	default:
		return fmt.Sprintf("ZOrderPolicy(%d)", int(p))
	}
}

// ParseZOrderPolicy 解析策略名称
func ParseZOrderPolicy(name string) (ZOrderPolicy, error) {
	switch name {
	case "emphasis", "":
		return ZOrderEmphasis, nil
	case "static":
		return ZOrderStatic, nil
	default:
		return ZOrderEmphasis, fmt.Errorf("unknown z-order policy %q", name)
	}
}

// PaintOrders 计算每个目标的绘制顺序，写入 out 并返回
//
// 结果总是 {1..count} 的一个排列，数值越大越靠上。
// out 容量不足时重新分配。
func PaintOrders(policy ZOrderPolicy, emphasis []float64, out []int) []int {
	count := len(emphasis)
	if cap(out) < count {
		out = make([]int, count)
	}
	out = out[:count]

	if policy == ZOrderStatic {
		for i := range out {
			out[i] = count - i
		}
		return out
	}

	ranked := make([]int, count)
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return emphasis[ranked[a]] > emphasis[ranked[b]]
	})
	for rank, index := range ranked {
		out[index] = count - rank
	}
	return out
}
