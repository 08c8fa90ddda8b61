package game

import "github.com/decker502/motionfx/pkg/utils"

// ScrollLayout 把滚动偏移换算成全局进度
// progress = offset / (content - viewport)，内容不超过视口时恒为 0
type ScrollLayout struct {
	ContentHeight  float64
	ViewportHeight float64
	Offset         float64
}

// NewScrollLayout 按目标数量创建布局：每个目标占一个视口高度的滚动距离
func NewScrollLayout(targets int, viewport float64) ScrollLayout {
	if targets < 1 {
		targets = 1
	}
	return ScrollLayout{
		ContentHeight:  viewport * float64(targets+1),
		ViewportHeight: viewport,
	}
}

// MaxOffset 最大滚动偏移
func (l ScrollLayout) MaxOffset() float64 {
	if l.ContentHeight <= l.ViewportHeight {
		return 0
	}
	return l.ContentHeight - l.ViewportHeight
}

// Scroll 按 delta 像素滚动，结果截断在 [0, MaxOffset]
func (l *ScrollLayout) Scroll(delta float64) {
	if !utils.IsFinite(delta) {
		return
	}
	l.Offset = utils.Clamp(l.Offset+delta, 0, l.MaxOffset())
}

// Resize 视口尺寸变化时保持进度不变
func (l *ScrollLayout) Resize(viewport float64) {
	if viewport <= 0 || viewport == l.ViewportHeight {
		return
	}
	p := l.Progress()
	ratio := viewport / l.ViewportHeight
	l.ViewportHeight = viewport
	l.ContentHeight *= ratio
	l.Offset = p * l.MaxOffset()
}

// Progress 返回全局进度 [0,1]
func (l ScrollLayout) Progress() float64 {
	limit := l.MaxOffset()
	if limit <= 0 {
		return 0
	}
	return utils.Clamp01(l.Offset / limit)
}
