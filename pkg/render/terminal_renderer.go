package render

import (
	"math"
	"sort"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/motionfx/pkg/components"
	"github.com/decker502/motionfx/pkg/engine"
)

// CellMetrics 终端单元格对应的像素尺寸
// 引擎以像素为单位工作，终端宿主按单元格换算
type CellMetrics struct {
	Width  float64
	Height float64
}

// DefaultCellMetrics 常见等宽字体的单元格尺寸
var DefaultCellMetrics = CellMetrics{Width: 8, Height: 16}

// TerminalRenderer 在 tcell 屏幕上绘制帧快照
type TerminalRenderer struct {
	mu      sync.Mutex
	screen  tcell.Screen
	frame   engine.Frame
	colors  *ColorCache
	cell    CellMetrics
	layout  PanelLayout
	bgStyle tcell.Style
}

// NewTerminalRenderer 创建终端绘制端
func NewTerminalRenderer(screen tcell.Screen, cell CellMetrics, layout PanelLayout) *TerminalRenderer {
	if cell.Width <= 0 || cell.Height <= 0 {
		cell = DefaultCellMetrics
	}
	if layout.Width <= 0 || layout.Height <= 0 {
		layout = DefaultPanelLayout
	}
	return &TerminalRenderer{
		screen:  screen,
		colors:  NewColorCache(),
		cell:    cell,
		layout:  layout,
		bgStyle: tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite),
	}
}

// Render 保存快照并立即重绘
func (r *TerminalRenderer) Render(frame engine.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = frame
	r.drawLocked()
}

// Redraw 重绘最近一次快照（窗口尺寸变化时调用）
func (r *TerminalRenderer) Redraw() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawLocked()
}

// PixelToCell 像素坐标转换为单元格坐标
func (r *TerminalRenderer) PixelToCell(x, y float64) (int, int) {
	return int(math.Floor(x / r.cell.Width)), int(math.Floor(y / r.cell.Height))
}

// CellToPixel 单元格中心对应的像素坐标
func (r *TerminalRenderer) CellToPixel(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * r.cell.Width, (float64(row) + 0.5) * r.cell.Height
}

func (r *TerminalRenderer) drawLocked() {
	s := r.screen
	w, h := s.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s.SetContent(x, y, ' ', nil, r.bgStyle)
		}
	}

	for _, stack := range r.frame.Stacks {
		r.drawStack(stack, w, h)
	}
	for _, trail := range r.frame.Trails {
		r.drawTrail(trail, w, h)
	}
	s.Show()
}

func (r *TerminalRenderer) drawStack(stack engine.StackFrame, w, h int) {
	order := make([]int, len(stack.Targets))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return stack.Targets[order[a]].PaintOrder < stack.Targets[order[b]].PaintOrder
	})

	cx, cy := float64(w)/2, float64(h)/2
	for _, i := range order {
		t := stack.Targets[i]
		if t.Opacity <= 0 {
			continue
		}
		cols := r.layout.Width * t.Scale / r.cell.Width
		rows := r.layout.Height * t.Scale * math.Abs(math.Cos(t.RotateX*math.Pi/180)) / r.cell.Height
		top := cy + t.OffsetY/r.cell.Height - rows/2
		left := cx - cols/2

		bg := blend(r.colors, r.layout.Fill, t.Opacity)
		border := blend(r.colors, stack.GlowColor, math.Max(t.Glow.Alpha*2.5, 0.2)*t.Opacity)
		style := tcell.StyleDefault.Background(bg).Foreground(border)

		x0, y0 := int(math.Round(left)), int(math.Round(top))
		x1, y1 := int(math.Round(left+cols))-1, int(math.Round(top+rows))-1
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if x < 0 || y < 0 || x >= w || y >= h {
					continue
				}
				r.screen.SetContent(x, y, boxRune(x, y, x0, y0, x1, y1), nil, style)
			}
		}
		label := []rune{'#', rune('0' + i%10)}
		for k, ch := range label {
			if x, y := x0+1+k, y0; x < x1 && y >= 0 && y < h && x >= 0 && x < w {
				r.screen.SetContent(x, y, ch, nil, style)
			}
		}
	}
}

func (r *TerminalRenderer) drawTrail(trail engine.TrailFrame, w, h int) {
	if trail.Opacity <= 0 {
		return
	}
	glyph := '●'
	if trail.Shape == components.ShapeSquare {
		glyph = '■'
	}
	for i := len(trail.Followers) - 1; i >= 0; i-- {
		f := trail.Followers[i]
		col, row := r.PixelToCell(f.Position.X, f.Position.Y)
		if col < 0 || row < 0 || col >= w || row >= h {
			continue
		}
		fg := blend(r.colors, trail.FillColor, f.Opacity*trail.Opacity)
		r.screen.SetContent(col, row, glyph, nil, tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(fg))
	}
}

// blend 终端没有透明度，按 alpha 与黑色背景混合
func blend(cache *ColorCache, hex string, alpha float64) tcell.Color {
	c := WithAlpha(cache.Get(hex), alpha)
	a := float64(c.A) / 255
	return tcell.NewRGBColor(int32(float64(c.R)*a), int32(float64(c.G)*a), int32(float64(c.B)*a))
}

func boxRune(x, y, x0, y0, x1, y1 int) rune {
	switch {
	case x == x0 && y == y0:
		return '┌'
	case x == x1 && y == y0:
		return '┐'
	case x == x0 && y == y1:
		return '└'
	case x == x1 && y == y1:
		return '┘'
	case y == y0 || y == y1:
		return '─'
	case x == x0 || x == x1:
		return '│'
	}
	return ' '
}
