package render

import (
	"image/color"
	"math"
	"sort"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/motionfx/pkg/components"
	"github.com/decker502/motionfx/pkg/engine"
)

// PanelLayout 堆叠面板的基础尺寸（缩放前，像素）
type PanelLayout struct {
	Width  float64
	Height float64
	// Fill 面板底色
	Fill string
}

// DefaultPanelLayout 默认面板尺寸
var DefaultPanelLayout = PanelLayout{Width: 420, Height: 260, Fill: "#1E1B2E"}

// EbitenRenderer 在 ebiten 图像上绘制帧快照
// Render 可以在任意 goroutine 调用，Draw 在 ebiten 的绘制回调中调用
type EbitenRenderer struct {
	mu     sync.Mutex
	frame  engine.Frame
	colors *ColorCache
	layout PanelLayout

	// 按绘制顺序排序用的缓冲区
	order []int
}

// NewEbitenRenderer 创建 ebiten 绘制端
func NewEbitenRenderer(layout PanelLayout) *EbitenRenderer {
	if layout.Width <= 0 || layout.Height <= 0 {
		layout = DefaultPanelLayout
	}
	return &EbitenRenderer{
		colors: NewColorCache(),
		layout: layout,
	}
}

// Render 保存最新的帧快照
func (r *EbitenRenderer) Render(frame engine.Frame) {
	r.mu.Lock()
	r.frame = frame
	r.mu.Unlock()
}

// Frame 返回最近一次保存的快照
func (r *EbitenRenderer) Frame() engine.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// Draw 绘制最近一次保存的快照
// 先画堆叠（按 PaintOrder 从低到高），再按 ZIndex 画拖尾
func (r *EbitenRenderer) Draw(screen *ebiten.Image) {
	frame := r.Frame()
	bounds := screen.Bounds()
	cx := float64(bounds.Dx()) / 2
	cy := float64(bounds.Dy()) / 2

	for _, stack := range frame.Stacks {
		r.drawStack(screen, stack, cx, cy)
	}

	trails := append([]engine.TrailFrame(nil), frame.Trails...)
	sort.SliceStable(trails, func(i, j int) bool { return trails[i].ZIndex < trails[j].ZIndex })
	for _, trail := range trails {
		r.drawTrail(screen, trail)
	}
}

func (r *EbitenRenderer) drawStack(screen *ebiten.Image, stack engine.StackFrame, cx, cy float64) {
	r.order = r.order[:0]
	for i := range stack.Targets {
		r.order = append(r.order, i)
	}
	sort.SliceStable(r.order, func(a, b int) bool {
		return stack.Targets[r.order[a]].PaintOrder < stack.Targets[r.order[b]].PaintOrder
	})

	for _, i := range r.order {
		t := stack.Targets[i]
		if t.Opacity <= 0 {
			continue
		}
		w := r.layout.Width * t.Scale
		// 绕 X 轴旋转在正交投影下表现为高度压缩
		h := r.layout.Height * t.Scale * math.Abs(math.Cos(t.RotateX*math.Pi/180))
		x := cx - w/2
		y := cy + t.OffsetY - h/2

		if t.Glow.Alpha > 0 && t.Glow.Blur > 0 {
			spread := t.Glow.Blur / 4
			glow := r.colors.NRGBA(stack.GlowColor, t.Glow.Alpha*t.Opacity)
			vector.DrawFilledRect(screen, float32(x-spread), float32(y-spread),
				float32(w+2*spread), float32(h+2*spread), glow, true)
		}
		fill := r.colors.NRGBA(r.layout.Fill, t.Opacity)
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), fill, true)
	}
}

func (r *EbitenRenderer) drawTrail(screen *ebiten.Image, trail engine.TrailFrame) {
	if trail.Opacity <= 0 {
		return
	}
	// 索引大的跟随点画在下层，第 0 个（追逐指针的）在最上层
	for i := len(trail.Followers) - 1; i >= 0; i-- {
		f := trail.Followers[i]
		x, y := float32(f.Position.X), float32(f.Position.Y)

		if trail.Shadow.Alpha > 0 {
			shadow := r.colors.NRGBA(trail.Shadow.Color, trail.Shadow.Alpha*trail.Opacity*f.Opacity)
			drawShape(screen, trail.Shape, x+float32(trail.Shadow.OffsetX), y+float32(trail.Shadow.OffsetY),
				float32(f.Size/2+trail.Shadow.Blur/2), shadow)
		}
		outer := r.colors.NRGBA(trail.FillColor, f.Opacity*trail.Opacity)
		drawShape(screen, trail.Shape, x, y, float32(f.Size/2), outer)

		if f.InnerSize > 0 {
			inner := r.colors.NRGBA(trail.InnerColor, trail.InnerAlpha*trail.Opacity)
			drawShape(screen, trail.Shape, x, y, float32(f.InnerSize/2), inner)
		}
	}
}

func drawShape(screen *ebiten.Image, shape components.TrailShape, x, y, radius float32, clr color.NRGBA) {
	if radius <= 0 {
		return
	}
	if shape == components.ShapeSquare {
		vector.DrawFilledRect(screen, x-radius, y-radius, 2*radius, 2*radius, clr, true)
		return
	}
	vector.DrawFilledCircle(screen, x, y, radius, clr, true)
}
