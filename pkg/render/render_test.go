package render

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/motionfx/internal/keyframe"
	"github.com/decker502/motionfx/pkg/components"
	"github.com/decker502/motionfx/pkg/engine"
	"github.com/decker502/motionfx/pkg/types"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		wantErr bool
	}{
		{"#A855F7", 168, 85, 247, false},
		{"#5227FF", 82, 39, 255, false},
		{"#fff", 255, 255, 255, false},
		{"purple", 0, 0, 0, true},
		{"", 0, 0, 0, true},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v", tt.in, err)
			continue
		}
		if tt.wantErr {
			continue
		}
		if r, g, b := c.RGB255(); r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("ParseColor(%q) = %d,%d,%d", tt.in, r, g, b)
		}
	}
}

func TestColorCache(t *testing.T) {
	cache := NewColorCache()

	got := cache.NRGBA("#5227FF", 0.6)
	want := color.NRGBA{R: 82, G: 39, B: 255, A: 153}
	if got != want {
		t.Errorf("NRGBA() = %+v, 期望 %+v", got, want)
	}
	if got := cache.NRGBA("#000000", 2); got.A != 255 {
		t.Errorf("alpha 应截断到 1, got %d", got.A)
	}
	// 无效颜色回退为白色
	if got := cache.NRGBA("nope", 1); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("无效颜色 = %+v", got)
	}
}

func TestBoxShadowCSS(t *testing.T) {
	tests := []struct {
		name string
		glow keyframe.Glow
		hex  string
		want string
	}{
		{"峰值", keyframe.Glow{Blur: 60, Alpha: 0.4}, "#A855F7", "0 0 60px rgba(168,85,247,0.40)"},
		{"边缘", keyframe.Glow{Blur: 20, Alpha: 0.1}, "#A855F7", "0 0 20px rgba(168,85,247,0.10)"},
		{"小数模糊", keyframe.Glow{Blur: 32.5, Alpha: 0.25}, "#A855F7", "0 0 32.5px rgba(168,85,247,0.25)"},
		{"alpha 截断", keyframe.Glow{Blur: 10, Alpha: 3}, "#FFFFFF", "0 0 10px rgba(255,255,255,1.00)"},
		{"无效颜色", keyframe.Glow{Blur: 10, Alpha: 0.5}, "bogus", "0 0 10px rgba(0,0,0,0.50)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoxShadowCSS(tt.glow, tt.hex); got != tt.want {
				t.Errorf("BoxShadowCSS() = %q, 期望 %q", got, tt.want)
			}
		})
	}
}

func TestDropShadowAndTransformCSS(t *testing.T) {
	shadow := components.TrailShadow{Color: "#000000", Alpha: 0.75, Blur: 5, OffsetX: 10, OffsetY: 10}
	if got := DropShadowCSS(shadow); got != "10px 10px 5px rgba(0,0,0,0.75)" {
		t.Errorf("DropShadowCSS() = %q", got)
	}

	v := components.StackVisual{Scale: 0.85, OffsetY: -75, RotateX: 10}
	if got := TransformCSS(v); got != "translateY(-75px) scale(0.85) rotateX(10deg)" {
		t.Errorf("TransformCSS() = %q", got)
	}
	if got := TransformCSS(components.StackVisual{Scale: 1}); got != "translateY(0px) scale(1) rotateX(0deg)" {
		t.Errorf("TransformCSS(identity) = %q", got)
	}
}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() err = %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func TestTerminalRenderer_DrawsFollowersAndPanels(t *testing.T) {
	screen := newSimScreen(t)
	r := NewTerminalRenderer(screen, CellMetrics{Width: 10, Height: 20}, PanelLayout{Width: 200, Height: 100, Fill: "#202020"})

	frame := engine.Frame{
		Trails: []engine.TrailFrame{{
			Visible:   true,
			Opacity:   1,
			Shape:     components.ShapeSquare,
			FillColor: "#5227FF",
			Followers: []engine.FollowerFrame{
				{Position: types.Vector2{X: 55, Y: 45}, Size: 60, Opacity: 0.6},
				{Position: types.Vector2{X: -100, Y: 45}, Size: 60, Opacity: 0.6}, // 屏幕外
			},
		}},
		Stacks: []engine.StackFrame{{
			GlowColor: "#A855F7",
			Targets: []engine.TargetFrame{{
				StackVisual: components.StackVisual{Scale: 1, Opacity: 1, PaintOrder: 1},
			}},
		}},
	}
	r.Render(frame)

	// 跟随点 (55,45) 对应单元格 (5,2)
	if ch, _, _, _ := screen.GetContent(5, 2); ch != '■' {
		t.Errorf("跟随点单元格 = %q, 期望 '■'", ch)
	}

	// 面板 200x100 像素 = 20x5 单元格，居中于 (40,12)
	if ch, _, _, _ := screen.GetContent(30, 10); ch != '┌' {
		t.Errorf("面板左上角 = %q, 期望 '┌'", ch)
	}
	if ch, _, _, _ := screen.GetContent(49, 14); ch != '┘' {
		t.Errorf("面板右下角 = %q, 期望 '┘'", ch)
	}
}

func TestTerminalRenderer_HiddenTrail(t *testing.T) {
	screen := newSimScreen(t)
	r := NewTerminalRenderer(screen, CellMetrics{}, PanelLayout{})

	r.Render(engine.Frame{Trails: []engine.TrailFrame{{
		Opacity:   0,
		FillColor: "#5227FF",
		Followers: []engine.FollowerFrame{{Position: types.Vector2{X: 20, Y: 20}}},
	}}})

	col, row := r.PixelToCell(20, 20)
	if ch, _, _, _ := screen.GetContent(col, row); ch != ' ' {
		t.Errorf("透明度为 0 的拖尾不应绘制, got %q", ch)
	}
	if x, y := r.CellToPixel(col, row); x != 20 || y != 24 {
		t.Errorf("CellToPixel(%d,%d) = %v,%v", col, row, x, y)
	}
}
