// Package render 把引擎的帧快照画出来
//
// 本包只做最终绘制：颜色解析、CSS 字符串格式化、ebiten 和终端两种绘制端。
// 所有数值都已经由引擎计算好。
package render

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/motionfx/pkg/utils"
)

// ParseColor 解析 "#RGB" 或 "#RRGGBB" 形式的颜色
func ParseColor(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	return c, nil
}

// WithAlpha 转换为带透明度的 NRGBA，alpha 截断到 [0,1]
func WithAlpha(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(utils.Clamp01(alpha)*255 + 0.5)}
}

// ColorCache 缓存解析结果，避免逐帧解析同一个字符串
// 解析失败的颜色记为白色（配置已在加载时校验，这里只是兜底）
type ColorCache struct {
	mu     sync.Mutex
	colors map[string]colorful.Color
}

// NewColorCache 创建颜色缓存
func NewColorCache() *ColorCache {
	return &ColorCache{colors: make(map[string]colorful.Color)}
}

// Get 返回解析后的颜色
func (c *ColorCache) Get(hex string) colorful.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	if col, ok := c.colors[hex]; ok {
		return col
	}
	col, err := ParseColor(hex)
	if err != nil {
		col = colorful.Color{R: 1, G: 1, B: 1}
	}
	c.colors[hex] = col
	return col
}

// NRGBA 返回带透明度的颜色
func (c *ColorCache) NRGBA(hex string, alpha float64) color.NRGBA {
	return WithAlpha(c.Get(hex), alpha)
}
