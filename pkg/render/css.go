package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/decker502/motionfx/internal/keyframe"
	"github.com/decker502/motionfx/pkg/components"
	"github.com/decker502/motionfx/pkg/utils"
)

// BoxShadowCSS 格式化光晕为 CSS box-shadow
//
//	BoxShadowCSS(Glow{Blur: 60, Alpha: 0.4}, "#A855F7") == "0 0 60px rgba(168,85,247,0.40)"
func BoxShadowCSS(glow keyframe.Glow, hex string) string {
	r, g, b := colorOrBlack(hex)
	return fmt.Sprintf("0 0 %spx rgba(%d,%d,%d,%.2f)", formatNumber(glow.Blur), r, g, b, utils.Clamp01(glow.Alpha))
}

// DropShadowCSS 格式化拖尾投影为 CSS box-shadow
func DropShadowCSS(s components.TrailShadow) string {
	r, g, b := colorOrBlack(s.Color)
	return fmt.Sprintf("%spx %spx %spx rgba(%d,%d,%d,%.2f)",
		formatNumber(s.OffsetX), formatNumber(s.OffsetY), formatNumber(s.Blur), r, g, b, utils.Clamp01(s.Alpha))
}

// TransformCSS 格式化堆叠目标的 CSS transform
func TransformCSS(v components.StackVisual) string {
	return fmt.Sprintf("translateY(%spx) scale(%s) rotateX(%sdeg)",
		formatNumber(v.OffsetY), formatNumber(v.Scale), formatNumber(v.RotateX))
}

func colorOrBlack(hex string) (uint8, uint8, uint8) {
	c, err := ParseColor(hex)
	if err != nil {
		return 0, 0, 0
	}
	return c.Clamped().RGB255()
}

// formatNumber 最多保留两位小数并去掉多余的 0
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
