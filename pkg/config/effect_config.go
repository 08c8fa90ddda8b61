package config

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/motionfx/internal/keyframe"
	"github.com/decker502/motionfx/pkg/motion"
	"github.com/decker502/motionfx/pkg/utils"
)

// EffectsConfig 动效引擎配置文件的顶层结构
// 所有字段在构造时校验一次，运行期间不再逐帧检查
type EffectsConfig struct {
	Frame FrameConfig `yaml:"frame"`
	Trail TrailConfig `yaml:"trail"`
	Stack StackConfig `yaml:"stack"`
}

// FrameConfig 帧调度配置
type FrameConfig struct {
	FPS        int     `yaml:"fps"`         // 定时器驱动的宿主使用的目标帧率，默认 60
	FallbackDT float64 `yaml:"fallback_dt"` // 首帧使用的帧间隔（秒），默认 1/60
	MaxDT      float64 `yaml:"max_dt"`      // 单帧最大帧间隔（秒），防止切回前台时跳变，默认 0.1
}

// TrailConfig 光标拖尾配置
//
// Sizes / InnerSizes / Opacities / Durations 是逐跟随点数组，长度必须等于 Count。
// 省略时按索引填充默认值；Durations 省略时按快慢两档展开：
// 索引 0 使用 FastDuration，其余使用 SlowDuration。
type TrailConfig struct {
	Count        int          `yaml:"count"`         // 跟随点数量，默认 3
	Shape        string       `yaml:"shape"`         // circle | square，默认 circle
	FillColor    string       `yaml:"fill_color"`    // 外圈颜色，默认 #5227FF
	InnerColor   string       `yaml:"inner_color"`   // 内圈颜色，默认 #FFFFFF
	InnerAlpha   float64      `yaml:"inner_alpha"`   // 内圈透明度，默认 0.8
	Sizes        []float64    `yaml:"sizes"`         // 外圈直径（像素）
	InnerSizes   []float64    `yaml:"inner_sizes"`   // 内圈直径（像素）
	Opacities    []float64    `yaml:"opacities"`     // 外圈透明度 0~1
	Durations    []float64    `yaml:"durations"`     // 平滑时长（秒），必须 > 0
	FastDuration float64      `yaml:"fast_duration"` // 快速档时长，默认 0.1
	SlowDuration float64      `yaml:"slow_duration"` // 慢速档时长，默认 0.5
	FadeDuration float64      `yaml:"fade_duration"` // 指针进出时整体淡入淡出时长，默认 0.3，0 表示立即切换
	Shadow       ShadowConfig `yaml:"shadow"`
	ZIndex       int          `yaml:"z_index"` // 拖尾层整体层级，默认 100
}

// ShadowConfig 拖尾投影配置
type ShadowConfig struct {
	Color   string  `yaml:"color"`    // 默认 #000000
	Alpha   float64 `yaml:"alpha"`    // 默认 0.75
	Blur    float64 `yaml:"blur"`     // 默认 5
	OffsetX float64 `yaml:"offset_x"` // 默认 10
	OffsetY float64 `yaml:"offset_y"` // 默认 10
}

// StackConfig 滚动堆叠配置
type StackConfig struct {
	Count        int            `yaml:"count"`        // 面板数量，默认 3
	Segmentation string         `yaml:"segmentation"` // disjoint | centered，默认 centered
	ZOrder       string         `yaml:"z_order"`      // emphasis | static，默认 emphasis
	Spring       SpringConfig   `yaml:"spring"`
	Channels     ChannelsConfig `yaml:"channels"`
}

// SpringConfig 滚动进度平滑弹簧参数
type SpringConfig struct {
	Stiffness float64 `yaml:"stiffness"`  // 默认 50
	Damping   float64 `yaml:"damping"`    // 默认 25
	Mass      float64 `yaml:"mass"`       // 默认 1
	RestDelta float64 `yaml:"rest_delta"` // 默认 0.001
	RestSpeed float64 `yaml:"rest_speed"` // 默认 0.01
}

// ChannelsConfig 各视觉通道的关键帧表（横轴为局部进度）
type ChannelsConfig struct {
	Scale     KeyframeTable `yaml:"scale"`
	Opacity   KeyframeTable `yaml:"opacity"`
	OffsetY   KeyframeTable `yaml:"offset_y"`
	RotateX   KeyframeTable `yaml:"rotate_x"`
	GlowBlur  KeyframeTable `yaml:"glow_blur"`
	GlowAlpha KeyframeTable `yaml:"glow_alpha"`
	GlowColor string        `yaml:"glow_color"` // 默认 #A855F7
}

// 逐索引默认值（超出数组长度的索引使用 fallback）
var (
	defaultTrailSizes      = []float64{60, 125, 75}
	defaultTrailInnerSizes = []float64{20, 35, 25}
	defaultTrailSize       = 60.0
	defaultTrailInnerSize  = 20.0
	defaultTrailOpacity    = 0.6
)

// defaultEffectsConfig 返回未展开逐索引数组的默认配置
// YAML 解析时以它为底，未出现的字段保留默认值
func defaultEffectsConfig() EffectsConfig {
	return EffectsConfig{
		Frame: FrameConfig{
			FPS:        60,
			FallbackDT: motion.DefaultFrameDT,
			MaxDT:      0.1,
		},
		Trail: TrailConfig{
			Count:        3,
			Shape:        "circle",
			FillColor:    "#5227FF",
			InnerColor:   "#FFFFFF",
			InnerAlpha:   0.8,
			FastDuration: 0.1,
			SlowDuration: 0.5,
			FadeDuration: 0.3,
			Shadow: ShadowConfig{
				Color:   "#000000",
				Alpha:   0.75,
				Blur:    5,
				OffsetX: 10,
				OffsetY: 10,
			},
			ZIndex: 100,
		},
		Stack: StackConfig{
			Count:        3,
			Segmentation: "centered",
			ZOrder:       "emphasis",
			Spring: SpringConfig{
				Stiffness: 50,
				Damping:   25,
				Mass:      1,
				RestDelta: 0.001,
				RestSpeed: 0.01,
			},
			Channels: ChannelsConfig{
				Scale:     KeyframeTable{Stops: []float64{0, 0.5, 1}, Values: []float64{0.7, 1, 0.7}},
				Opacity:   KeyframeTable{Stops: []float64{0, 0.2, 0.8, 1}, Values: []float64{0, 1, 1, 0}},
				OffsetY:   KeyframeTable{Stops: []float64{0, 0.5, 1}, Values: []float64{150, 0, -150}},
				RotateX:   KeyframeTable{Stops: []float64{0, 0.5, 1}, Values: []float64{20, 0, -20}},
				GlowBlur:  KeyframeTable{Stops: []float64{0, 0.5, 1}, Values: []float64{20, 60, 20}},
				GlowAlpha: KeyframeTable{Stops: []float64{0, 0.5, 1}, Values: []float64{0.1, 0.4, 0.1}},
				GlowColor: "#A855F7",
			},
		},
	}
}

// DefaultEffectsConfig 返回完整展开的默认配置
func DefaultEffectsConfig() EffectsConfig {
	cfg := defaultEffectsConfig()
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults 展开省略的逐索引数组，并补齐为 0 的帧参数
// 已显式给出的数组保持原样（长度不匹配由 Validate 报告）
func (c *EffectsConfig) ApplyDefaults() {
	if c.Frame.FPS <= 0 {
		c.Frame.FPS = 60
	}
	if c.Frame.FallbackDT == 0 {
		c.Frame.FallbackDT = motion.DefaultFrameDT
	}
	if c.Frame.MaxDT == 0 {
		c.Frame.MaxDT = 0.1
	}
	c.Trail.ApplyDefaults()
}

// ApplyDefaults 展开拖尾的逐跟随点数组
func (t *TrailConfig) ApplyDefaults() {
	if t.Count < 0 {
		return
	}
	if t.Sizes == nil {
		t.Sizes = expandDefaults(t.Count, defaultTrailSizes, defaultTrailSize)
	}
	if t.InnerSizes == nil {
		t.InnerSizes = expandDefaults(t.Count, defaultTrailInnerSizes, defaultTrailInnerSize)
	}
	if t.Opacities == nil {
		t.Opacities = expandDefaults(t.Count, nil, defaultTrailOpacity)
	}
	if t.Durations == nil {
		t.Durations = make([]float64, t.Count)
		for i := range t.Durations {
			if i == 0 {
				t.Durations[i] = t.FastDuration
			} else {
				t.Durations[i] = t.SlowDuration
			}
		}
	}
}

func expandDefaults(count int, perIndex []float64, fallback float64) []float64 {
	out := make([]float64, count)
	for i := range out {
		if i < len(perIndex) {
			out[i] = perIndex[i]
		} else {
			out[i] = fallback
		}
	}
	return out
}

// Validate 校验整份配置，返回第一个错误（*Error）
func (c *EffectsConfig) Validate() error {
	if !(c.Frame.FallbackDT > 0) || !utils.IsFinite(c.Frame.FallbackDT) {
		return newError("frame.fallback_dt", "must be > 0")
	}
	if !(c.Frame.MaxDT >= c.Frame.FallbackDT) || !utils.IsFinite(c.Frame.MaxDT) {
		return newError("frame.max_dt", "must be >= fallback_dt")
	}
	if c.Frame.FPS <= 0 {
		return newError("frame.fps", "must be > 0")
	}
	if err := c.Trail.Validate(); err != nil {
		return err
	}
	return c.Stack.Validate()
}

// Validate 校验拖尾配置
func (t *TrailConfig) Validate() error {
	if t.Count < 0 {
		return newError("trail.count", "must be >= 0")
	}
	if t.Shape != "circle" && t.Shape != "square" {
		return newError("trail.shape", fmt.Sprintf("unknown shape %q (circle | square)", t.Shape))
	}
	if err := validateColor("trail.fill_color", t.FillColor); err != nil {
		return err
	}
	if err := validateColor("trail.inner_color", t.InnerColor); err != nil {
		return err
	}
	if err := validateColor("trail.shadow.color", t.Shadow.Color); err != nil {
		return err
	}
	if !inUnitRange(t.InnerAlpha) {
		return newError("trail.inner_alpha", "must be within [0,1]")
	}
	if !inUnitRange(t.Shadow.Alpha) {
		return newError("trail.shadow.alpha", "must be within [0,1]")
	}
	if !(t.FadeDuration >= 0) || !utils.IsFinite(t.FadeDuration) {
		return newError("trail.fade_duration", "must be >= 0")
	}

	arrays := []struct {
		field  string
		values []float64
		check  func(float64) bool
		reason string
	}{
		{"trail.sizes", t.Sizes, isPositive, "must be > 0"},
		{"trail.inner_sizes", t.InnerSizes, isNonNegative, "must be >= 0"},
		{"trail.opacities", t.Opacities, inUnitRange, "must be within [0,1]"},
		{"trail.durations", t.Durations, isPositive, "smoothing duration must be > 0"},
	}
	for _, a := range arrays {
		if len(a.values) != t.Count {
			return newError(a.field, fmt.Sprintf("has %d entries, trail.count is %d", len(a.values), t.Count))
		}
		for i, v := range a.values {
			if !a.check(v) {
				return newError(fmt.Sprintf("%s[%d]", a.field, i), a.reason)
			}
		}
	}
	return nil
}

// Validate 校验堆叠配置
func (s *StackConfig) Validate() error {
	if s.Count < 0 {
		return newError("stack.count", "must be >= 0")
	}
	if _, err := motion.ParseSegmentPolicy(s.Segmentation); err != nil {
		return wrapError("stack.segmentation", err)
	}
	if _, err := motion.ParseZOrderPolicy(s.ZOrder); err != nil {
		return wrapError("stack.z_order", err)
	}

	sp := s.Spring
	if !isPositive(sp.Stiffness) {
		return newError("stack.spring.stiffness", "must be > 0")
	}
	if !isPositive(sp.Damping) {
		return newError("stack.spring.damping", "must be > 0")
	}
	if !isPositive(sp.Mass) {
		return newError("stack.spring.mass", "must be > 0")
	}
	if !isPositive(sp.RestDelta) {
		return newError("stack.spring.rest_delta", "must be > 0")
	}
	if !isNonNegative(sp.RestSpeed) {
		return newError("stack.spring.rest_speed", "must be >= 0")
	}

	tables := []struct {
		field string
		table KeyframeTable
	}{
		{"stack.channels.scale", s.Channels.Scale},
		{"stack.channels.opacity", s.Channels.Opacity},
		{"stack.channels.offset_y", s.Channels.OffsetY},
		{"stack.channels.rotate_x", s.Channels.RotateX},
		{"stack.channels.glow_blur", s.Channels.GlowBlur},
		{"stack.channels.glow_alpha", s.Channels.GlowAlpha},
	}
	for _, tb := range tables {
		if _, err := tb.table.Set(); err != nil {
			return wrapError(tb.field, err)
		}
	}
	return validateColor("stack.channels.glow_color", s.Channels.GlowColor)
}

// SegmentPolicy 返回解析后的分段策略
func (s *StackConfig) SegmentPolicy() motion.SegmentPolicy {
	p, _ := motion.ParseSegmentPolicy(s.Segmentation)
	return p
}

// ZOrderPolicy 返回解析后的绘制顺序策略
func (s *StackConfig) ZOrderPolicy() motion.ZOrderPolicy {
	p, _ := motion.ParseZOrderPolicy(s.ZOrder)
	return p
}

// MotionSpring 转换为 motion.Spring
func (s SpringConfig) MotionSpring() motion.Spring {
	return motion.Spring{
		Stiffness: s.Stiffness,
		Damping:   s.Damping,
		Mass:      s.Mass,
		RestDelta: s.RestDelta,
		RestSpeed: s.RestSpeed,
	}
}

// GlowSet 组合 glow_blur 与 glow_alpha 两张表
func (c ChannelsConfig) GlowSet() (keyframe.GlowSet, error) {
	blur, err := c.GlowBlur.Set()
	if err != nil {
		return keyframe.GlowSet{}, fmt.Errorf("glow_blur: %w", err)
	}
	alpha, err := c.GlowAlpha.Set()
	if err != nil {
		return keyframe.GlowSet{}, fmt.Errorf("glow_alpha: %w", err)
	}
	return keyframe.GlowSet{Blur: blur, Alpha: alpha}, nil
}

func validateColor(field, hex string) error {
	if _, err := colorful.Hex(hex); err != nil {
		return newError(field, fmt.Sprintf("invalid hex colour %q", hex))
	}
	return nil
}

func isPositive(v float64) bool {
	return v > 0 && utils.IsFinite(v)
}

func isNonNegative(v float64) bool {
	return v >= 0 && utils.IsFinite(v)
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
