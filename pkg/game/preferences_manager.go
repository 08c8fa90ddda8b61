package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/motionfx/pkg/config"
	"github.com/decker502/motionfx/pkg/motion"
)

// Preferences 演示程序的用户偏好
// 覆盖配置文件中的对应字段，空字符串表示沿用配置文件
type Preferences struct {
	Segmentation string `yaml:"segmentation"` // disjoint | centered
	ZOrder       string `yaml:"zOrder"`       // emphasis | static
	TrailShape   string `yaml:"trailShape"`   // circle | square
	Preset       string `yaml:"preset"`       // data/presets 下的预设名
}

// 存储路径常量
const (
	preferencesObject   = "preferences"
	preferencesProperty = "demo"
)

// PreferencesManager 偏好管理器
// 负责偏好的加载、保存和内存管理
type PreferencesManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	prefs        Preferences
}

// OpenStorage 打开 gdata 存储，失败时返回 nil 并记录日志（降级为仅内存）
func OpenStorage(appName string) *gdata.Manager {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[PreferencesManager] Warning: persistent storage unavailable: %v", err)
		return nil
	}
	return m
}

// NewPreferencesManager 创建偏好管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存偏好）
//
// 加载失败不是致命错误，使用空偏好
func NewPreferencesManager(gdataManager *gdata.Manager) *PreferencesManager {
	pm := &PreferencesManager{gdataManager: gdataManager}
	if err := pm.Load(); err != nil {
		log.Printf("[PreferencesManager] Warning: Failed to load preferences: %v (using defaults)", err)
	}
	return pm
}

// Persistent 是否可以持久化
func (pm *PreferencesManager) Persistent() bool {
	return pm.gdataManager != nil
}

// Load 从 gdata 加载偏好
func (pm *PreferencesManager) Load() error {
	pm.prefs = Preferences{}
	if pm.gdataManager == nil {
		return nil
	}
	if !pm.gdataManager.ObjectPropExists(preferencesObject, preferencesProperty) {
		return nil
	}

	data, err := pm.gdataManager.LoadObjectProp(preferencesObject, preferencesProperty)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	var loaded Preferences
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	if err := loaded.validate(); err != nil {
		return err
	}
	pm.prefs = loaded
	log.Printf("[PreferencesManager] Preferences loaded: %+v", loaded)
	return nil
}

// Save 保存偏好到 gdata，降级模式下直接返回 nil
func (pm *PreferencesManager) Save() error {
	if pm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(pm.prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := pm.gdataManager.SaveObjectProp(preferencesObject, preferencesProperty, data); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	log.Printf("[PreferencesManager] Preferences saved")
	return nil
}

// Get 返回当前偏好的副本
func (pm *PreferencesManager) Get() Preferences {
	return pm.prefs
}

// SetSegmentation 设置分段策略（仅修改内存，需调用 Save 持久化）
func (pm *PreferencesManager) SetSegmentation(p motion.SegmentPolicy) {
	pm.prefs.Segmentation = p.String()
}

// SetZOrder 设置绘制顺序策略（仅修改内存，需调用 Save 持久化）
func (pm *PreferencesManager) SetZOrder(p motion.ZOrderPolicy) {
	pm.prefs.ZOrder = p.String()
}

// SetTrailShape 设置拖尾形状
func (pm *PreferencesManager) SetTrailShape(shape string) error {
	if shape != "" && shape != "circle" && shape != "square" {
		return fmt.Errorf("unknown trail shape %q", shape)
	}
	pm.prefs.TrailShape = shape
	return nil
}

// SetPreset 设置预设名
func (pm *PreferencesManager) SetPreset(name string) {
	pm.prefs.Preset = name
}

// Apply 把偏好覆盖到配置上
func (pm *PreferencesManager) Apply(cfg *config.EffectsConfig) {
	if pm.prefs.Segmentation != "" {
		cfg.Stack.Segmentation = pm.prefs.Segmentation
	}
	if pm.prefs.ZOrder != "" {
		cfg.Stack.ZOrder = pm.prefs.ZOrder
	}
	if pm.prefs.TrailShape != "" {
		cfg.Trail.Shape = pm.prefs.TrailShape
	}
}

func (p Preferences) validate() error {
	if p.Segmentation != "" {
		if _, err := motion.ParseSegmentPolicy(p.Segmentation); err != nil {
			return fmt.Errorf("invalid stored preferences: %w", err)
		}
	}
	if p.ZOrder != "" {
		if _, err := motion.ParseZOrderPolicy(p.ZOrder); err != nil {
			return fmt.Errorf("invalid stored preferences: %w", err)
		}
	}
	return nil
}
