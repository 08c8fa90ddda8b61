package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/motionfx/pkg/embedded"
)

// DefaultEffectsPath 内置配置文件路径
const DefaultEffectsPath = "data/effects.yaml"

// PresetsDir 内置预设目录
const PresetsDir = "data/presets"

// ResolveEffectsPath 预设优先，其次是显式路径，最后是内置默认配置
func ResolveEffectsPath(explicit, preset string) string {
	if preset != "" {
		return PresetsDir + "/" + preset + ".yaml"
	}
	if explicit != "" {
		return explicit
	}
	return DefaultEffectsPath
}

// ParseEffectsConfig 解析 YAML 内容
// 未出现的字段保留默认值，随后展开逐索引数组并整体校验
func ParseEffectsConfig(data []byte) (EffectsConfig, error) {
	cfg := defaultEffectsConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EffectsConfig{}, fmt.Errorf("failed to parse effect config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return EffectsConfig{}, err
	}
	return cfg, nil
}

// LoadEffectsConfig 加载配置文件
//
// 以 "data/" 开头且 embedded 已初始化时优先从嵌入资源读取，
// 嵌入资源中不存在时回退到文件系统（便于开发时覆盖）。
// 默认配置文件在两处都不存在时使用内置默认值。
func LoadEffectsConfig(path string) (EffectsConfig, error) {
	data, err := readConfigFile(path)
	if errors.Is(err, fs.ErrNotExist) && path == DefaultEffectsPath {
		log.Printf("[EffectsConfig] %s not found, using built-in defaults", path)
		return DefaultEffectsConfig(), nil
	}
	if err != nil {
		return EffectsConfig{}, fmt.Errorf("failed to read effect config %s: %w", path, err)
	}
	cfg, err := ParseEffectsConfig(data)
	if err != nil {
		return EffectsConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("[EffectsConfig] Loaded %s: trail=%d followers, stack=%d targets (%s/%s)",
		path, cfg.Trail.Count, cfg.Stack.Count, cfg.Stack.Segmentation, cfg.Stack.ZOrder)
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	slashed := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if embedded.IsInitialized() && strings.HasPrefix(slashed, "data/") && embedded.Exists(slashed) {
		return embedded.ReadFile(slashed)
	}
	return os.ReadFile(path)
}

// MarshalEffectsConfig 序列化配置（逐索引数组已展开）
func MarshalEffectsConfig(cfg EffectsConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal effect config: %w", err)
	}
	return data, nil
}
