package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/decker502/motionfx/internal/keyframe"
)

// KeyframeTable YAML 中的关键帧表
//
// 支持两种写法：
//
//	scale: "0,0.7 0.5,1 1,0.7 EaseInOut"    # 紧凑字符串
//	scale:                                 # 展开映射
//	  stops:  [0, 0.5, 1]
//	  values: [0.7, 1, 0.7]
//	  ease:   EaseInOut
type KeyframeTable struct {
	Stops  []float64 `yaml:"stops"`
	Values []float64 `yaml:"values"`
	Ease   string    `yaml:"ease,omitempty"`
}

// UnmarshalYAML 实现 yaml.Unmarshaler
func (t *KeyframeTable) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		set, err := keyframe.Parse(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*t = tableFromSet(set)
		return nil
	case yaml.MappingNode:
		// 别名类型避免递归调用 UnmarshalYAML
		type plain KeyframeTable
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*t = KeyframeTable(p)
		return nil
	default:
		return fmt.Errorf("line %d: keyframe table must be a string or a mapping", node.Line)
	}
}

// MarshalYAML 以紧凑字符串形式输出
func (t KeyframeTable) MarshalYAML() (interface{}, error) {
	set, err := t.Set()
	if err != nil {
		return nil, err
	}
	return set.String(), nil
}

// Set 转换为经过校验的 keyframe.Set
func (t KeyframeTable) Set() (keyframe.Set, error) {
	set, err := keyframe.NewSet(t.Stops, t.Values)
	if err != nil {
		return keyframe.Set{}, err
	}
	set.Ease = t.Ease
	if err := set.Validate(); err != nil {
		return keyframe.Set{}, err
	}
	return set, nil
}

func tableFromSet(s keyframe.Set) KeyframeTable {
	return KeyframeTable{Stops: s.Stops(), Values: s.Values(), Ease: s.Ease}
}
