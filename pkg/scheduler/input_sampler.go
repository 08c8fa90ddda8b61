// Package scheduler 驱动逐帧推进：采集最新输入、测量帧间隔、调用引擎并发布结果。
package scheduler

import (
	"sync"

	"github.com/decker502/motionfx/pkg/types"
	"github.com/decker502/motionfx/pkg/utils"
)

// Sample 某一时刻的最新输入
type Sample struct {
	// Pointer 最近一次有效的指针位置（视口像素坐标）
	Pointer types.Vector2
	// PointerPresent 指针是否在视口内
	PointerPresent bool
	// Progress 最近一次有效的全局滚动进度（未截断）
	Progress float64
	// HasProgress 是否收到过滚动进度
	HasProgress bool
}

// InputSampler 最新样本存储
//
// 只保留最近一次样本，不排队：输入频率高于帧率时中间样本被覆盖。
// 宿主可以在任意 goroutine 推送，帧调度在自己的上下文读取。
type InputSampler struct {
	mu       sync.Mutex
	sample   Sample
	detached bool
	dropped  uint64
}

// NewInputSampler 创建输入采样器
func NewInputSampler() *InputSampler {
	return &InputSampler{}
}

// PushPointer 记录指针位置，同时视为指针在视口内
// 非有限坐标被丢弃
func (s *InputSampler) PushPointer(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return
	}
	if !utils.IsFinite(x) || !utils.IsFinite(y) {
		s.dropped++
		return
	}
	s.sample.Pointer = types.Vector2{X: x, Y: y}
	s.sample.PointerPresent = true
}

// SetPointerPresent 记录指针进入或离开视口
func (s *InputSampler) SetPointerPresent(present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return
	}
	s.sample.PointerPresent = present
}

// PushProgress 记录全局滚动进度，非有限值被丢弃
func (s *InputSampler) PushProgress(p float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return
	}
	if !utils.IsFinite(p) {
		s.dropped++
		return
	}
	s.sample.Progress = p
	s.sample.HasProgress = true
}

// Latest 返回最新样本的副本
func (s *InputSampler) Latest() Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sample
}

// Dropped 返回被丢弃的非有限样本数量
func (s *InputSampler) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Detach 停止接收输入，之后的推送全部忽略
func (s *InputSampler) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
}

// Detached 是否已停止接收输入
func (s *InputSampler) Detached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detached
}
