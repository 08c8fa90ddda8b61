package scheduler

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/decker502/motionfx/pkg/utils"
)

const (
	// DefaultFallbackDT 首帧（以及时间戳未前进时）使用的帧间隔
	DefaultFallbackDT = 1.0 / 60
	// DefaultMaxDT 单帧最大帧间隔，切回前台等长停顿不会造成跳变
	DefaultMaxDT = 0.1
)

// Options 帧调度参数，零值字段使用默认值
type Options struct {
	FallbackDT float64
	MaxDT      float64
}

func (o Options) withDefaults() Options {
	if !(o.FallbackDT > 0) || !utils.IsFinite(o.FallbackDT) {
		o.FallbackDT = DefaultFallbackDT
	}
	if !(o.MaxDT > 0) || !utils.IsFinite(o.MaxDT) {
		o.MaxDT = DefaultMaxDT
	}
	if o.MaxDT < o.FallbackDT {
		o.MaxDT = o.FallbackDT
	}
	return o
}

// StepFunc 推进一帧并返回该帧的快照
type StepFunc[F any] func(dt float64, sample Sample) F

// FrameScheduler 逐帧驱动引擎
//
// 每帧：测量 dt -> 读取最新输入 -> 调用 step -> 发布结果 -> 请求下一帧。
// 任意时刻至多一个 tick 在执行；Dispose 之后不再推进，迟到的回调直接返回。
type FrameScheduler[F any] struct {
	source  FrameSource
	sampler *InputSampler
	step    StepFunc[F]
	publish func(F)
	opts    Options

	mu       sync.Mutex // 保护 handle / pending / last
	handle   FrameHandle
	pending  bool
	last     time.Time
	hasLast  bool
	started  atomic.Bool
	inTick   atomic.Bool
	disposed atomic.Bool
	ticks    atomic.Uint64
}

// New 创建帧调度器，publish 可以为 nil
func New[F any](source FrameSource, sampler *InputSampler, step StepFunc[F], publish func(F), opts Options) *FrameScheduler[F] {
	if sampler == nil {
		sampler = NewInputSampler()
	}
	return &FrameScheduler[F]{
		source:  source,
		sampler: sampler,
		step:    step,
		publish: publish,
		opts:    opts.withDefaults(),
	}
}

// Sampler 返回调度器读取的输入采样器
func (s *FrameScheduler[F]) Sampler() *InputSampler {
	return s.sampler
}

// Start 请求第一帧，重复调用或 Dispose 之后调用无效果
func (s *FrameScheduler[F]) Start() {
	if s.disposed.Load() || !s.started.CompareAndSwap(false, true) {
		return
	}
	s.schedule()
	log.Printf("[FrameScheduler] Started (fallback dt=%.4f, max dt=%.3f)", s.opts.FallbackDT, s.opts.MaxDT)
}

// Dispose 取消等待中的帧并停止接收输入，可重复调用
// 返回后不会再有新的 tick 开始执行
func (s *FrameScheduler[F]) Dispose() {
	if !s.disposed.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	if s.pending {
		s.source.CancelFrame(s.handle)
		s.pending = false
	}
	s.mu.Unlock()
	s.sampler.Detach()
	log.Printf("[FrameScheduler] Disposed after %d ticks", s.ticks.Load())
}

// Disposed 是否已释放
func (s *FrameScheduler[F]) Disposed() bool {
	return s.disposed.Load()
}

// Ticks 返回已完成的 tick 数量
func (s *FrameScheduler[F]) Ticks() uint64 {
	return s.ticks.Load()
}

func (s *FrameScheduler[F]) schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed.Load() {
		return
	}
	s.handle = s.source.RequestFrame(s.tick)
	s.pending = true
}

func (s *FrameScheduler[F]) tick(now time.Time) {
	if s.disposed.Load() {
		return
	}
	if !s.inTick.CompareAndSwap(false, true) {
		return
	}
	defer s.inTick.Store(false)

	s.mu.Lock()
	s.pending = false
	dt := s.measure(now)
	s.mu.Unlock()

	frame := s.step(dt, s.sampler.Latest())
	if s.disposed.Load() {
		return
	}
	if s.publish != nil {
		s.publish(frame)
	}
	s.ticks.Add(1)
	s.schedule()
}

// measure 计算帧间隔，调用方持有 mu
func (s *FrameScheduler[F]) measure(now time.Time) float64 {
	dt := s.opts.FallbackDT
	if s.hasLast {
		if elapsed := now.Sub(s.last).Seconds(); elapsed > 0 {
			dt = elapsed
		}
	}
	s.last = now
	s.hasLast = true
	if dt > s.opts.MaxDT {
		dt = s.opts.MaxDT
	}
	return dt
}
