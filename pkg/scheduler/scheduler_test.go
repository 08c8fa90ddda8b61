package scheduler

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recordingSource 记录所有请求但从不真正取消的帧源，用于模拟迟到的回调
type recordingSource struct {
	mu        sync.Mutex
	callbacks []FrameCallback
	cancelled []FrameHandle
}

func (r *recordingSource) RequestFrame(cb FrameCallback) FrameHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, cb)
	return FrameHandle(len(r.callbacks))
}

func (r *recordingSource) CancelFrame(h FrameHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, h)
}

func (r *recordingSource) last() FrameCallback {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.callbacks[len(r.callbacks)-1]
}

type stepCall struct {
	dt     float64
	sample Sample
}

func TestInputSampler(t *testing.T) {
	s := NewInputSampler()

	if got := s.Latest(); got.PointerPresent || got.HasProgress {
		t.Fatalf("初始样本应为空: %+v", got)
	}

	s.PushPointer(10, 20)
	s.PushPointer(30, 40) // 只保留最新
	s.PushProgress(0.25)
	got := s.Latest()
	if got.Pointer.X != 30 || got.Pointer.Y != 40 || !got.PointerPresent {
		t.Errorf("指针样本 = %+v", got)
	}
	if got.Progress != 0.25 || !got.HasProgress {
		t.Errorf("进度样本 = %+v", got)
	}

	// 非有限样本被丢弃
	s.PushPointer(math.NaN(), 0)
	s.PushPointer(0, math.Inf(1))
	s.PushProgress(math.Inf(-1))
	if got := s.Latest(); got.Pointer.X != 30 || got.Progress != 0.25 {
		t.Errorf("非有限样本不应覆盖: %+v", got)
	}
	if s.Dropped() != 3 {
		t.Errorf("Dropped() = %d, 期望 3", s.Dropped())
	}

	s.SetPointerPresent(false)
	if s.Latest().PointerPresent {
		t.Error("SetPointerPresent(false) 未生效")
	}

	// Detach 之后的输入全部忽略
	s.Detach()
	s.PushPointer(1, 1)
	s.SetPointerPresent(true)
	s.PushProgress(0.9)
	if got := s.Latest(); got.Pointer.X != 30 || got.PointerPresent || got.Progress != 0.25 {
		t.Errorf("Detach 后输入应被忽略: %+v", got)
	}
	if !s.Detached() {
		t.Error("Detached() 应返回 true")
	}
}

func TestManualFrameSource(t *testing.T) {
	src := NewManualFrameSource()
	var fired []int

	src.RequestFrame(func(time.Time) { fired = append(fired, 1) })
	h := src.RequestFrame(func(time.Time) { fired = append(fired, 2) })
	src.RequestFrame(func(time.Time) {
		fired = append(fired, 3)
		// 回调中请求的帧留到下一次 Fire
		src.RequestFrame(func(time.Time) { fired = append(fired, 4) })
	})
	src.CancelFrame(h)

	if n := src.Fire(time.Now()); n != 2 {
		t.Fatalf("Fire() 触发 %d 个回调, 期望 2", n)
	}
	if len(fired) != 2 || fired[0] != 1 || fired[1] != 3 {
		t.Fatalf("触发顺序 = %v", fired)
	}
	if src.Pending() != 1 {
		t.Fatalf("Pending() = %d, 期望 1", src.Pending())
	}
	src.Fire(time.Now())
	if len(fired) != 3 || fired[2] != 4 {
		t.Errorf("第二次 Fire 后 = %v", fired)
	}
}

func TestFrameScheduler_MeasuresDT(t *testing.T) {
	src := NewManualFrameSource()
	var calls []stepCall
	var published []int

	s := New(src, nil, func(dt float64, sample Sample) int {
		calls = append(calls, stepCall{dt, sample})
		return len(calls)
	}, func(n int) { published = append(published, n) }, Options{})

	// Start 之前 Fire 不会推进
	src.Fire(time.Now())
	if len(calls) != 0 {
		t.Fatal("Start 之前不应推进")
	}

	s.Start()
	s.Start() // 重复调用无效果
	if src.Pending() != 1 {
		t.Fatalf("Start 后等待帧 = %d, 期望 1", src.Pending())
	}

	t0 := time.Unix(1000, 0)
	frames := []struct {
		name string
		at   time.Time
		want float64
	}{
		{"首帧", t0, DefaultFallbackDT},
		{"正常间隔", t0.Add(20 * time.Millisecond), 0.02},
		{"时间戳未前进", t0.Add(20 * time.Millisecond), DefaultFallbackDT},
		{"长停顿被截断", t0.Add(5 * time.Second), DefaultMaxDT},
		{"恢复正常", t0.Add(5*time.Second + 8*time.Millisecond), 0.008},
	}
	for i, f := range frames {
		src.Fire(f.at)
		if len(calls) != i+1 {
			t.Fatalf("第 %d 帧未推进", i)
		}
		if got := calls[i].dt; math.Abs(got-f.want) > 1e-9 {
			t.Errorf("%s: dt = %v, 期望 %v", f.name, got, f.want)
		}
	}
	if s.Ticks() != uint64(len(frames)) || len(published) != len(frames) {
		t.Errorf("Ticks() = %d, 发布 %d 次", s.Ticks(), len(published))
	}
}

func TestFrameScheduler_ReadsLatestSample(t *testing.T) {
	src := NewManualFrameSource()
	sampler := NewInputSampler()
	var got []Sample

	s := New(src, sampler, func(dt float64, sample Sample) struct{} {
		got = append(got, sample)
		return struct{}{}
	}, nil, Options{})
	s.Start()

	sampler.PushPointer(1, 1)
	sampler.PushPointer(2, 2)
	sampler.PushProgress(0.5)
	src.Fire(time.Now())

	if len(got) != 1 || got[0].Pointer.X != 2 || got[0].Progress != 0.5 {
		t.Errorf("step 应读取最新样本: %+v", got)
	}
	if s.Sampler() != sampler {
		t.Error("Sampler() 应返回传入的采样器")
	}
}

// TestFrameScheduler_DisposeIsTerminal 释放之后不再推进，迟到回调为空操作
func TestFrameScheduler_DisposeIsTerminal(t *testing.T) {
	src := &recordingSource{}
	sampler := NewInputSampler()
	steps := 0

	s := New(src, sampler, func(float64, Sample) int {
		steps++
		return steps
	}, nil, Options{})
	s.Start()

	src.last()(time.Unix(0, 0))
	if steps != 1 {
		t.Fatalf("steps = %d, 期望 1", steps)
	}

	stray := src.last()
	s.Dispose()
	s.Dispose()

	if !s.Disposed() {
		t.Fatal("Disposed() 应返回 true")
	}
	if len(src.cancelled) != 1 {
		t.Errorf("Dispose 应取消等待中的帧一次, cancelled = %v", src.cancelled)
	}

	// 帧源没有真正取消：迟到的回调必须是空操作
	stray(time.Unix(1, 0))
	if steps != 1 || s.Ticks() != 1 {
		t.Errorf("Dispose 后仍在推进: steps=%d ticks=%d", steps, s.Ticks())
	}
	requested := len(src.callbacks)

	// Dispose 之后 Start 无效果，输入被忽略
	s.Start()
	if len(src.callbacks) != requested {
		t.Error("Dispose 后 Start 不应请求新帧")
	}
	sampler.PushPointer(5, 5)
	if sampler.Latest().PointerPresent {
		t.Error("Dispose 后采样器应停止接收输入")
	}
}

// TestFrameScheduler_DisposeDuringStep step 执行中释放：不发布、不再请求下一帧
func TestFrameScheduler_DisposeDuringStep(t *testing.T) {
	src := NewManualFrameSource()
	published := 0
	var s *FrameScheduler[int]
	s = New(src, nil, func(float64, Sample) int {
		s.Dispose()
		return 1
	}, func(int) { published++ }, Options{})

	s.Start()
	src.Fire(time.Now())

	if published != 0 {
		t.Errorf("释放后不应发布, published = %d", published)
	}
	if src.Pending() != 0 {
		t.Errorf("释放后不应请求下一帧, pending = %d", src.Pending())
	}
}

// TestFrameScheduler_NoReentrantTick step 中同步触发回调不会嵌套执行 tick
func TestFrameScheduler_NoReentrantTick(t *testing.T) {
	src := &recordingSource{}
	depth, maxDepth, steps := 0, 0, 0

	var s *FrameScheduler[int]
	s = New(src, nil, func(float64, Sample) int {
		depth++
		if depth > maxDepth {
			maxDepth = depth
		}
		steps++
		// 模拟宿主在 step 中再次投递同一个帧回调
		src.callbacks[0](time.Now())
		depth--
		return steps
	}, nil, Options{})
	s.Start()

	src.last()(time.Now())
	if maxDepth != 1 || steps != 1 {
		t.Errorf("tick 发生重入: maxDepth=%d steps=%d", maxDepth, steps)
	}
}

func TestFrameScheduler_WithTickerSource(t *testing.T) {
	src := NewTickerFrameSource(200)
	defer src.Stop()

	sampler := NewInputSampler()
	var running, overlap atomic.Int32
	var dts sync.Map

	s := New(src, sampler, func(dt float64, sample Sample) float64 {
		if running.Add(1) > 1 {
			overlap.Store(1)
		}
		dts.Store(dt, true)
		running.Add(-1)
		return dt
	}, nil, Options{MaxDT: 0.05})
	s.Start()

	// 输入在另一个 goroutine 推送
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			sampler.PushPointer(float64(i), float64(i))
			sampler.PushProgress(float64(i) / 200)
		}
	}()
	<-done

	deadline := time.Now().Add(2 * time.Second)
	for s.Ticks() < 5 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.Dispose()
	if s.Ticks() < 5 {
		t.Fatalf("2 秒内只推进了 %d 帧", s.Ticks())
	}
	if overlap.Load() != 0 {
		t.Error("tick 不应并发执行")
	}
	dts.Range(func(k, _ any) bool {
		if dt := k.(float64); dt <= 0 || dt > 0.05 {
			t.Errorf("dt %v 超出 (0, MaxDT]", dt)
		}
		return true
	})

	// 等待可能仍在执行的最后一个 tick 结束
	time.Sleep(20 * time.Millisecond)
	ticks := s.Ticks()
	time.Sleep(30 * time.Millisecond)
	if s.Ticks() != ticks {
		t.Errorf("Dispose 后仍在推进: %d -> %d", ticks, s.Ticks())
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   Options
		want Options
	}{
		{"零值", Options{}, Options{FallbackDT: DefaultFallbackDT, MaxDT: DefaultMaxDT}},
		{"NaN", Options{FallbackDT: math.NaN(), MaxDT: math.Inf(1)}, Options{FallbackDT: DefaultFallbackDT, MaxDT: DefaultMaxDT}},
		{"MaxDT 小于 FallbackDT", Options{FallbackDT: 0.05, MaxDT: 0.01}, Options{FallbackDT: 0.05, MaxDT: 0.05}},
		{"自定义", Options{FallbackDT: 0.02, MaxDT: 0.2}, Options{FallbackDT: 0.02, MaxDT: 0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.withDefaults(); got != tt.want {
				t.Errorf("withDefaults() = %+v, 期望 %+v", got, tt.want)
			}
		})
	}
}
