package scheduler

import (
	"sync"
	"time"
)

// FrameCallback 帧回调，now 为该帧的时间戳
type FrameCallback func(now time.Time)

// FrameHandle 帧请求句柄，0 表示无效
type FrameHandle uint64

// FrameSource 显示刷新信号源
// 每次 RequestFrame 只触发一次回调；需要持续驱动时在回调中再次请求
type FrameSource interface {
	RequestFrame(cb FrameCallback) FrameHandle
	CancelFrame(h FrameHandle)
}

// ManualFrameSource 由宿主手动驱动的帧源
// 适用于自带主循环的宿主（ebiten 的 Update）和测试
type ManualFrameSource struct {
	mu      sync.Mutex
	nextID  FrameHandle
	pending map[FrameHandle]FrameCallback
	order   []FrameHandle
}

// NewManualFrameSource 创建手动帧源
func NewManualFrameSource() *ManualFrameSource {
	return &ManualFrameSource{
		pending: make(map[FrameHandle]FrameCallback),
	}
}

// RequestFrame 登记回调，在下一次 Fire 时触发
func (m *ManualFrameSource) RequestFrame(cb FrameCallback) FrameHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.pending[m.nextID] = cb
	m.order = append(m.order, m.nextID)
	return m.nextID
}

// CancelFrame 取消尚未触发的回调
func (m *ManualFrameSource) CancelFrame(h FrameHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, h)
}

// Pending 返回等待触发的回调数量
func (m *ManualFrameSource) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Fire 按请求顺序触发当前所有等待的回调
// 回调中新请求的帧留到下一次 Fire
func (m *ManualFrameSource) Fire(now time.Time) int {
	m.mu.Lock()
	order := m.order
	callbacks := make([]FrameCallback, 0, len(order))
	for _, h := range order {
		if cb, ok := m.pending[h]; ok {
			callbacks = append(callbacks, cb)
			delete(m.pending, h)
		}
	}
	m.order = nil
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(now)
	}
	return len(callbacks)
}

// TickerFrameSource 以固定帧率触发回调的帧源
// 回调在内部 goroutine 中执行，适用于没有主循环的宿主（终端）
type TickerFrameSource struct {
	*ManualFrameSource

	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewTickerFrameSource 创建并启动定时器帧源，fps <= 0 时使用 60
func NewTickerFrameSource(fps int) *TickerFrameSource {
	if fps <= 0 {
		fps = 60
	}
	t := &TickerFrameSource{
		ManualFrameSource: NewManualFrameSource(),
		interval:          time.Second / time.Duration(fps),
		stopChan:          make(chan struct{}),
	}
	t.wg.Add(1)
	go t.loop()
	return t
}

// Interval 返回帧间隔
func (t *TickerFrameSource) Interval() time.Duration {
	return t.interval
}

func (t *TickerFrameSource) loop() {
	defer t.wg.Done()
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case now := <-ticker.C:
			t.Fire(now)
		}
	}
}

// Stop 停止定时器并等待内部 goroutine 退出，可重复调用
// 不能在帧回调中调用
func (t *TickerFrameSource) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
		t.wg.Wait()
	})
}
