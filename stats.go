package tick

import (
	"sync/atomic"
	"time"
)

// Stats 调度器统计信息
type Stats struct {
	// 调度器状态
	Interval    time.Duration // tick 间隔
	TickCount   uint64        // 当前 tick 序号
	Accumulated time.Duration // 尚未凑满一个间隔的累计时间
	Subscribers int           // 订阅者数量

	// 操作计数
	Advances      uint64 // Advance 调用次数
	Dispatches    uint64 // 向订阅者投递 tick 的次数
	Panics        uint64 // 订阅者 panic 次数
	ClampedDeltas uint64 // 被修正为 0 的负 dt 次数
	DroppedTicks  uint64 // 超过补发上限被丢弃的 tick 数
	Subscribes    uint64 // 新增订阅次数
	Unsubscribes  uint64 // 取消订阅次数
}

// counters 调度器内部计数器
type counters struct {
	advances      atomic.Uint64
	dispatches    atomic.Uint64
	panics        atomic.Uint64
	clampedDeltas atomic.Uint64
	droppedTicks  atomic.Uint64
	subscribes    atomic.Uint64
	unsubscribes  atomic.Uint64
}

// recordAdvance 记录 Advance 调用
func (c *counters) recordAdvance() {
	c.advances.Add(1)
}

// recordDispatch 记录一次投递
func (c *counters) recordDispatch() {
	c.dispatches.Add(1)
}

// recordPanic 记录订阅者 panic
func (c *counters) recordPanic() {
	c.panics.Add(1)
}

// recordClamp 记录负 dt 修正
func (c *counters) recordClamp() {
	c.clampedDeltas.Add(1)
}

// recordDrop 记录丢弃的 tick（可批量）
func (c *counters) recordDrop(count uint64) {
	c.droppedTicks.Add(count)
}

// recordSubscribe 记录新增订阅
func (c *counters) recordSubscribe() {
	c.subscribes.Add(1)
}

// recordUnsubscribe 记录取消订阅
func (c *counters) recordUnsubscribe() {
	c.unsubscribes.Add(1)
}

// fill 把计数器快照写入 stats
func (c *counters) fill(stats *Stats) {
	stats.Advances = c.advances.Load()
	stats.Dispatches = c.dispatches.Load()
	stats.Panics = c.panics.Load()
	stats.ClampedDeltas = c.clampedDeltas.Load()
	stats.DroppedTicks = c.droppedTicks.Load()
	stats.Subscribes = c.subscribes.Load()
	stats.Unsubscribes = c.unsubscribes.Load()
}

// SubscriberInfo 订阅者信息
type SubscriberInfo struct {
	Name           string        // 订阅名称
	Countdown      bool          // 是否实现了 Countdown
	RemainingTicks int           // 剩余 tick 数（仅 Countdown）
	RemainingTime  time.Duration // 剩余时间（仅 Countdown）
	Running        bool          // 是否正在倒计时（仅 Countdown）
}
