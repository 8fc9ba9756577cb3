// Package tick 提供固定频率的 tick 脉冲以及基于 tick 的倒计时器
// 适用于需要按离散步长推进、而不是直接按真实耗时推进的游戏逻辑
package tick

import (
	"time"
)

// DefaultTickInterval 默认 tick 间隔
const DefaultTickInterval = 250 * time.Millisecond

// Tickable 可被 tick 的对象接口
// Timer 实现此接口以接收 tick 通知
type Tickable interface {
	// ProcessTick 处理 tick 通知，tick 为调度器当前的 tick 序号
	ProcessTick(tick uint64)
}

// Countdown 可查询倒计时进度的对象
// Inspector 用它展示订阅者的剩余时间
type Countdown interface {
	Tickable

	// RemainingTicks 剩余 tick 数
	RemainingTicks() int

	// RemainingTime 剩余时间，可能略小于 0（最多一个 tick 间隔）
	RemainingTime() time.Duration

	// IsRunning 是否正在倒计时
	IsRunning() bool
}

// TickableFunc 函数适配器
type TickableFunc func(tick uint64)

// ProcessTick 实现 Tickable 接口
func (f TickableFunc) ProcessTick(tick uint64) {
	f(tick)
}
