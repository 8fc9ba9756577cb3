package tick

import (
	"time"
)

// TimerOption Timer 创建选项
type TimerOption func(*timerOptions)

type timerOptions struct {
	name      string
	loop      bool
	loopCount LoopCount
}

// WithLoop 开启循环，并设置循环次数
func WithLoop(count LoopCount) TimerOption {
	return func(o *timerOptions) {
		o.loop = true
		o.loopCount = count
	}
}

// WithName 设置订阅名称，同一个 Scheduler 内需唯一
// 名称无效或已被占用时会退回自动生成的名称
func WithName(name string) TimerOption {
	return func(o *timerOptions) {
		o.name = name
	}
}

// TimerState Timer 状态快照
type TimerState struct {
	Name           string
	MaxDuration    time.Duration
	RemainingTime  time.Duration
	RemainingTicks int
	Loop           bool
	LoopCount      LoopCount
	Running        bool
	Completions    uint64
}

// Timer 基于 tick 的倒计时器
// 两种状态：Stopped（未订阅）与 Running（已订阅）
//
// Timer 不是并发安全的，应在驱动 Scheduler.Advance 的 goroutine 中使用
type Timer struct {
	scheduler *Scheduler
	name      string
	onEnd     func()

	maxDuration    time.Duration
	duration       time.Duration
	remainingTicks int

	loop      bool
	loopCount LoopCount

	subscribed  bool
	closed      bool
	completions uint64

	// resets 每次重置倒计时递增，用于发现完成回调中的显式重置
	resets uint64
}

// 编译期接口检查
var _ Countdown = (*Timer)(nil)

// NewTimer 创建 Timer，初始为 Stopped 状态
// 默认不循环；WithLoop 开启循环
func NewTimer(s *Scheduler, duration time.Duration, onEnd func(), opts ...TimerOption) *Timer {
	o := timerOptions{loopCount: InfiniteLoops()}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Timer{
		scheduler: s,
		onEnd:     onEnd,
		loop:      o.loop,
		loopCount: o.loopCount,
	}
	t.name = t.reserveName(o.name)
	t.reset(duration)

	return t
}

// reserveName 在 Scheduler 中预留名称
// name 为空、无效或已被占用时使用自动生成的名称
func (t *Timer) reserveName(name string) string {
	if name == "" {
		return t.generateName()
	}

	err := ValidateName(name)
	if err == nil {
		if t.scheduler.reserve(name, t) {
			return name
		}
		err = ErrDuplicateName
	}

	generated := t.generateName()
	t.scheduler.logger.Warn("timer name unavailable, using generated name",
		"name", name,
		"generated", generated,
		"error", err)
	return generated
}

// generateName 生成并预留 timer-<n>，跳过已被占用的
func (t *Timer) generateName() string {
	for {
		name := t.scheduler.newName("timer")
		if t.scheduler.reserve(name, t) {
			return name
		}
	}
}

// Name 返回订阅名称
func (t *Timer) Name() string {
	return t.name
}

// Start 开始倒计时，已在运行时为空操作
func (t *Timer) Start() {
	t.subscribe()
}

// Pause 暂停倒计时，保留当前进度
func (t *Timer) Pause() {
	t.unsubscribe()
}

// Stop 停止并重置倒计时
// callEnd 为 true 时立即调用完成回调
func (t *Timer) Stop(callEnd bool) {
	t.unsubscribe()
	t.reset(t.maxDuration)

	if callEnd {
		t.invokeEnd()
	}
}

// Restart 从 MaxDuration 重新开始倒计时
func (t *Timer) Restart(callEnd bool) {
	t.RestartWith(callEnd, t.maxDuration)
}

// RestartWith 以 newDuration 作为新的 MaxDuration 重新开始倒计时
// 不论之前是否在运行，结束后都处于 Running 状态
func (t *Timer) RestartWith(callEnd bool, newDuration time.Duration) {
	t.reset(newDuration)

	// 回调 panic 时也保证重新订阅
	defer t.subscribe()

	if callEnd {
		t.invokeEnd()
	}
}

// Reset 把倒计时重置为 MaxDuration，不改变运行状态
func (t *Timer) Reset() {
	t.reset(t.maxDuration)
}

// SetLoop 设置循环策略，不影响当前进度和运行状态
func (t *Timer) SetLoop(loop bool, count LoopCount) {
	t.loop = loop
	t.loopCount = count
}

// Close 取消订阅并释放名称，之后 Start/Restart 不再订阅
func (t *Timer) Close() error {
	t.unsubscribe()
	if !t.closed {
		t.closed = true
		t.scheduler.release(t.name, t)
	}
	return nil
}

// ProcessTick 实现 Tickable 接口
func (t *Timer) ProcessTick(tick uint64) {
	if !t.subscribed {
		return
	}

	t.remainingTicks--
	t.duration -= t.scheduler.Interval()

	if t.remainingTicks <= 0 {
		t.complete()
	}
}

// RemainingTicks 剩余 tick 数
func (t *Timer) RemainingTicks() int {
	return t.remainingTicks
}

// RemainingTime 剩余时间
func (t *Timer) RemainingTime() time.Duration {
	return t.duration
}

// Duration 剩余时间，同 RemainingTime
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// RemainingSeconds 剩余秒数
func (t *Timer) RemainingSeconds() float64 {
	return t.duration.Seconds()
}

// IsRunning 是否正在倒计时
func (t *Timer) IsRunning() bool {
	return t.subscribed
}

// MaxDuration 完整时长
func (t *Timer) MaxDuration() time.Duration {
	return t.maxDuration
}

// Loop 是否循环
func (t *Timer) Loop() bool {
	return t.loop
}

// LoopCount 当前剩余循环次数
func (t *Timer) LoopCount() LoopCount {
	return t.loopCount
}

// Completions 完成回调触发次数（不含 Stop/Restart 主动触发的）
func (t *Timer) Completions() uint64 {
	return t.completions
}

// State 返回状态快照
func (t *Timer) State() TimerState {
	return TimerState{
		Name:           t.name,
		MaxDuration:    t.maxDuration,
		RemainingTime:  t.duration,
		RemainingTicks: t.remainingTicks,
		Loop:           t.loop,
		LoopCount:      t.loopCount,
		Running:        t.subscribed,
		Completions:    t.completions,
	}
}

// complete 倒计时归零
func (t *Timer) complete() {
	t.completions++
	resets := t.resets

	// 回调 panic 时也要完成状态转换，panic 继续交给 Scheduler 处理
	defer func() {
		// 回调中显式重置过倒计时（Stop/Restart/Reset），以调用方为准
		if t.resets != resets {
			return
		}
		t.afterEnd()
	}()

	t.invokeEnd()
}

// afterEnd 完成后的循环或停止
func (t *Timer) afterEnd() {
	if t.loop {
		next, again := t.loopCount.consume()
		t.loopCount = next
		if again {
			t.reset(t.maxDuration)
			return
		}
		// 最后一轮
		t.loop = false
	}
	t.unsubscribe()
}

// reset 重置时长与剩余 tick
func (t *Timer) reset(d time.Duration) {
	t.maxDuration = d
	t.duration = d
	t.remainingTicks = int(d / t.scheduler.Interval())
	t.resets++
}

func (t *Timer) invokeEnd() {
	if t.onEnd != nil {
		t.onEnd()
	}
}

func (t *Timer) subscribe() {
	if t.subscribed || t.closed {
		return
	}
	if err := t.scheduler.Subscribe(t.name, t); err != nil {
		t.scheduler.logger.Error("timer subscribe failed", "name", t.name, "error", err)
		return
	}
	t.subscribed = true
}

// unsubscribe 只移除自己的订阅，不影响同名的其他订阅者
func (t *Timer) unsubscribe() {
	if !t.subscribed {
		return
	}
	t.scheduler.Unsubscribe(t.name)
	t.subscribed = false
}
