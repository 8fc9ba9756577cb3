package tick

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrInvalidTickInterval tick 间隔无效
	ErrInvalidTickInterval = errors.New("tick: invalid tick interval")
	// ErrInvalidName 订阅名称无效
	ErrInvalidName = errors.New("tick: invalid subscriber name")
	// ErrAdvanceInProgress Advance 正在执行（重入或并发调用）
	ErrAdvanceInProgress = errors.New("tick: advance already in progress")
	// ErrNotFound 订阅者不存在
	ErrNotFound = errors.New("tick: subscriber not found")
	// ErrDuplicateName 名称已被其他订阅者占用
	ErrDuplicateName = errors.New("tick: subscriber name already in use")
)

// DispatchError 订阅者处理 tick 时 panic
type DispatchError struct {
	Name  string // 订阅名称
	Tick  uint64 // 出错时的 tick 序号
	Value any    // recover 得到的值
}

// Error 实现 error 接口
func (e *DispatchError) Error() string {
	return fmt.Sprintf("tick: subscriber %q panicked on tick %d: %v", e.Name, e.Tick, e.Value)
}

// Unwrap 如果 panic 的值本身是 error，返回它
func (e *DispatchError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// subscription 一个订阅项
type subscription struct {
	name     string
	tickable Tickable
	active   bool // 取消订阅后置为 false，由 Scheduler.mu 保护
}

// Scheduler tick 调度器
// 把不规则的真实时间增量转换为固定间隔的 tick，并同步广播给所有订阅者
//
// 架构设计：
// - 由宿主的帧循环调用 Advance(dt) 驱动，内部没有 goroutine
// - 广播前对订阅列表做快照，广播期间允许订阅者重入 Subscribe/Unsubscribe
// - 广播顺序为订阅顺序，但订阅者不应依赖彼此之间的顺序
// - 单个订阅者 panic 会被隔离，不影响同一次广播中的其他订阅者
type Scheduler struct {
	mu          sync.Mutex
	interval    time.Duration
	maxCatchUp  int
	tickCount   uint64
	accumulated time.Duration

	// 订阅表：名称 -> 订阅项，order 保持订阅顺序
	registry map[string]*subscription
	order    []*subscription

	// 预留的名称 -> 持有者，Timer 在创建时预留，未订阅时也占用名称
	reserved map[string]Tickable

	// 防止 Advance 重入或并发
	advancing atomic.Bool

	// 自动生成订阅名称用
	nextID atomic.Uint64

	stats  counters
	logger *slog.Logger
}

// NewScheduler 创建新的调度器
func NewScheduler(config Config) (*Scheduler, error) {
	if config.TickInterval <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTickInterval, config.TickInterval)
	}
	if config.MaxTicksPerAdvance < 0 {
		config.MaxTicksPerAdvance = 0
	}

	// 初始化 logger
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		interval:   config.TickInterval,
		maxCatchUp: config.MaxTicksPerAdvance,
		registry:   make(map[string]*subscription),
		reserved:   make(map[string]Tickable),
		logger:     logger,
	}, nil
}

// MustNewScheduler 同 NewScheduler，配置无效时 panic
func MustNewScheduler(config Config) *Scheduler {
	s, err := NewScheduler(config)
	if err != nil {
		panic(err)
	}
	return s
}

// Interval 返回 tick 间隔
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// TickCount 返回当前 tick 序号
func (s *Scheduler) TickCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickCount
}

// Accumulated 返回尚未凑满一个间隔的累计时间
func (s *Scheduler) Accumulated() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accumulated
}

// Len 返回订阅者数量
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Subscribe 订阅 tick
// 同一订阅者重复订阅为空操作；名称被其他订阅者占用（已订阅或已预留）时返回 ErrDuplicateName
// 可以在广播过程中调用，新订阅者从下一个 tick 开始接收
func (s *Scheduler) Subscribe(name string, tickable Tickable) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("subscribe %q: %w", name, err)
	}
	if tickable == nil {
		return fmt.Errorf("subscribe %q: nil tickable", name)
	}

	s.mu.Lock()
	if owner, ok := s.reserved[name]; ok && !sameTickable(owner, tickable) {
		s.mu.Unlock()
		return fmt.Errorf("subscribe %q: %w", name, ErrDuplicateName)
	}
	if sub, exists := s.registry[name]; exists {
		s.mu.Unlock()
		if !sameTickable(sub.tickable, tickable) {
			return fmt.Errorf("subscribe %q: %w", name, ErrDuplicateName)
		}
		return nil
	}
	sub := &subscription{name: name, tickable: tickable, active: true}
	s.registry[name] = sub
	s.order = append(s.order, sub)
	s.mu.Unlock()

	s.stats.recordSubscribe()
	s.logger.Debug("tick subscriber added", "name", name)
	return nil
}

// Unsubscribe 取消订阅
// 不存在时为空操作；可以在广播过程中调用，被移除的订阅者不会再收到本次广播
func (s *Scheduler) Unsubscribe(name string) {
	s.mu.Lock()
	sub, exists := s.registry[name]
	if !exists {
		s.mu.Unlock()
		return
	}
	sub.active = false
	delete(s.registry, name)
	for i, o := range s.order {
		if o == sub {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.stats.recordUnsubscribe()
	s.logger.Debug("tick subscriber removed", "name", name)
}

// IsSubscribed 是否已订阅
func (s *Scheduler) IsSubscribed(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.registry[name]
	return exists
}

// Advance 推进 dt 的真实时间
// 每跨过一个间隔发出一个 tick（完整补发，可由 MaxTicksPerAdvance 限制）
// 负的 dt 按 0 处理。返回本次推进中所有订阅者 panic 组成的错误
func (s *Scheduler) Advance(dt time.Duration) error {
	if !s.advancing.CompareAndSwap(false, true) {
		return ErrAdvanceInProgress
	}
	defer s.advancing.Store(false)

	s.stats.recordAdvance()

	if dt < 0 {
		s.stats.recordClamp()
		s.logger.Debug("negative tick delta clamped", "dt", dt)
		dt = 0
	}

	s.mu.Lock()
	s.accumulated += dt
	s.mu.Unlock()

	var errs []error
	fired := 0
	for {
		s.mu.Lock()
		if s.accumulated < s.interval {
			s.mu.Unlock()
			break
		}

		if s.maxCatchUp > 0 && fired >= s.maxCatchUp {
			// 落后太多，丢弃剩余的整数个间隔
			dropped := uint64(s.accumulated / s.interval)
			s.accumulated %= s.interval
			s.mu.Unlock()

			s.stats.recordDrop(dropped)
			s.logger.Warn("tick catch-up limit reached, dropping ticks",
				"dropped", dropped,
				"limit", s.maxCatchUp)
			break
		}

		s.accumulated -= s.interval
		s.tickCount++
		tick := s.tickCount

		// 复制一份列表，广播时不持锁
		snapshot := make([]*subscription, len(s.order))
		copy(snapshot, s.order)
		s.mu.Unlock()

		fired++
		errs = append(errs, s.broadcast(tick, snapshot)...)
	}

	return errors.Join(errs...)
}

// broadcast 把 tick 投递给快照中仍然有效的订阅者
func (s *Scheduler) broadcast(tick uint64, snapshot []*subscription) []error {
	var errs []error
	for _, sub := range snapshot {
		// 广播过程中被取消订阅的跳过
		s.mu.Lock()
		active := sub.active
		s.mu.Unlock()
		if !active {
			continue
		}

		if err := s.deliver(sub, tick); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// deliver 投递给单个订阅者，隔离 panic
func (s *Scheduler) deliver(sub *subscription, tick uint64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.stats.recordPanic()
			err = &DispatchError{Name: sub.name, Tick: tick, Value: r}
			s.logger.Error("tick subscriber panicked",
				"name", sub.name,
				"tick", tick,
				"panic", r)
		}
	}()

	s.stats.recordDispatch()
	sub.tickable.ProcessTick(tick)
	return nil
}

// Stats 返回统计信息快照
func (s *Scheduler) Stats() *Stats {
	s.mu.Lock()
	stats := &Stats{
		Interval:    s.interval,
		TickCount:   s.tickCount,
		Accumulated: s.accumulated,
		Subscribers: len(s.order),
	}
	s.mu.Unlock()

	s.stats.fill(stats)
	return stats
}

// subscribers 返回当前订阅项的快照
func (s *Scheduler) subscribers() []*subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := make([]*subscription, len(s.order))
	copy(subs, s.order)
	return subs
}

// lookup 按名称查找订阅项
func (s *Scheduler) lookup(name string) (*subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.registry[name]
	return sub, ok
}

// newName 生成订阅名称，不保证未被占用
func (s *Scheduler) newName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, s.nextID.Add(1))
}

// reserve 为 owner 预留名称
// 名称已被其他订阅者预留或订阅时返回 false
func (s *Scheduler) reserve(name string, owner Tickable) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if held, ok := s.reserved[name]; ok {
		return sameTickable(held, owner)
	}
	if sub, ok := s.registry[name]; ok && !sameTickable(sub.tickable, owner) {
		return false
	}
	s.reserved[name] = owner
	return true
}

// release 释放 owner 预留的名称
func (s *Scheduler) release(name string, owner Tickable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if held, ok := s.reserved[name]; ok && sameTickable(held, owner) {
		delete(s.reserved, name)
	}
}

// sameTickable 比较两个订阅者是否为同一个
// 不可比较的类型（例如 TickableFunc）视为不同
func sameTickable(a, b Tickable) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
