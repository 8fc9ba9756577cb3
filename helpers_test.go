package tick

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

// newTestScheduler 创建测试用调度器，日志丢弃
func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	return newTestSchedulerWithConfig(t, DefaultConfig())
}

func newTestSchedulerWithConfig(t *testing.T, config Config) *Scheduler {
	t.Helper()
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s, err := NewScheduler(config)
	if err != nil {
		t.Fatalf("NewScheduler() error: %v", err)
	}
	return s
}

// advanceTicks 精确推进 n 个 tick
func advanceTicks(t *testing.T, s *Scheduler, n int) {
	t.Helper()
	for range n {
		if err := s.Advance(s.Interval()); err != nil {
			t.Fatalf("Advance() error: %v", err)
		}
	}
}

// tickRecorder 记录收到的 tick
type tickRecorder struct {
	ticks []uint64
	onTick func(tick uint64)
}

func (r *tickRecorder) ProcessTick(tick uint64) {
	r.ticks = append(r.ticks, tick)
	if r.onTick != nil {
		r.onTick(tick)
	}
}

func (r *tickRecorder) count() int {
	return len(r.ticks)
}

// ticksOf 返回 d 对应的 tick 数
func ticksOf(s *Scheduler, d time.Duration) int {
	return int(d / s.Interval())
}
