package benchmarks

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"go-slim.dev/tick"
)

func newBenchScheduler(b *testing.B) *tick.Scheduler {
	b.Helper()
	config := tick.DefaultConfig()
	config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := tick.NewScheduler(config)
	if err != nil {
		b.Fatalf("NewScheduler() error: %v", err)
	}
	return s
}

// BenchmarkScheduler_Subscribe 测试订阅性能
func BenchmarkScheduler_Subscribe(b *testing.B) {
	s := newBenchScheduler(b)
	noop := tick.TickableFunc(func(uint64) {})

	for i := 0; b.Loop(); i++ {
		_ = s.Subscribe(fmt.Sprintf("obj-%d", i), noop)
	}
}

// BenchmarkScheduler_SubscribeUnsubscribe 测试订阅后立即取消的性能
func BenchmarkScheduler_SubscribeUnsubscribe(b *testing.B) {
	s := newBenchScheduler(b)
	noop := tick.TickableFunc(func(uint64) {})

	for b.Loop() {
		_ = s.Subscribe("obj", noop)
		s.Unsubscribe("obj")
	}
}

// BenchmarkScheduler_AdvanceFrame 测试不跨过间隔的帧推进
func BenchmarkScheduler_AdvanceFrame(b *testing.B) {
	s := newBenchScheduler(b)
	for i := range 100 {
		_ = s.Subscribe(fmt.Sprintf("obj-%d", i), tick.TickableFunc(func(uint64) {}))
	}

	for b.Loop() {
		_ = s.Advance(time.Millisecond)
	}
}

// BenchmarkScheduler_Broadcast 测试不同订阅者数量下的广播性能
func BenchmarkScheduler_Broadcast(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("timers-%d", n), func(b *testing.B) {
			s := newBenchScheduler(b)
			for range n {
				timer := tick.NewTimer(s, time.Hour, nil, tick.WithLoop(tick.InfiniteLoops()))
				timer.Start()
			}

			for b.Loop() {
				_ = s.Advance(s.Interval())
			}
		})
	}
}

// BenchmarkTimer_LoopCycle 测试短周期循环 Timer 的完成开销
func BenchmarkTimer_LoopCycle(b *testing.B) {
	s := newBenchScheduler(b)
	ends := 0
	timer := tick.NewTimer(s, s.Interval(), func() { ends++ }, tick.WithLoop(tick.InfiniteLoops()))
	timer.Start()

	for b.Loop() {
		_ = s.Advance(s.Interval())
	}
	b.ReportMetric(float64(ends)/float64(b.N), "ends/op")
}
