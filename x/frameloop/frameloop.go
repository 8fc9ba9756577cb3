// Package frameloop provides a real-time host loop for a tick scheduler.
// It measures elapsed time between frames and feeds it to Advance,
// and serializes host actions onto the same goroutine so timers
// never need locking.
package frameloop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go-slim.dev/tick"
)

var (
	// ErrStopped is returned when submitting to a stopped loop.
	ErrStopped = errors.New("frameloop: stopped")
	// ErrQueueFull is returned when the task queue is full.
	ErrQueueFull = errors.New("frameloop: task queue full")
)

// Advancer is driven once per frame with the elapsed real time.
type Advancer interface {
	Advance(dt time.Duration) error
}

// Compile-time interface check
var _ Advancer = (*tick.Scheduler)(nil)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Config configures a Loop.
type Config struct {
	// FrameInterval is the frame cadence (default 16ms, ~60 FPS).
	FrameInterval time.Duration
	// Clock measures frame deltas (default: system clock).
	Clock Clock
	// QueueSize is the task queue capacity (default 256).
	QueueSize int
	// OnError receives errors returned by Advance (default: log them).
	OnError func(error)
	// OnFrame runs on the loop goroutine after each Advance.
	OnFrame func(dt time.Duration)
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Loop is a goroutine-owned frame driver.
// Everything that touches timers should run on the loop goroutine,
// either from tick callbacks or through Submit / Do.
type Loop struct {
	target        Advancer
	frameInterval time.Duration
	clock         Clock
	onError       func(error)
	onFrame       func(dt time.Duration)
	logger        *slog.Logger

	tasks chan func()

	mu   sync.Mutex
	last time.Time // Last frame time, zero before the first frame

	frames atomic.Uint64

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a new loop driving target.
func New(target Advancer, config Config) *Loop {
	if config.FrameInterval <= 0 {
		config.FrameInterval = 16 * time.Millisecond
	}
	if config.Clock == nil {
		config.Clock = systemClock{}
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 256
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Loop{
		target:        target,
		frameInterval: config.FrameInterval,
		clock:         config.Clock,
		onError:       config.OnError,
		onFrame:       config.OnFrame,
		logger:        logger,
		tasks:         make(chan func(), config.QueueSize),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start starts the loop goroutine.
func (l *Loop) Start() {
	l.startOnce.Do(func() {
		l.mu.Lock()
		l.last = l.clock.Now()
		l.mu.Unlock()

		l.wg.Add(1)
		go l.run()
	})
}

// Stop stops the loop and waits for the goroutine to exit.
// Queued tasks that have not run are discarded.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.cancel()
		l.wg.Wait()
	})
}

// Frames returns the number of frames processed.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

// Submit queues fn to run on the loop goroutine.
// It never blocks.
func (l *Loop) Submit(fn func()) error {
	if l.ctx.Err() != nil {
		return ErrStopped
	}

	select {
	case l.tasks <- fn:
		return nil
	default:
		return ErrQueueFull
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
// It must not be called from the loop goroutine itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := l.Submit(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ctx.Done():
		return ErrStopped
	}
}

// Frame runs one frame: pending tasks first, then Advance with the
// time elapsed since the previous frame, then OnFrame. The first frame
// advances by 0.
// Exported for hosts that drive frames themselves; do not call it
// after Start.
func (l *Loop) Frame() {
	l.drain()

	now := l.clock.Now()

	l.mu.Lock()
	var dt time.Duration
	if !l.last.IsZero() {
		dt = now.Sub(l.last)
	}
	l.last = now
	l.mu.Unlock()

	l.frames.Add(1)

	if err := l.target.Advance(dt); err != nil {
		if l.onError != nil {
			l.onError(err)
		} else {
			l.logger.Error("frame advance failed", "dt", dt, "error", err)
		}
	}

	if l.onFrame != nil {
		l.onFrame(dt)
	}
}

// run is the main loop.
func (l *Loop) run() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return
		case fn := <-l.tasks:
			// Run tasks as soon as they arrive, between frames
			l.runTask(fn)
		case <-ticker.C:
			l.Frame()
		}
	}
}

// drain runs all currently queued tasks without blocking.
func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.tasks:
			l.runTask(fn)
		default:
			return
		}
	}
}

// runTask runs fn, isolating panics from the loop.
func (l *Loop) runTask(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("frame task panicked", "panic", r)
		}
	}()
	fn()
}
