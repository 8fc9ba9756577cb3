// Package metrics 提供 Prometheus metrics 支持
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"go-slim.dev/tick"
)

// Source 指标数据来源
// *tick.Inspector 实现了此接口；跨 goroutine 采集时可包装一层，
// 把读取放到驱动 Advance 的 goroutine 上执行
type Source interface {
	Stats() *tick.Stats
	Subscribers() []tick.SubscriberInfo
}

// 编译期接口检查
var _ Source = (*tick.Inspector)(nil)

// Collector 实现 prometheus.Collector 接口
// 用于收集 tick 调度器的监控指标
type Collector struct {
	source Source

	// Gauge metrics（当前状态）
	subscribers      *prometheus.Desc
	accumulated      *prometheus.Desc
	interval         *prometheus.Desc
	remainingTicks   *prometheus.Desc
	remainingSeconds *prometheus.Desc

	// Counter metrics（累计值）
	ticksTotal         *prometheus.Desc
	advancesTotal      *prometheus.Desc
	dispatchesTotal    *prometheus.Desc
	panicsTotal        *prometheus.Desc
	clampedDeltasTotal *prometheus.Desc
	droppedTicksTotal  *prometheus.Desc
}

// NewCollector 创建新的 Prometheus Collector
func NewCollector(source Source) *Collector {
	return &Collector{
		source: source,

		// Gauge metrics
		subscribers: prometheus.NewDesc(
			"tick_subscribers",
			"Number of subscribers currently receiving ticks",
			nil,
			nil,
		),
		accumulated: prometheus.NewDesc(
			"tick_accumulated_seconds",
			"Real time accumulated towards the next tick",
			nil,
			nil,
		),
		interval: prometheus.NewDesc(
			"tick_interval_seconds",
			"Fixed duration represented by one tick",
			nil,
			nil,
		),
		remainingTicks: prometheus.NewDesc(
			"tick_subscriber_remaining_ticks",
			"Remaining ticks of countdown subscribers",
			[]string{"name"},
			nil,
		),
		remainingSeconds: prometheus.NewDesc(
			"tick_subscriber_remaining_seconds",
			"Remaining time of countdown subscribers",
			[]string{"name"},
			nil,
		),

		// Counter metrics
		ticksTotal: prometheus.NewDesc(
			"tick_ticks_total",
			"Total number of ticks emitted",
			nil,
			nil,
		),
		advancesTotal: prometheus.NewDesc(
			"tick_advances_total",
			"Total number of advance calls",
			nil,
			nil,
		),
		dispatchesTotal: prometheus.NewDesc(
			"tick_dispatches_total",
			"Total number of tick deliveries to subscribers",
			nil,
			nil,
		),
		panicsTotal: prometheus.NewDesc(
			"tick_panics_total",
			"Total number of recovered subscriber panics",
			nil,
			nil,
		),
		clampedDeltasTotal: prometheus.NewDesc(
			"tick_clamped_deltas_total",
			"Total number of negative deltas clamped to zero",
			nil,
			nil,
		),
		droppedTicksTotal: prometheus.NewDesc(
			"tick_dropped_ticks_total",
			"Total number of ticks dropped by the catch-up limit",
			nil,
			nil,
		),
	}
}

// Describe 实现 prometheus.Collector 接口
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.subscribers
	ch <- c.accumulated
	ch <- c.interval
	ch <- c.remainingTicks
	ch <- c.remainingSeconds
	ch <- c.ticksTotal
	ch <- c.advancesTotal
	ch <- c.dispatchesTotal
	ch <- c.panicsTotal
	ch <- c.clampedDeltasTotal
	ch <- c.droppedTicksTotal
}

// Collect 实现 prometheus.Collector 接口
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.Stats()

	// 调度器状态（Gauge）
	ch <- prometheus.MustNewConstMetric(c.subscribers, prometheus.GaugeValue, float64(stats.Subscribers))
	ch <- prometheus.MustNewConstMetric(c.accumulated, prometheus.GaugeValue, stats.Accumulated.Seconds())
	ch <- prometheus.MustNewConstMetric(c.interval, prometheus.GaugeValue, stats.Interval.Seconds())

	// 倒计时订阅者（Gauge）
	for _, info := range c.source.Subscribers() {
		if !info.Countdown {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.remainingTicks, prometheus.GaugeValue, float64(info.RemainingTicks), info.Name)
		ch <- prometheus.MustNewConstMetric(c.remainingSeconds, prometheus.GaugeValue, info.RemainingTime.Seconds(), info.Name)
	}

	// 操作统计（Counter）
	ch <- prometheus.MustNewConstMetric(c.ticksTotal, prometheus.CounterValue, float64(stats.TickCount))
	ch <- prometheus.MustNewConstMetric(c.advancesTotal, prometheus.CounterValue, float64(stats.Advances))
	ch <- prometheus.MustNewConstMetric(c.dispatchesTotal, prometheus.CounterValue, float64(stats.Dispatches))
	ch <- prometheus.MustNewConstMetric(c.panicsTotal, prometheus.CounterValue, float64(stats.Panics))
	ch <- prometheus.MustNewConstMetric(c.clampedDeltasTotal, prometheus.CounterValue, float64(stats.ClampedDeltas))
	ch <- prometheus.MustNewConstMetric(c.droppedTicksTotal, prometheus.CounterValue, float64(stats.DroppedTicks))
}
