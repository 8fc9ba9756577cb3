package tick

import (
	"log/slog"
	"time"
)

// Config Scheduler 配置
type Config struct {
	// TickInterval 每个 tick 代表的时间，必须大于 0
	TickInterval time.Duration

	// MaxTicksPerAdvance 单次 Advance 最多补发的 tick 数（0 表示无限制）
	// 超出部分的整数个间隔会被丢弃，只保留不足一个间隔的余量
	MaxTicksPerAdvance int

	// === 日志配置 ===

	// Logger 日志记录器（可选）
	// 如果为 nil，将使用 slog.Default()
	Logger *slog.Logger
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		TickInterval:       DefaultTickInterval,
		MaxTicksPerAdvance: 0, // 完整补发
	}
}
