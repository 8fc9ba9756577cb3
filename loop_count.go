package tick

import "strconv"

// LoopCount 循环次数策略
// 两种状态：无限循环，或还剩 N 次循环
// 零值为 Loops(0)，即当前这一轮是最后一轮
type LoopCount struct {
	infinite  bool
	remaining uint
}

// InfiniteLoops 无限循环
func InfiniteLoops() LoopCount {
	return LoopCount{infinite: true}
}

// Loops 再循环 n 次
func Loops(n uint) LoopCount {
	return LoopCount{remaining: n}
}

// LoopCountFromInt 从整数编码转换：负数表示无限循环，其余表示剩余次数
func LoopCountFromInt(n int) LoopCount {
	if n < 0 {
		return InfiniteLoops()
	}
	return Loops(uint(n))
}

// IsInfinite 是否无限循环
func (c LoopCount) IsInfinite() bool {
	return c.infinite
}

// Remaining 返回剩余次数，无限循环时 ok 为 false
func (c LoopCount) Remaining() (n uint, ok bool) {
	if c.infinite {
		return 0, false
	}
	return c.remaining, true
}

// Int 返回整数编码，无限循环为 -1
func (c LoopCount) Int() int {
	if c.infinite {
		return -1
	}
	return int(c.remaining)
}

// String 实现 fmt.Stringer
func (c LoopCount) String() string {
	if c.infinite {
		return "infinite"
	}
	return strconv.FormatUint(uint64(c.remaining), 10)
}

// consume 一次完成时消耗循环次数
// 返回是否继续循环，以及消耗后的新值
func (c LoopCount) consume() (LoopCount, bool) {
	switch {
	case c.infinite:
		return c, true
	case c.remaining > 0:
		return Loops(c.remaining - 1), true
	default:
		return c, false
	}
}
