package clock

import (
	"time"
)

// Clock 时间源，状态机的所有截止时间判断都从这里取当前时间
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时钟
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock 固定时钟，测试用，可手动推进
type FixedClock struct {
	current time.Time
}

// NewFixed 创建固定时钟
func NewFixed(t time.Time) *FixedClock {
	return &FixedClock{current: t}
}

func (c *FixedClock) Now() time.Time {
	return c.current
}

// Set 设置当前时间
func (c *FixedClock) Set(t time.Time) {
	c.current = t
}

// Advance 推进当前时间
func (c *FixedClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
