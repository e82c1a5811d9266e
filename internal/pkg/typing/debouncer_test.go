package typing

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const window = 60 * time.Millisecond

func newCountingDebouncer() (*Debouncer, *atomic.Int32, *atomic.Int32) {
	var starts, stops atomic.Int32
	d := NewDebouncer(window,
		func() { starts.Add(1) },
		func() { stops.Add(1) },
	)
	return d, &starts, &stops
}

// 连续键入只上报一次开始，空闲窗口内不重复触发
func TestDebouncerContinuousTyping(t *testing.T) {
	d, starts, stops := newCountingDebouncer()
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Touch()
		time.Sleep(window / 4)
	}

	assert.Equal(t, int32(1), starts.Load())
	assert.Equal(t, int32(0), stops.Load())
	assert.True(t, d.IsTyping())
}

// 停止键入后空闲窗口到期，自动上报停止
func TestDebouncerIdleExpiry(t *testing.T) {
	d, starts, stops := newCountingDebouncer()
	defer d.Stop()

	d.Touch()
	time.Sleep(window * 2)

	assert.Equal(t, int32(1), starts.Load())
	assert.Equal(t, int32(1), stops.Load())
	assert.False(t, d.IsTyping())
}

// 发送消息立即清除键入态，不等计时器
func TestDebouncerFlushOnSend(t *testing.T) {
	d, _, stops := newCountingDebouncer()
	defer d.Stop()

	d.Touch()
	d.Flush()

	assert.Equal(t, int32(1), stops.Load())
	assert.False(t, d.IsTyping())

	// 清除后再次 Flush 不重复上报
	d.Flush()
	assert.Equal(t, int32(1), stops.Load())
}

// 空闲后再次键入，重新走一轮 开始 -> 停止
func TestDebouncerRestartsAfterIdle(t *testing.T) {
	d, starts, stops := newCountingDebouncer()
	defer d.Stop()

	d.Touch()
	d.Flush()
	d.Touch()
	time.Sleep(window * 2)

	assert.Equal(t, int32(2), starts.Load())
	assert.Equal(t, int32(2), stops.Load())
}

// 键入中继续敲击会顺延计时器
func TestDebouncerTouchExtendsWindow(t *testing.T) {
	d, _, stops := newCountingDebouncer()
	defer d.Stop()

	d.Touch()
	time.Sleep(window * 3 / 4)
	d.Touch()
	time.Sleep(window * 3 / 4)

	assert.Equal(t, int32(0), stops.Load())
	assert.True(t, d.IsTyping())
}
