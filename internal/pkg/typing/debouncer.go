// Package typing 实现键入状态机：idle → typing → idle
// 防抖与消隐窗口均由配置注入，不使用魔法数字
package typing

import (
	"sync"
	"time"
)

// Debouncer 发送端键入防抖器
// 首次键入触发 onStart，此后每次键入只重置空闲计时器；
// 计时器到期或显式 Flush（发送消息）时触发 onStop。
type Debouncer struct {
	mu     sync.Mutex
	typing bool
	timer  *time.Timer

	idleWindow time.Duration
	onStart    func()
	onStop     func()
}

func NewDebouncer(idleWindow time.Duration, onStart, onStop func()) *Debouncer {
	return &Debouncer{
		idleWindow: idleWindow,
		onStart:    onStart,
		onStop:     onStop,
	}
}

// Touch 记录一次键入
// 空闲态：立即触发 onStart 并启动空闲计时器；
// 键入态：只重置计时器，不重复触发 onStart。
func (d *Debouncer) Touch() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.typing {
		d.timer.Reset(d.idleWindow)
		return
	}

	d.typing = true
	d.timer = time.AfterFunc(d.idleWindow, d.expire)
	if d.onStart != nil {
		d.onStart()
	}
}

// Flush 发送消息时调用，无论计时器状态立即回到空闲态
func (d *Debouncer) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Stop 关闭防抖器，等价于 Flush
func (d *Debouncer) Stop() {
	d.Flush()
}

func (d *Debouncer) expire() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) stopLocked() {
	if !d.typing {
		return
	}
	d.typing = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.onStop != nil {
		d.onStop()
	}
}

// IsTyping 当前是否处于键入态
func (d *Debouncer) IsTyping() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.typing
}
