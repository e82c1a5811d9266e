package typing

import (
	"sync"
	"time"
)

// Watcher 接收端键入指示器
// 收到键入事件后展示指示，expireWindow 内未刷新则自动消隐，
// 覆盖删除事件丢失的场景。
type Watcher struct {
	mu     sync.Mutex
	timers map[uint64]*time.Timer

	expireWindow time.Duration
	onShow       func(userID uint64)
	onHide       func(userID uint64)
}

func NewWatcher(expireWindow time.Duration, onShow, onHide func(userID uint64)) *Watcher {
	return &Watcher{
		timers:       make(map[uint64]*time.Timer),
		expireWindow: expireWindow,
		onShow:       onShow,
		onHide:       onHide,
	}
}

// Refresh 收到某用户的键入事件
// 未展示则展示并启动消隐计时器，已展示则只重置计时器。
func (w *Watcher) Refresh(userID uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[userID]; ok {
		t.Reset(w.expireWindow)
		return
	}

	w.timers[userID] = time.AfterFunc(w.expireWindow, func() {
		w.expire(userID)
	})
	if w.onShow != nil {
		w.onShow(userID)
	}
}

// Clear 收到显式的停止键入事件
func (w *Watcher) Clear(userID uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hideLocked(userID)
}

// Close 关闭所有计时器
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for userID := range w.timers {
		w.hideLocked(userID)
	}
}

func (w *Watcher) expire(userID uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hideLocked(userID)
}

func (w *Watcher) hideLocked(userID uint64) {
	t, ok := w.timers[userID]
	if !ok {
		return
	}
	t.Stop()
	delete(w.timers, userID)
	if w.onHide != nil {
		w.onHide(userID)
	}
}

// Active 某用户的键入指示是否展示中
func (w *Watcher) Active(userID uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.timers[userID]
	return ok
}
