package typing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type watcherRecorder struct {
	mu    sync.Mutex
	shows []uint64
	hides []uint64
}

func (r *watcherRecorder) show(userID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shows = append(r.shows, userID)
}

func (r *watcherRecorder) hide(userID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hides = append(r.hides, userID)
}

func (r *watcherRecorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shows), len(r.hides)
}

// 键入事件刷新只展示一次指示
func TestWatcherShowsOnce(t *testing.T) {
	rec := &watcherRecorder{}
	w := NewWatcher(window, rec.show, rec.hide)
	defer w.Close()

	w.Refresh(7)
	w.Refresh(7)
	w.Refresh(7)

	shows, hides := rec.counts()
	assert.Equal(t, 1, shows)
	assert.Equal(t, 0, hides)
	assert.True(t, w.Active(7))
}

// 清除事件丢失时，消隐窗口到期自动隐藏
func TestWatcherAutoHidesWithoutClear(t *testing.T) {
	rec := &watcherRecorder{}
	w := NewWatcher(window, rec.show, rec.hide)
	defer w.Close()

	w.Refresh(7)
	time.Sleep(window * 2)

	_, hides := rec.counts()
	assert.Equal(t, 1, hides)
	assert.False(t, w.Active(7))
}

// 显式清除立即隐藏
func TestWatcherClear(t *testing.T) {
	rec := &watcherRecorder{}
	w := NewWatcher(window, rec.show, rec.hide)
	defer w.Close()

	w.Refresh(7)
	w.Clear(7)

	_, hides := rec.counts()
	assert.Equal(t, 1, hides)
	assert.False(t, w.Active(7))

	// 已隐藏后重复清除是空操作
	w.Clear(7)
	_, hides = rec.counts()
	assert.Equal(t, 1, hides)
}

// 持续刷新会顺延消隐计时器
func TestWatcherRefreshExtendsWindow(t *testing.T) {
	rec := &watcherRecorder{}
	w := NewWatcher(window, rec.show, rec.hide)
	defer w.Close()

	w.Refresh(7)
	time.Sleep(window * 3 / 4)
	w.Refresh(7)
	time.Sleep(window * 3 / 4)

	_, hides := rec.counts()
	assert.Equal(t, 0, hides)
	assert.True(t, w.Active(7))
}

// 多个用户的指示互不影响
func TestWatcherTracksUsersIndependently(t *testing.T) {
	rec := &watcherRecorder{}
	w := NewWatcher(window, rec.show, rec.hide)
	defer w.Close()

	w.Refresh(7)
	w.Refresh(8)
	w.Clear(7)

	assert.False(t, w.Active(7))
	assert.True(t, w.Active(8))
}
