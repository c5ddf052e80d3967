// Package debounce 合并短时间内的连续触发，只在最后一次触发后静默 d 时执行。
package debounce

import (
	"sync"
	"time"
)

// Debouncer 是尾沿防抖器。fn 在独立的 goroutine 中执行。
type Debouncer struct {
	d  time.Duration
	fn func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// New 创建防抖器。d <= 0 时每次 Trigger 都立即（异步）执行 fn。
func New(d time.Duration, fn func()) *Debouncer {
	return &Debouncer{d: d, fn: fn}
}

// Trigger 重新开始计时。
func (db *Debouncer) Trigger() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.stopped {
		return
	}
	if db.timer != nil {
		db.timer.Stop()
	}
	db.timer = time.AfterFunc(db.d, db.fire)
}

// Flush 取消等待中的计时并立即执行一次 fn。没有等待中的触发时什么也不做。
func (db *Debouncer) Flush() {
	db.mu.Lock()
	pending := db.timer != nil && db.timer.Stop()
	db.timer = nil
	db.mu.Unlock()
	if pending {
		db.fn()
	}
}

// Stop 取消等待中的触发，之后的 Trigger 被忽略。
func (db *Debouncer) Stop() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.stopped = true
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
}

func (db *Debouncer) fire() {
	db.mu.Lock()
	if db.stopped {
		db.mu.Unlock()
		return
	}
	db.timer = nil
	db.mu.Unlock()
	db.fn()
}
