package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTriggerCoalesces(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 4)
	db := New(30*time.Millisecond, func() {
		calls.Add(1)
		done <- struct{}{}
	})
	for i := 0; i < 5; i++ {
		db.Trigger()
		time.Sleep(5 * time.Millisecond)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("防抖函数未执行")
	}
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("连续触发应只执行一次, got %d", got)
	}
}

func TestFlush(t *testing.T) {
	var calls atomic.Int32
	db := New(time.Hour, func() { calls.Add(1) })
	db.Flush()
	if calls.Load() != 0 {
		t.Fatalf("没有等待中的触发时 Flush 不应执行")
	}
	db.Trigger()
	db.Flush()
	if calls.Load() != 1 {
		t.Fatalf("Flush 应立即执行一次, got %d", calls.Load())
	}
	db.Flush()
	if calls.Load() != 1 {
		t.Fatalf("重复 Flush 不应再次执行")
	}
}

func TestStop(t *testing.T) {
	var calls atomic.Int32
	db := New(10*time.Millisecond, func() { calls.Add(1) })
	db.Trigger()
	db.Stop()
	db.Trigger()
	time.Sleep(40 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("Stop 后不应执行, got %d", calls.Load())
	}
}
