package composer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { fired.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
}

func TestDebouncerFiresAgainAfterQuietWindow(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	time.Sleep(50 * time.Millisecond)
	d.Trigger(func() { fired.Add(1) })
	time.Sleep(50 * time.Millisecond)

	if got := fired.Load(); got != 2 {
		t.Errorf("fired %d times, want 2", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("stopped debouncer fired %d times", got)
	}
}

func TestDebouncerRejectsTriggerAfterStop(t *testing.T) {
	d := NewDebouncer(5 * time.Millisecond)
	d.Stop()

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })

	time.Sleep(30 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("trigger after stop fired %d times", got)
	}
}

func TestNewDebouncerDefaultsNonPositiveDelay(t *testing.T) {
	d := NewDebouncer(0)
	defer d.Stop()

	if d.delay != DefaultPreviewDebounce {
		t.Errorf("delay = %v, want %v", d.delay, DefaultPreviewDebounce)
	}
}
