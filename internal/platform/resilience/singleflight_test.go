package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, _ := g.Do("standings:39:2025", func() (string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil || val != "ok" {
				t.Errorf("singleflight call failed: val=%q err=%v", val, err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_ReleasesKeyAfterPanic(t *testing.T) {
	var g SingleFlight[int]

	func() {
		defer func() { _ = recover() }()
		_, _, _ = g.Do("k", func() (int, error) { panic("boom") })
	}()

	val, err, shared := g.Do("k", func() (int, error) { return 7, nil })
	if err != nil || val != 7 || shared {
		t.Fatalf("unexpected result after panic: val=%d err=%v shared=%t", val, err, shared)
	}
}
