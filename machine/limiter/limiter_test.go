package limiter

import "testing"

func TestSetLimitStoresIdealFPSFromRefreshRate(t *testing.T) {
	l := New(50.125)
	if got := l.IdealFPS.Load().(float32); got != 50.125 {
		t.Fatalf("expected IdealFPS 50.125, got %v", got)
	}
}

func TestSetLimitOverridesIdealFPS(t *testing.T) {
	l := New(50.125)
	l.SetLimit(1000.0)
	if got := l.IdealFPS.Load().(float32); got != 1000.0 {
		t.Fatalf("expected IdealFPS 1000, got %v", got)
	}
}

func TestInactiveLimiterCheckFrameDoesNotBlock(t *testing.T) {
	l := New(50.125)
	l.Active = false
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			l.CheckFrame()
		}
		close(done)
	}()
	select {
	case <-done:
	default:
	}
	<-done
}
