package timex

import (
	"testing"
	"time"
)

func TestPeriodFromHz(t *testing.T) {
	if got := PeriodFromHz(2000); got != 500*time.Microsecond {
		t.Fatalf("2000 Hz -> %v", got)
	}
	if got := PeriodFromHz(5); got != 200*time.Millisecond {
		t.Fatalf("5 Hz -> %v", got)
	}
	if got := PeriodFromHz(0); got != time.Second {
		t.Fatalf("0 Hz -> %v", got)
	}
}

func TestPeriodicBoundaries(t *testing.T) {
	base := time.Unix(0, 0)
	now := base
	calls := 0
	p := &Periodic{Now: func() time.Time {
		calls++
		now = now.Add(100 * time.Microsecond)
		return now
	}}
	p.Start(2000) // 500µs
	p.Wait()
	if now.Before(base.Add(500 * time.Microsecond)) {
		t.Fatalf("first Wait returned early at %v", now.Sub(base))
	}
	p.Wait()
	if now.Before(base.Add(1000 * time.Microsecond)) {
		t.Fatalf("second Wait returned early at %v", now.Sub(base))
	}
	if calls == 0 {
		t.Fatal("clock never consulted")
	}
}
