// Package limiter paces frame production to the video standard's refresh
// rate (or an arbitrary warp multiple of it), grounded verbatim on the
// teacher's hardware/television/limiter package: an atomic.Value-guarded
// Limiter struct driven by a time.Ticker, so the pacing fields can be read
// from a GUI goroutine without a lock while the emulation goroutine adjusts
// them.
package limiter

import (
	"sync/atomic"
	"time"
)

// MatchRefreshRate tells SetLimit to pace to whatever RefreshRate currently
// holds, rather than an explicit FPS value.
const MatchRefreshRate float32 = -1.0

// Limiter paces Machine.RunFrame to a target frame rate.
type Limiter struct {
	// Active controls whether CheckFrame actually waits. Warp mode sets
	// this false so frames run as fast as the host can produce them.
	Active bool

	// RefreshRate is the video standard's natural rate (50.125 PAL,
	// 59.826 NTSC, spec §6), stored as an atomic.Value so MeasureActual's
	// caller (a status line, say) never needs to take a lock.
	RefreshRate atomic.Value // float32

	// IdealFPS is the rate actually being paced to, equal to RefreshRate
	// unless SetLimit was given an explicit override.
	IdealFPS atomic.Value // float32

	requestedFPS atomic.Value // float32

	pulse        *time.Ticker
	pulseCt      int
	pulseCtLimit int

	measuringPulse *time.Ticker
	measureTime    time.Time
	measureCt      int

	// Measured is the actually-achieved frame rate, refreshed at most once
	// per second by MeasureActual.
	Measured atomic.Value // float32
}

// New creates a Limiter paced to refreshRate (e.g. busclock.Geometry.RefreshHz).
func New(refreshRate float32) *Limiter {
	l := &Limiter{Active: true}
	l.Measured.Store(float32(0.0))
	l.pulse = time.NewTicker(time.Millisecond * 16)
	l.measuringPulse = time.NewTicker(time.Second)
	l.RefreshRate.Store(refreshRate)
	l.SetLimit(MatchRefreshRate)
	return l
}

// SetLimit retargets the pacing rate. A value of MatchRefreshRate (or any
// value <= 0) paces to RefreshRate instead of an explicit override.
func (l *Limiter) SetLimit(fps float32) {
	l.requestedFPS.Store(fps)
	if fps <= 0.0 {
		fps = l.RefreshRate.Load().(float32)
	}
	if fps == 0.0 {
		return
	}

	l.IdealFPS.Store(fps)

	l.pulseCt = 0
	l.pulseCtLimit = 1 + int(fps/20)
	l.pulse.Stop()
	l.pulse.Reset(time.Duration(1000000000 / fps * float32(l.pulseCtLimit)))

	l.measureCt = 0
	l.measureTime = time.Now()
}

// CheckFrame blocks until the next frame is due, unless Active is false
// (warp mode), in which case it returns immediately. Call once per
// completed frame.
func (l *Limiter) CheckFrame() {
	l.measureCt++
	if l.Active {
		l.pulseCt++
		if l.pulseCt >= l.pulseCtLimit {
			l.pulseCt = 0
			<-l.pulse.C
		}
	}
}

// MeasureActual refreshes Measured at most once per second.
func (l *Limiter) MeasureActual() {
	select {
	case <-l.measuringPulse.C:
		t := time.Now()
		m := float32(l.measureCt) / float32(t.Sub(l.measureTime).Seconds())
		l.Measured.Store(m)
		l.measureTime = t
		l.measureCt = 0
	default:
	}
}
