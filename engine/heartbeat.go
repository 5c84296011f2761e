package engine

import (
	"context"
	"sync"
	"time"
)

const (
	// IdleThreshold is how long the user must be inactive before the
	// heartbeat starts.
	IdleThreshold = 5 * time.Second
	// IdleRamp is the extra idle time over which the heartbeat grows from
	// silent to full intensity.
	IdleRamp = 20 * time.Second
)

// HeartbeatIntensity maps an idle duration to a heartbeat intensity in
// [0, 1] using the default threshold and ramp.
func HeartbeatIntensity(idle time.Duration) float64 {
	return heartbeatIntensity(idle, IdleThreshold, IdleRamp)
}

func heartbeatIntensity(idle, threshold, ramp time.Duration) float64 {
	if idle <= threshold {
		return 0
	}
	if ramp <= 0 {
		return 1
	}
	return min(float64(idle-threshold)/float64(ramp), 1)
}

// IdleMonitor counts idle seconds and fires a heartbeat on every even
// second past the threshold.
type IdleMonitor struct {
	mu        sync.Mutex
	idle      int
	fire      func(intensity float64)
	threshold time.Duration
	ramp      time.Duration
	tick      time.Duration
}

// IdleOption configures an IdleMonitor.
type IdleOption func(*IdleMonitor)

// WithIdleThreshold overrides IdleThreshold.
func WithIdleThreshold(d time.Duration) IdleOption {
	return func(m *IdleMonitor) {
		if d >= 0 {
			m.threshold = d
		}
	}
}

// WithIdleRamp overrides IdleRamp.
func WithIdleRamp(d time.Duration) IdleOption {
	return func(m *IdleMonitor) {
		if d > 0 {
			m.ramp = d
		}
	}
}

// WithTickInterval sets the wall-clock length of one idle second in Run.
func WithTickInterval(d time.Duration) IdleOption {
	return func(m *IdleMonitor) {
		if d > 0 {
			m.tick = d
		}
	}
}

// NewIdleMonitor calls fire with the current intensity whenever a heartbeat
// is due.
func NewIdleMonitor(fire func(intensity float64), opts ...IdleOption) *IdleMonitor {
	m := &IdleMonitor{
		fire:      fire,
		threshold: IdleThreshold,
		ramp:      IdleRamp,
		tick:      time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Touch records user activity.
func (m *IdleMonitor) Touch() {
	m.mu.Lock()
	m.idle = 0
	m.mu.Unlock()
}

// IdleSeconds returns the number of ticks since the last Touch.
func (m *IdleMonitor) IdleSeconds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idle
}

// Tick advances the idle counter by one second and fires when due. It
// reports whether a heartbeat fired and at which intensity.
func (m *IdleMonitor) Tick() (bool, float64) {
	m.mu.Lock()
	m.idle++
	idle := time.Duration(m.idle) * time.Second
	due := idle > m.threshold && m.idle%2 == 0
	intensity := heartbeatIntensity(idle, m.threshold, m.ramp)
	m.mu.Unlock()

	if !due {
		return false, 0
	}
	if m.fire != nil {
		m.fire(intensity)
	}
	return true, intensity
}

// Run ticks until ctx is cancelled.
func (m *IdleMonitor) Run(ctx context.Context) {
	t := time.NewTicker(m.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Tick()
		}
	}
}

// Heartbeat wires an IdleMonitor to the engine's heartbeat effect.
func (e *Engine) Heartbeat(opts ...IdleOption) *IdleMonitor {
	return NewIdleMonitor(func(intensity float64) {
		e.Trigger(Heartbeat, intensity)
	}, opts...)
}
