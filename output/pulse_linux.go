//go:build linux

package output

import (
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"
)

type pulseDevice struct {
	mu     sync.Mutex
	client *pulse.Client
	stream *pulse.PlaybackStream
	rate   int
	slot   rendererSlot
}

func openPulse(cfg Config) (Device, error) {
	c, err := pulse.NewClient()
	if err != nil {
		return nil, fmt.Errorf("%w: pulse: %w", ErrUnavailable, err)
	}
	d := &pulseDevice{client: c, rate: cfg.SampleRate}

	reader := pulse.Float32Reader(func(buf []float32) (int, error) {
		d.slot.render(buf)
		return len(buf), nil
	})
	stream, err := c.NewPlayback(reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(cfg.SampleRate),
		pulse.PlaybackLatency(cfg.Latency.Seconds()),
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: pulse playback: %w", ErrUnavailable, err)
	}
	d.stream = stream
	if sr := stream.SampleRate(); sr > 0 {
		d.rate = sr
	}
	return d, nil
}

func (d *pulseDevice) Name() string        { return BackendPulse }
func (d *pulseDevice) SampleRate() float64 { return float64(d.rate) }

func (d *pulseDevice) Start(r Renderer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stream == nil {
		return fmt.Errorf("%w: pulse stream closed", ErrUnavailable)
	}
	d.slot.set(r)
	d.stream.Start()
	return nil
}

func (d *pulseDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slot.set(nil)
	if d.stream == nil {
		return nil
	}
	d.stream.Stop()
	d.stream.Close()
	d.stream = nil
	d.client.Close()
	return nil
}
