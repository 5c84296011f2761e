package output

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process, so it is shared.
var (
	otoMu   sync.Mutex
	otoCtx  *oto.Context
	otoRate int
)

func sharedOtoContext(cfg Config) (*oto.Context, int, error) {
	otoMu.Lock()
	defer otoMu.Unlock()
	if otoCtx != nil {
		return otoCtx, otoRate, nil
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.Latency,
	})
	if err != nil {
		return nil, 0, err
	}
	<-ready
	otoCtx, otoRate = ctx, cfg.SampleRate
	return ctx, otoRate, nil
}

type otoDevice struct {
	mu     sync.Mutex
	rate   int
	player *oto.Player
	slot   rendererSlot
	buf    []float32
}

func openOto(cfg Config) (Device, error) {
	ctx, rate, err := sharedOtoContext(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: oto: %w", ErrUnavailable, err)
	}
	d := &otoDevice{rate: rate}
	d.player = ctx.NewPlayer(d)
	return d, nil
}

func (d *otoDevice) Name() string        { return BackendOto }
func (d *otoDevice) SampleRate() float64 { return float64(d.rate) }

// Read implements io.Reader for the oto player.
func (d *otoDevice) Read(p []byte) (int, error) {
	n := len(p) / 4
	if cap(d.buf) < n {
		d.buf = make([]float32, n)
	}
	samples := d.buf[:n]
	d.slot.render(samples)
	encodeFloat32LE(p, samples)
	return n * 4, nil
}

func (d *otoDevice) Start(r Renderer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.player == nil {
		return fmt.Errorf("%w: oto player closed", ErrUnavailable)
	}
	d.slot.set(r)
	d.player.Play()
	return nil
}

func (d *otoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slot.set(nil)
	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	return err
}
