package output

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

type malgoDevice struct {
	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	rate   int
	slot   rendererSlot
	buf    []float32
}

func openMalgo(cfg Config) (Device, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: malgo context: %w", ErrUnavailable, err)
	}

	d := &malgoDevice{ctx: ctx}

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatF32
	config.Playback.Channels = 1
	config.SampleRate = uint32(cfg.SampleRate)
	config.PeriodSizeInFrames = uint32(cfg.latencyFrames())

	dev, err := malgo.InitDevice(ctx.Context, config, malgo.DeviceCallbacks{Data: d.data})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("%w: malgo device: %w", ErrUnavailable, err)
	}
	d.device = dev
	d.rate = int(dev.SampleRate())
	if d.rate <= 0 {
		d.rate = cfg.SampleRate
	}
	return d, nil
}

func (d *malgoDevice) data(out, _ []byte, frames uint32) {
	n := int(frames)
	if cap(d.buf) < n {
		d.buf = make([]float32, n)
	}
	samples := d.buf[:n]
	d.slot.render(samples)
	encodeFloat32LE(out, samples)
}

func (d *malgoDevice) Name() string        { return BackendMalgo }
func (d *malgoDevice) SampleRate() float64 { return float64(d.rate) }

func (d *malgoDevice) Start(r Renderer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.device == nil {
		return fmt.Errorf("%w: malgo device closed", ErrUnavailable)
	}
	d.slot.set(r)
	return d.device.Start()
}

func (d *malgoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slot.set(nil)
	if d.device == nil {
		return nil
	}
	err := d.device.Stop()
	d.device.Uninit()
	d.device = nil
	_ = d.ctx.Uninit()
	d.ctx.Free()
	return err
}
