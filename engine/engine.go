package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/effects"
	"github.com/cwbudde/algo-ambient/dsp/graph"
	"github.com/cwbudde/algo-ambient/output"
	"github.com/rs/zerolog"
)

// DefaultIntensity is used when Trigger is called without an intensity.
const DefaultIntensity = 0.5

// Engine owns the device, the graph context and the drone.
type Engine struct {
	mu sync.Mutex

	log       zerolog.Logger
	open      Opener
	reg       *effects.Registry
	narrator  Narrator
	rng       *rand.Rand
	level     float64
	smoothing float64
	blockSize int

	dev         output.Device
	ctx         *graph.Context
	drone       *graph.Voice
	muted       bool
	initialized bool
	failed      bool
	closed      bool
}

// New creates an uninitialized engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	defaults(e)
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Initialize opens the device and starts the drone. It is idempotent. If
// the device cannot be opened the error is returned once and the engine
// stays uninitialized for good; later calls return nil.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized || e.failed || e.closed {
		return nil
	}

	dev, err := e.open()
	if err != nil {
		return e.fail(err)
	}

	ctx := graph.NewContext(
		core.WithSampleRate(dev.SampleRate()),
		core.WithBlockSize(e.blockSize),
	)
	start := e.target()
	ctx.Do(func(now float64) { ctx.Master().Gain().SetValueAtTime(start, now) })

	drone, err := e.reg.Build(effects.Drone, effects.Params{
		At:         ctx.CurrentTime(),
		SampleRate: ctx.SampleRate(),
		Rand:       e.rng,
	})
	if err == nil {
		e.drone, err = ctx.Schedule(drone)
	}
	if err != nil {
		_ = dev.Close()
		return e.fail(fmt.Errorf("drone: %w", err))
	}

	if err := dev.Start(ctx.Render); err != nil {
		ctx.Close()
		_ = dev.Close()
		return e.fail(err)
	}

	e.dev, e.ctx = dev, ctx
	e.initialized = true
	e.log.Info().
		Str("backend", dev.Name()).
		Float64("sample_rate", dev.SampleRate()).
		Bool("muted", e.muted).
		Msg("audio engine initialized")
	return nil
}

func (e *Engine) fail(err error) error {
	e.failed = true
	if !errors.Is(err, output.ErrUnavailable) {
		err = fmt.Errorf("%w: %w", output.ErrUnavailable, err)
	}
	e.log.Warn().Err(err).Msg("audio unavailable, continuing silently")
	return fmt.Errorf("engine: initialize: %w", err)
}

// target is the master level the current mute state asks for.
func (e *Engine) target() float64 {
	if e.muted {
		return 0
	}
	return e.level
}

// ToggleMute flips the mute state and fades the master bus toward the new
// target. Muting also cancels narration. Before initialization only the
// flag changes.
func (e *Engine) ToggleMute() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.muted = !e.muted
	target := e.target()
	if e.ctx != nil {
		tau := e.smoothing
		e.ctx.Do(func(now float64) {
			e.ctx.Master().Gain().SetTargetAtTime(target, now, tau)
		})
	}
	if e.muted {
		e.narrator.Cancel()
	}
	e.log.Debug().Bool("muted", e.muted).Float64("target", target).Msg("mute toggled")
	return e.muted
}

// Trigger schedules effect at the current time. intensity defaults to
// DefaultIntensity; only the first value is used. Nothing happens before
// initialization or while muted, except that Boot ignores mute.
func (e *Engine) Trigger(effect Effect, intensity ...float64) {
	level := DefaultIntensity
	if len(intensity) > 0 {
		level = intensity[0]
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return
	}
	if e.muted && effect != Boot {
		return
	}
	e.schedule(effect.String(), level)
}

// TriggerName triggers the effect called name. Unknown names are logged and
// otherwise ignored, like any other trigger failure.
func (e *Engine) TriggerName(name string, intensity ...float64) {
	fx, err := ParseEffect(name)
	if err != nil {
		e.log.Warn().Err(err).Msg("trigger ignored")
		return
	}
	e.Trigger(fx, intensity...)
}

// HoverGlitch plays the hover tick layered with a light glitch, the sound of
// pointing at a corrupted item.
func (e *Engine) HoverGlitch() {
	e.Trigger(Hover)
	e.Trigger(Glitch, effects.BootGlitchIntensity)
}

func (e *Engine) schedule(name string, intensity float64) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("effect", name).Interface("panic", r).Msg("effect recipe panicked")
		}
	}()

	patch, err := e.reg.Build(name, effects.Params{
		Intensity:  intensity,
		At:         e.ctx.CurrentTime(),
		SampleRate: e.ctx.SampleRate(),
		Rand:       e.rng,
	})
	if err != nil {
		e.log.Error().Err(err).Str("effect", name).Msg("effect build failed")
		return
	}
	v, err := e.ctx.Schedule(patch)
	if err != nil {
		e.log.Error().Err(err).Str("effect", name).Msg("effect schedule failed")
		return
	}
	e.log.Debug().
		Str("effect", name).
		Float64("intensity", intensity).
		Uint64("voice", v.ID()).
		Float64("end", v.End()).
		Msg("effect scheduled")
}

// Muted reports the mute flag.
func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Initialized reports whether the engine is producing audio.
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// MasterTarget returns the level the master bus is heading for.
func (e *Engine) MasterTarget() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target()
}

// Stats returns graph statistics; zero before initialization.
func (e *Engine) Stats() graph.Stats {
	e.mu.Lock()
	ctx := e.ctx
	e.mu.Unlock()
	if ctx == nil {
		return graph.Stats{}
	}
	return ctx.Stats()
}

// SampleRate returns the device rate, or 0 before initialization.
func (e *Engine) SampleRate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctx == nil {
		return 0
	}
	return e.ctx.SampleRate()
}

// Close stops the device and releases every voice. The engine cannot be
// initialized again.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.initialized = false

	var err error
	if e.dev != nil {
		err = e.dev.Close()
	}
	if e.ctx != nil {
		e.ctx.Close()
	}
	e.log.Info().Msg("audio engine closed")
	return err
}
