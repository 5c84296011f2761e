// Package export renders effects offline and writes them to FLAC.
package export

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-ambient/dsp/analysis"
	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/effects"
	"github.com/cwbudde/algo-ambient/dsp/graph"
	"github.com/cwbudde/algo-ambient/dsp/noise"
	"github.com/cwbudde/algo-ambient/output"
)

const (
	// DefaultLoopLength is rendered for persistent patches such as the drone.
	DefaultLoopLength = 4.0
	// DefaultTail is appended after a one-shot ends.
	DefaultTail = 0.05
	// MaxLength bounds any render.
	MaxLength = 60.0
)

// ErrTooLong is returned when a render would exceed MaxLength.
var ErrTooLong = errors.New("export: render too long")

// Options controls an offline render.
type Options struct {
	SampleRate  float64
	Intensity   float64
	Seed        int64
	MasterLevel float64
	// Duration overrides the rendered length in seconds. Zero means the
	// patch end plus DefaultTail, or DefaultLoopLength when persistent.
	Duration float64
	// Drone mixes the persistent drone under the effect.
	Drone bool
}

func (o Options) withDefaults() Options {
	if o.SampleRate <= 0 {
		o.SampleRate = core.DefaultProcessorConfig().SampleRate
	}
	if o.MasterLevel <= 0 {
		o.MasterLevel = graph.DefaultMasterLevel
	}
	return o
}

// RenderEffect builds the named recipe at t=0 and renders it through a
// null device. The result is mono float32 at opts.SampleRate.
func RenderEffect(reg *effects.Registry, name string, opts Options) ([]float32, error) {
	opts = opts.withDefaults()

	ctx := graph.NewContext(core.WithSampleRate(opts.SampleRate))
	defer ctx.Close()
	level := opts.MasterLevel
	ctx.Do(func(now float64) { ctx.Master().Gain().SetValueAtTime(level, now) })

	params := effects.Params{
		Intensity:  opts.Intensity,
		SampleRate: opts.SampleRate,
		Rand:       rand.New(rand.NewSource(opts.Seed)),
	}
	patch, err := reg.Build(name, params)
	if err != nil {
		return nil, err
	}
	if _, err := ctx.Schedule(patch); err != nil {
		return nil, fmt.Errorf("export: %s: %w", name, err)
	}
	if opts.Drone && name != effects.Drone {
		drone, err := reg.Build(effects.Drone, params)
		if err != nil {
			return nil, err
		}
		if _, err := ctx.Schedule(drone); err != nil {
			return nil, fmt.Errorf("export: drone: %w", err)
		}
	}

	length := opts.Duration
	if length <= 0 {
		length = DefaultLoopLength
		if end := patch.End(); !math.IsInf(end, 1) {
			length = end + DefaultTail
		}
	}
	if length > MaxLength {
		return nil, fmt.Errorf("%w: %.2fs > %.0fs", ErrTooLong, length, MaxLength)
	}

	dev := output.NewNull(opts.SampleRate)
	defer dev.Close()
	if err := dev.Start(ctx.Render); err != nil {
		return nil, err
	}
	return dev.Pump(core.SecondsToFrames(length, opts.SampleRate)), nil
}

// Noise colors accepted by RenderNoise.
const (
	Pink  = "pink"
	White = "white"
)

// RenderNoise generates raw pink or white noise, without master gain.
func RenderNoise(color string, opts Options) ([]float32, error) {
	opts = opts.withDefaults()
	length := opts.Duration
	if length <= 0 {
		length = DefaultLoopLength
	}
	if length > MaxLength {
		return nil, fmt.Errorf("%w: %.2fs > %.0fs", ErrTooLong, length, MaxLength)
	}

	gen := noise.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(opts.SampleRate)},
		noise.WithSeed(opts.Seed),
	)
	var (
		buf *noise.Buffer
		err error
	)
	switch color {
	case Pink:
		buf, err = gen.Pink(length)
	case White:
		buf, err = gen.White(length)
	default:
		return nil, fmt.Errorf("export: unknown noise color %q", color)
	}
	if err != nil {
		return nil, err
	}

	out := make([]float32, buf.Len())
	for i := range out {
		out[i] = float32(buf.At(i))
	}
	return out, nil
}

// Report summarizes a render.
type Report struct {
	Frames   int
	Seconds  float64
	Peak     float64
	RMS      float64
	Centroid float64
	// LowHigh is the energy below SplitHz over the energy above it.
	LowHigh float64
}

// SplitHz divides the low and high bands of a Report.
const SplitHz = 500.0

// Analyze measures samples rendered at sampleRate.
func Analyze(samples []float32, sampleRate float64) (Report, error) {
	x := analysis.Float32(samples)
	r := Report{
		Frames:  len(x),
		Seconds: float64(len(x)) / sampleRate,
		Peak:    analysis.Peak(x),
		RMS:     analysis.RMS(x),
	}
	s, err := analysis.PowerSpectrum(x, sampleRate)
	if err != nil {
		return r, err
	}
	r.Centroid = s.Centroid()
	if hi := s.BandEnergy(SplitHz, sampleRate/2+s.BinHz()); hi > 0 {
		r.LowHigh = s.BandEnergy(0, SplitHz) / hi
	}
	return r, nil
}
