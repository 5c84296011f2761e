package noise

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

var (
	// ErrInvalidDuration is returned for non-positive or non-finite durations.
	ErrInvalidDuration = errors.New("noise: invalid duration")
	// ErrInvalidSampleRate is returned for non-positive sample rates.
	ErrInvalidSampleRate = errors.New("noise: invalid sample rate")
)

// Generator produces noise buffers from a shared random source.
// A Generator is not safe for concurrent use.
type Generator struct {
	cfg core.ProcessorConfig
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes noise generation reproducible.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand uses rng as the random source.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// NewGenerator creates a generator with an uncontrolled (time-seeded) source.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a generator with noise-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{cfg: core.ApplyProcessorOptions(coreOpts...)}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// White returns durationSeconds of uniform noise in [-1, 1].
func (g *Generator) White(durationSeconds float64) (*Buffer, error) {
	out, err := g.alloc(durationSeconds)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = g.rng.Float64()*2 - 1
	}
	return newBuffer(out, g.cfg.SampleRate), nil
}

// Pink returns durationSeconds of pink noise clamped to [-1, 1].
func (g *Generator) Pink(durationSeconds float64) (*Buffer, error) {
	out, err := g.alloc(durationSeconds)
	if err != nil {
		return nil, err
	}
	var p Pinker
	for i := range out {
		out[i] = core.Clamp(p.Next(g.rng.Float64()*2-1), -1, 1)
	}
	return newBuffer(out, g.cfg.SampleRate), nil
}

func (g *Generator) alloc(durationSeconds float64) ([]float64, error) {
	if durationSeconds <= 0 || math.IsNaN(durationSeconds) || math.IsInf(durationSeconds, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDuration, durationSeconds)
	}
	n := g.cfg.Frames(durationSeconds)
	if n <= 0 {
		return nil, fmt.Errorf("%w: %v s is shorter than one sample", ErrInvalidDuration, durationSeconds)
	}
	return make([]float64, n), nil
}

// GeneratePinkNoise returns durationSeconds × sampleRate samples of pink noise
// from an uncontrolled random source.
func GeneratePinkNoise(durationSeconds, sampleRate float64) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}
	return NewGenerator(core.WithSampleRate(sampleRate)).Pink(durationSeconds)
}

// GenerateWhiteNoise returns durationSeconds × sampleRate samples of white
// noise from an uncontrolled random source.
func GenerateWhiteNoise(durationSeconds, sampleRate float64) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}
	return NewGenerator(core.WithSampleRate(sampleRate)).White(durationSeconds)
}

// WithSource draws randomness from src.
func WithSource(src rand.Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.rng = rand.New(src)
		}
	}
}
