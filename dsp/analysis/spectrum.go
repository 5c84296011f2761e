package analysis

import (
	"errors"
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const defaultSegmentSize = 4096

// ErrEmptyInput is returned when there are no samples to analyze.
var ErrEmptyInput = errors.New("analysis: empty input")

// Spectrum is a one-sided averaged power spectrum (bins 0..FFTSize/2).
type Spectrum struct {
	SampleRate float64
	FFTSize    int
	Power      []float64
}

// Option configures PowerSpectrum.
type Option func(*spectrumConfig)

type spectrumConfig struct {
	segmentSize int
}

// WithSegmentSize sets the FFT segment length. It is rounded up to a power
// of two.
func WithSegmentSize(n int) Option {
	return func(cfg *spectrumConfig) {
		if n > 1 {
			cfg.segmentSize = nextPow2(n)
		}
	}
}

// scratchBuf holds pooled FFT scratch memory.
type scratchBuf struct {
	seg     []float64
	in, out []complex128
	re, im  []float64
	pow     []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func (s *scratchBuf) resize(n int) {
	if cap(s.seg) < n {
		s.seg = make([]float64, n)
		s.in = make([]complex128, n)
		s.out = make([]complex128, n)
	}
	s.seg, s.in, s.out = s.seg[:n], s.in[:n], s.out[:n]
	bins := n/2 + 1
	if cap(s.re) < bins {
		s.re = make([]float64, bins)
		s.im = make([]float64, bins)
		s.pow = make([]float64, bins)
	}
	s.re, s.im, s.pow = s.re[:bins], s.im[:bins], s.pow[:bins]
}

// PowerSpectrum estimates the power spectrum of samples by averaging
// Hann-windowed segments with 50% overlap. Inputs shorter than one segment
// are zero-padded.
func PowerSpectrum(samples []float64, sampleRate float64, opts ...Option) (Spectrum, error) {
	if len(samples) == 0 {
		return Spectrum{}, ErrEmptyInput
	}
	if sampleRate <= 0 {
		return Spectrum{}, fmt.Errorf("analysis: sample rate must be > 0: %f", sampleRate)
	}

	cfg := spectrumConfig{segmentSize: defaultSegmentSize}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	n := cfg.segmentSize
	if len(samples) < n {
		n = nextPow2(len(samples))
		if n < 2 {
			n = 2
		}
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return Spectrum{}, fmt.Errorf("analysis: fft plan: %w", err)
	}

	win := hann(n)
	buf := scratchPool.Get().(*scratchBuf)
	defer scratchPool.Put(buf)
	buf.resize(n)

	acc := make([]float64, n/2+1)
	hop := n / 2
	segments := 0
	for start := 0; start < len(samples); start += hop {
		for i := range buf.seg {
			buf.seg[i] = 0
		}
		copy(buf.seg, samples[start:])
		vecmath.MulBlockInPlace(buf.seg, win)
		for i, v := range buf.seg {
			buf.in[i] = complex(v, 0)
		}
		if err := plan.Forward(buf.out, buf.in); err != nil {
			return Spectrum{}, fmt.Errorf("analysis: fft forward: %w", err)
		}
		for i := range buf.re {
			buf.re[i] = real(buf.out[i])
			buf.im[i] = imag(buf.out[i])
		}
		vecmath.Power(buf.pow, buf.re, buf.im)
		vecmath.AddBlockInPlace(acc, buf.pow)
		segments++
		if start+n >= len(samples) {
			break
		}
	}

	vecmath.ScaleBlock(acc, acc, 1/float64(segments))

	return Spectrum{SampleRate: sampleRate, FFTSize: n, Power: acc}, nil
}

// BinHz returns the width of one bin in Hz.
func (s Spectrum) BinHz() float64 {
	if s.FFTSize == 0 {
		return 0
	}
	return s.SampleRate / float64(s.FFTSize)
}

// BandEnergy sums power over bins whose center lies in [loHz, hiHz).
// The DC bin is excluded.
func (s Spectrum) BandEnergy(loHz, hiHz float64) float64 {
	binHz := s.BinHz()
	if binHz == 0 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(s.Power); i++ {
		f := float64(i) * binHz
		if f >= loHz && f < hiHz {
			sum += s.Power[i]
		}
	}
	return sum
}

// Centroid returns the power-weighted mean frequency in Hz.
func (s Spectrum) Centroid() float64 {
	binHz := s.BinHz()
	var weighted, total float64
	for i := 1; i < len(s.Power); i++ {
		weighted += float64(i) * binHz * s.Power[i]
		total += s.Power[i]
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// BandEnergyRatio returns energy below splitHz divided by energy from splitHz
// up to Nyquist.
func BandEnergyRatio(samples []float64, sampleRate, splitHz float64) (float64, error) {
	s, err := PowerSpectrum(samples, sampleRate)
	if err != nil {
		return 0, err
	}
	low := s.BandEnergy(0, splitHz)
	high := s.BandEnergy(splitHz, sampleRate/2+s.BinHz())
	if high == 0 {
		return math.Inf(1), nil
	}
	return low / high, nil
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
