package noise

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-ambient/dsp/analysis"
	"github.com/cwbudde/algo-ambient/dsp/core"
)

func TestPinkLength(t *testing.T) {
	tests := []struct {
		duration   float64
		sampleRate float64
		want       int
	}{
		{4, 48000, 192000},
		{4, 44100, 176400},
		{0.3, 48000, 14400},
		{0.05, 22050, 1102},
		{1, 8000, 8000},
	}
	for _, tt := range tests {
		buf, err := GeneratePinkNoise(tt.duration, tt.sampleRate)
		if err != nil {
			t.Fatalf("GeneratePinkNoise(%v, %v) error = %v", tt.duration, tt.sampleRate, err)
		}
		if buf.Len() != tt.want {
			t.Fatalf("GeneratePinkNoise(%v, %v) len = %d, want %d", tt.duration, tt.sampleRate, buf.Len(), tt.want)
		}
		if buf.SampleRate() != tt.sampleRate {
			t.Fatalf("SampleRate() = %v, want %v", buf.SampleRate(), tt.sampleRate)
		}
	}
}

func TestPinkRange(t *testing.T) {
	g := NewGeneratorWithOptions(nil, WithSeed(7))
	buf, err := g.Pink(4)
	if err != nil {
		t.Fatalf("Pink() error = %v", err)
	}
	for i := 0; i < buf.Len(); i++ {
		v := buf.At(i)
		if v < -1 || v > 1 || math.IsNaN(v) {
			t.Fatalf("sample %d = %v outside [-1, 1]", i, v)
		}
	}
	if analysis.RMS(buf.Samples()) < 0.01 {
		t.Fatal("pink noise is unexpectedly quiet")
	}
}

func TestPinkSpectralTilt(t *testing.T) {
	const sr = 48000.0
	g := NewGeneratorWithOptions([]core.ProcessorOption{core.WithSampleRate(sr)}, WithSeed(42))

	pink, err := g.Pink(2)
	if err != nil {
		t.Fatalf("Pink() error = %v", err)
	}
	white, err := g.White(2)
	if err != nil {
		t.Fatalf("White() error = %v", err)
	}

	pinkRatio, err := analysis.BandEnergyRatio(pink.Samples(), sr, 500)
	if err != nil {
		t.Fatalf("BandEnergyRatio(pink) error = %v", err)
	}
	whiteRatio, err := analysis.BandEnergyRatio(white.Samples(), sr, 500)
	if err != nil {
		t.Fatalf("BandEnergyRatio(white) error = %v", err)
	}

	if pinkRatio < 0.3 {
		t.Fatalf("pink low/high ratio = %.4f, want >= 0.3", pinkRatio)
	}
	if pinkRatio < 10*whiteRatio {
		t.Fatalf("pink ratio %.4f not well above white ratio %.4f", pinkRatio, whiteRatio)
	}
}

func TestSeedReproducible(t *testing.T) {
	a, err := NewGeneratorWithOptions(nil, WithSeed(3)).Pink(0.1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewGeneratorWithOptions(nil, WithSeed(3)).Pink(0.1)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			t.Fatalf("sample %d differs: %v vs %v", i, a.At(i), b.At(i))
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name       string
		duration   float64
		sampleRate float64
		want       error
	}{
		{"zero duration", 0, 48000, ErrInvalidDuration},
		{"negative duration", -1, 48000, ErrInvalidDuration},
		{"nan duration", math.NaN(), 48000, ErrInvalidDuration},
		{"sub-sample duration", 1e-6, 48000, ErrInvalidDuration},
		{"zero rate", 1, 0, ErrInvalidSampleRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GeneratePinkNoise(tt.duration, tt.sampleRate); !errors.Is(err, tt.want) {
				t.Fatalf("GeneratePinkNoise err = %v, want %v", err, tt.want)
			}
			if _, err := GenerateWhiteNoise(tt.duration, tt.sampleRate); !errors.Is(err, tt.want) {
				t.Fatalf("GenerateWhiteNoise err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPinkerReset(t *testing.T) {
	var p Pinker
	first := p.Next(1)
	p.Next(-0.5)
	p.Reset()
	if got := p.Next(1); got != first {
		t.Fatalf("after Reset Next(1) = %v, want %v", got, first)
	}
}

func TestBufferAccessors(t *testing.T) {
	var nilBuf *Buffer
	if nilBuf.Len() != 0 || nilBuf.Duration() != 0 {
		t.Fatal("nil buffer should be empty")
	}

	b := newBuffer([]float64{1, 2, 3, 4}, 4)
	if b.Duration() != 1 {
		t.Fatalf("Duration() = %v, want 1", b.Duration())
	}
	s := b.Samples()
	s[0] = 99
	if b.At(0) != 1 {
		t.Fatal("Samples() must return a copy")
	}
	dst := make([]float64, 3)
	if n := b.CopyFrom(dst, 2); n != 2 || dst[0] != 3 || dst[1] != 4 {
		t.Fatalf("CopyFrom = %d %v", n, dst)
	}
	if n := b.CopyFrom(dst, 4); n != 0 {
		t.Fatalf("CopyFrom past end = %d, want 0", n)
	}
}
