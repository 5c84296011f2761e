package filter

import (
	"fmt"
	"math"
	"strings"
)

// DefaultQ is the Butterworth quality factor used when Q is unset.
const DefaultQ = 1 / math.Sqrt2

// Kind selects the filter response.
type Kind int

const (
	Lowpass Kind = iota
	Highpass
)

func (k Kind) String() string {
	switch k {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps "lowpass"/"highpass" to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lowpass", "lp":
		return Lowpass, nil
	case "highpass", "hp":
		return Highpass, nil
	default:
		return Lowpass, fmt.Errorf("filter: unknown kind %q", name)
	}
}

// Coefficients holds a normalized biquad transfer function.
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// passthrough is returned for unrealizable designs.
var passthrough = Coefficients{B0: 1}

// Design computes RBJ cookbook coefficients. Cutoffs outside (0, Nyquist)
// yield a passthrough section; a non-positive Q means DefaultQ.
func Design(kind Kind, freq, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return passthrough
	}
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		q = DefaultQ
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	var b0, b1, b2 float64
	switch kind {
	case Highpass:
		b0 = (1 + cw) / 2
		b1 = -(1 + cw)
		b2 = (1 + cw) / 2
	default:
		b0 = (1 - cw) / 2
		b1 = 1 - cw
		b2 = (1 - cw) / 2
	}

	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}
	if freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}
	return 2 * math.Pi * freq / sampleRate, true
}

// MagnitudeSquared returns |H(f)|^2 in closed form.
func (c Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw
	return num / den
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}

// Biquad is a single second-order section with state.
type Biquad struct {
	Coefficients

	d0, d1 float64
}

// New designs a section and returns it with zero state.
func New(kind Kind, freq, q, sampleRate float64) *Biquad {
	return &Biquad{Coefficients: Design(kind, freq, q, sampleRate)}
}

// ProcessSample filters one input sample.
func (b *Biquad) ProcessSample(x float64) float64 {
	y := b.B0*x + b.d0
	b.d0 = b.B1*x - b.A1*y + b.d1
	b.d1 = b.B2*x - b.A2*y
	return y
}

// ProcessBlock filters buf in place.
func (b *Biquad) ProcessBlock(buf []float64) {
	b0, b1, b2, a1, a2 := b.B0, b.B1, b.B2, b.A1, b.A2
	d0, d1 := b.d0, b.d1
	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}
	b.d0, b.d1 = flushDenormal(d0), flushDenormal(d1)
}

// Reset clears the filter state.
func (b *Biquad) Reset() {
	b.d0, b.d1 = 0, 0
}

func flushDenormal(x float64) float64 {
	if x > -1e-30 && x < 1e-30 {
		return 0
	}
	return x
}
