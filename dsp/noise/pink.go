package noise

// Kellet filter pole and input coefficients.
var (
	pinkPoles  = [6]float64{0.99886, 0.99332, 0.96900, 0.86650, 0.55000, -0.7616}
	pinkInputs = [6]float64{0.0555179, 0.0750759, 0.1538520, 0.3104856, 0.5329522, -0.0168981}
)

const (
	pinkDirect = 0.5362
	pinkScale  = 0.11
)

// Pinker colors a white noise stream one sample at a time.
// The zero value is ready to use.
type Pinker struct {
	b [6]float64
}

// Next filters one white sample and returns the scaled pink sample.
// The result is not clamped.
func (p *Pinker) Next(white float64) float64 {
	sum := white * pinkDirect
	for i := range p.b {
		p.b[i] = pinkPoles[i]*p.b[i] + white*pinkInputs[i]
		sum += p.b[i]
	}
	return sum * pinkScale
}

// Reset clears the filter state.
func (p *Pinker) Reset() {
	p.b = [6]float64{}
}
