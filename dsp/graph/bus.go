package graph

import "github.com/cwbudde/algo-ambient/dsp/param"

// DefaultMasterLevel is the nominal master gain.
const DefaultMasterLevel = 0.2

// Bus is the master gain stage between the mixed voices and the device.
// Its gain is limited to [0, 1].
type Bus struct {
	gain *param.Param
	gbuf []float64
}

func newBus(level float64) *Bus {
	return &Bus{gain: param.New(level, param.WithRange(0, 1))}
}

// Gain returns the master gain automation. Schedule on it through
// Context.Do so changes are serialized with rendering.
func (b *Bus) Gain() *param.Param { return b.gain }
