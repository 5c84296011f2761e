// Package osc defines band-limited oscillator waveforms and the one-shot
// frequency ramps used by tone generator nodes.
package osc
