// Package noise generates white and pink noise buffers.
//
// Pink noise uses Paul Kellet's economy approximation: white noise drives six
// parallel one-pole filters whose outputs are summed with a direct term,
// giving roughly -3 dB/octave over the audible band. Buffers are immutable
// once generated and can be looped by playback nodes without recomputation.
package noise
