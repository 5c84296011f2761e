// Package graph assembles oscillators, noise sources, filters and gain
// stages into patches and renders them through a single master bus.
//
// A Context owns the sample clock. Patches are scheduled onto it as voices;
// every block the audio callback pulls Context.Render, which mixes the live
// voices, applies the master gain and then reaps voices whose end time has
// passed. Transient sources must carry a stop time before they can be
// scheduled, so nothing but persistent voices stays attached indefinitely.
//
// Nodes are pulled once per block and cache their output, so a node may feed
// several consumers, including a gain parameter (see param.Modulator).
package graph
