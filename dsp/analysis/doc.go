// Package analysis measures rendered audio: averaged power spectra, band
// energies, spectral centroid and time-domain levels.
//
// It backs the statistical checks on generated noise and the inspect
// command, where bit-exact comparison is meaningless because the sources
// are random.
package analysis
