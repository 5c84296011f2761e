// Package output connects a pull renderer to an audio device.
//
// Backends wrap ebitengine/oto, gen2brain/malgo (miniaudio) and, on Linux,
// jfreymuth/pulse. All of them play mono float32 at the sample rate the
// device reports. The Null device renders only when pumped and serves tests
// and offline rendering.
package output
