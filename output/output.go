package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

var (
	// ErrUnknownBackend is returned for an unrecognized backend name.
	ErrUnknownBackend = errors.New("output: unknown backend")
	// ErrUnavailable is returned when no audio device could be opened.
	ErrUnavailable = errors.New("output: audio device unavailable")
)

// Renderer fills dst with the next mono frames.
type Renderer func(dst []float32)

// Device is an opened audio output.
type Device interface {
	// Name returns the backend name.
	Name() string
	// SampleRate returns the rate the device actually runs at.
	SampleRate() float64
	// Start begins pulling frames from r. Before Start the device plays
	// silence.
	Start(r Renderer) error
	// Close stops playback and releases the device.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendAuto  = "auto"
	BackendOto   = "oto"
	BackendMalgo = "malgo"
	BackendPulse = "pulse"
	BackendNull  = "null"
)

// Config selects and configures a backend.
type Config struct {
	Backend    string
	SampleRate int
	// Latency is the requested device buffer duration.
	Latency time.Duration
}

const (
	defaultSampleRate = 48000
	defaultLatency    = 50 * time.Millisecond
)

func (c Config) withDefaults() Config {
	if c.Backend == "" {
		c.Backend = BackendAuto
	}
	if c.SampleRate <= 0 {
		c.SampleRate = defaultSampleRate
	}
	if c.Latency <= 0 {
		c.Latency = defaultLatency
	}
	return c
}

func (c Config) latencyFrames() int {
	return max(1, int(c.Latency.Seconds()*float64(c.SampleRate)))
}

// Backends returns the names Open understands.
func Backends() []string {
	return []string{BackendAuto, BackendOto, BackendMalgo, BackendPulse, BackendNull}
}

// Open opens the configured backend. "auto" tries oto, then malgo, then
// pulse, and fails with ErrUnavailable when none opens.
func Open(cfg Config) (Device, error) {
	cfg = cfg.withDefaults()
	switch strings.ToLower(cfg.Backend) {
	case BackendOto:
		return openOto(cfg)
	case BackendMalgo:
		return openMalgo(cfg)
	case BackendPulse:
		return openPulse(cfg)
	case BackendNull:
		return NewNull(float64(cfg.SampleRate)), nil
	case BackendAuto:
		var errs []error
		for _, open := range []func(Config) (Device, error){openOto, openMalgo, openPulse} {
			dev, err := open(cfg)
			if err == nil {
				return dev, nil
			}
			errs = append(errs, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// rendererSlot hands a renderer to an audio callback without locking.
type rendererSlot struct {
	r atomic.Pointer[Renderer]
}

func (s *rendererSlot) set(r Renderer) {
	if r == nil {
		s.r.Store(nil)
		return
	}
	s.r.Store(&r)
}

// render fills dst from the current renderer, or with silence.
func (s *rendererSlot) render(dst []float32) {
	if p := s.r.Load(); p != nil {
		(*p)(dst)
		return
	}
	core.Silence(dst)
}

// encodeFloat32LE writes src as little-endian IEEE-754 floats.
func encodeFloat32LE(dst []byte, src []float32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}
