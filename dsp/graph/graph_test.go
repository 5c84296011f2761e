package graph

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-ambient/dsp/analysis"
	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/filter"
	"github.com/cwbudde/algo-ambient/dsp/noise"
	"github.com/cwbudde/algo-ambient/dsp/osc"
	"github.com/cwbudde/algo-ambient/internal/testutil"
)

const testRate = 48000.0

func newTestContext(t *testing.T) *Context {
	t.Helper()
	c := NewContext(core.WithSampleRate(testRate), core.WithBlockSize(256))
	c.Do(func(now float64) { c.Master().Gain().SetValueAtTime(1, now) })
	return c
}

func render(c *Context, seconds float64) []float64 {
	buf := make([]float32, core.SecondsToFrames(seconds, c.SampleRate()))
	c.Render(buf)
	return analysis.Float32(buf)
}

func tone(freq, start, stop float64) *Oscillator {
	return NewOscillator(osc.Config{Waveform: osc.Sine, Frequency: freq}).Start(start).Stop(stop)
}

func TestOscillatorRendersTone(t *testing.T) {
	c := newTestContext(t)
	if _, err := c.Schedule(NewPatch("tone", NewGain(0.5, tone(1000, 0, 1)))); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	out := render(c, 0.5)

	s, err := analysis.PowerSpectrum(out, testRate)
	if err != nil {
		t.Fatal(err)
	}
	if cen := s.Centroid(); math.Abs(cen-1000) > 50 {
		t.Fatalf("centroid = %.1f Hz, want ~1000", cen)
	}
	if pk := analysis.Peak(out); math.Abs(pk-0.5) > 0.01 {
		t.Fatalf("peak = %v, want ~0.5", pk)
	}
}

func TestOscillatorExponentialSweep(t *testing.T) {
	c := newTestContext(t)
	o := NewOscillator(osc.Config{
		Waveform:  osc.Sine,
		Frequency: 12000,
		Ramp:      osc.Ramp{To: 50, Duration: 0.5, Kind: osc.RampExponential},
	}).Start(0).Stop(0.5)
	if _, err := c.Schedule(NewPatch("sweep", o)); err != nil {
		t.Fatal(err)
	}

	if got := o.Frequency().ValueAt(0); got != 12000 {
		t.Fatalf("start frequency = %v, want 12000", got)
	}
	if got := o.Frequency().ValueAt(0.5); math.Abs(got-50) > 1e-9 {
		t.Fatalf("end frequency = %v, want 50", got)
	}
	if mid := o.Frequency().ValueAt(0.25); math.Abs(mid-math.Sqrt(12000*50)) > 1e-6 {
		t.Fatalf("mid frequency = %v, want geometric mean", mid)
	}
	testutil.RequireFinite(t, render(c, 0.5))
}

func TestPatchValidate(t *testing.T) {
	cyclicA := NewGain(1)
	cyclicB := NewGain(1, cyclicA)
	cyclicA.Add(cyclicB)

	tests := []struct {
		name  string
		patch *Patch
		want  error
	}{
		{"no output", NewPatch("empty", nil), ErrNoOutput},
		{"not started", NewPatch("idle", NewOscillator(osc.Config{Frequency: 100})), ErrNotStarted},
		{"no stop", NewPatch("open", NewOscillator(osc.Config{Frequency: 100}).Start(0)), ErrNoStopTime},
		{"cycle", NewPatch("loop", cyclicB), ErrCycle},
		{"ok", NewPatch("ok", tone(100, 0, 1)), nil},
		{"persistent", &Patch{Name: "drone", Output: NewOscillator(osc.Config{Frequency: 58}).Start(0), Persistent: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.patch.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReaperReleasesEndedVoices(t *testing.T) {
	c := newTestContext(t)
	short, err := c.Schedule(NewPatch("short", tone(440, 0, 0.1)))
	if err != nil {
		t.Fatal(err)
	}
	drone := &Patch{Name: "drone", Output: NewOscillator(osc.Config{Frequency: 58}).Start(0), Persistent: true}
	long, err := c.Schedule(drone)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Stats().LiveVoices; got != 2 {
		t.Fatalf("LiveVoices = %d, want 2", got)
	}
	if !math.IsInf(long.End(), 1) || short.End() != 0.1 {
		t.Fatalf("ends = %v, %v", short.End(), long.End())
	}

	render(c, 0.2)

	st := c.Stats()
	if st.LiveVoices != 1 || st.Reaped != 1 || st.Scheduled != 2 {
		t.Fatalf("Stats = %+v, want 1 live, 1 reaped, 2 scheduled", st)
	}
	if !short.Done() || long.Done() {
		t.Fatalf("Done = %v/%v, want true/false", short.Done(), long.Done())
	}
	if names := c.Voices(); len(names) != 1 || names[0] != "drone" {
		t.Fatalf("Voices = %v, want [drone]", names)
	}
}

func TestSilentBeforeStartAndAfterStop(t *testing.T) {
	c := newTestContext(t)
	if _, err := c.Schedule(NewPatch("late", tone(440, 0.1, 0.2))); err != nil {
		t.Fatal(err)
	}
	out := render(c, 0.3)
	head := out[:core.SecondsToFrames(0.1, testRate)]
	tail := out[core.SecondsToFrames(0.2, testRate)+1:]
	if analysis.Peak(head) != 0 || analysis.Peak(tail) != 0 {
		t.Fatalf("expected silence outside [0.1, 0.2): head %v tail %v", analysis.Peak(head), analysis.Peak(tail))
	}
}

func TestGainParamModulation(t *testing.T) {
	c := newTestContext(t)
	carrier := tone(1000, 0, 1)
	g := NewGain(0.1, carrier)
	lfo := NewGain(0.05, NewOscillator(osc.Config{Waveform: osc.Sine, Frequency: 1}).Start(0).Stop(1))
	g.Param().Connect(lfo)

	p := NewPatch("mod", g)
	if n := len(p.Nodes()); n != 4 {
		t.Fatalf("Nodes = %d, want 4 (carrier, lfo, lfo gain, gain)", n)
	}
	if _, err := c.Schedule(p); err != nil {
		t.Fatal(err)
	}
	out := render(c, 1)

	window := func(center float64) float64 {
		i := core.SecondsToFrames(center, testRate)
		return analysis.Peak(out[i-240 : i+240])
	}
	if pk := window(0.25); math.Abs(pk-0.15) > 0.005 {
		t.Fatalf("peak at LFO crest = %v, want ~0.15", pk)
	}
	if pk := window(0.75); math.Abs(pk-0.05) > 0.005 {
		t.Fatalf("peak at LFO trough = %v, want ~0.05", pk)
	}
}

func TestFilterNode(t *testing.T) {
	c := newTestContext(t)
	src := NewOscillator(osc.Config{Waveform: osc.Sawtooth, Frequency: 58}).Start(0).Stop(1)
	lp := NewFilter(filter.Lowpass, 120, 0, src)
	if lp.Q() != filter.DefaultQ || lp.Cutoff() != 120 || lp.Kind() != "lowpass" {
		t.Fatalf("filter = %s %v %v", lp.Kind(), lp.Cutoff(), lp.Q())
	}
	if _, err := c.Schedule(NewPatch("lp", NewGain(0.25, lp))); err != nil {
		t.Fatal(err)
	}
	out := render(c, 1)
	s, err := analysis.PowerSpectrum(out, testRate)
	if err != nil {
		t.Fatal(err)
	}
	if hi := s.BandEnergy(1000, testRate/2); hi > 1e-3*s.BandEnergy(0, 200) {
		t.Fatalf("lowpassed saw keeps too much energy above 1 kHz: %v", hi)
	}
}

func TestNoiseSource(t *testing.T) {
	gen := noise.NewGeneratorWithOptions([]core.ProcessorOption{core.WithSampleRate(testRate)}, noise.WithSeed(1))
	buf, err := gen.White(0.1)
	if err != nil {
		t.Fatal(err)
	}

	c := newTestContext(t)
	once := NewNoiseSource(buf, false).Start(0)
	looped := NewNoiseSource(buf, true).Start(0).Stop(0.3)
	if _, err := c.Schedule(NewPatch("once", once)); err != nil {
		t.Fatal(err)
	}
	v, err := c.Schedule(NewPatch("loop", looped))
	if err != nil {
		t.Fatal(err)
	}
	if v.End() != 0.3 {
		t.Fatalf("looped end = %v, want 0.3", v.End())
	}

	out := render(c, 0.3)
	n := buf.Len()
	for i := 0; i < n; i++ {
		want := 2 * buf.At(i)
		if math.Abs(want) > clipKnee {
			continue
		}
		if math.Abs(out[i]-want) > 1e-6 {
			t.Fatalf("frame %d = %v, want %v", i, out[i], want)
		}
	}
	for i := n; i < 2*n; i++ {
		if math.Abs(buf.At(i-n)) > clipKnee {
			continue
		}
		if math.Abs(out[i]-buf.At(i-n)) > 1e-6 {
			t.Fatalf("loop frame %d = %v, want %v", i, out[i], buf.At(i-n))
		}
	}
}

func TestRenderIndependentOfChunking(t *testing.T) {
	build := func() *Context {
		c := newTestContext(t)
		o := NewOscillator(osc.Config{
			Waveform:  osc.Square,
			Frequency: 450,
			Ramp:      osc.Ramp{To: 210, Duration: 0.2, Kind: osc.RampLinear},
		}).Start(0).Stop(0.2)
		if _, err := c.Schedule(NewPatch("sq", NewGain(0.5, o))); err != nil {
			t.Fatal(err)
		}
		return c
	}

	a := make([]float32, 4800)
	build().Render(a)

	b := make([]float32, 4800)
	c := build()
	for off := 0; off < len(b); off += 97 {
		c.Render(b[off:min(off+97, len(b))])
	}
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-6 {
			t.Fatalf("frame %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestCloseSilencesAndRejects(t *testing.T) {
	c := newTestContext(t)
	v, err := c.Schedule(NewPatch("tone", tone(440, 0, 1)))
	if err != nil {
		t.Fatal(err)
	}
	c.Close()
	c.Close()

	if !v.Done() {
		t.Fatal("voice should be done after Close")
	}
	if _, err := c.Schedule(NewPatch("tone", tone(440, 0, 1))); !errors.Is(err, ErrClosed) {
		t.Fatalf("Schedule after Close = %v, want ErrClosed", err)
	}
	out := render(c, 0.01)
	if analysis.Peak(out) != 0 {
		t.Fatal("closed context should render silence")
	}
}

func TestMasterGainScales(t *testing.T) {
	c := NewContext(core.WithSampleRate(testRate))
	if got := c.Master().Gain().Value(); got != DefaultMasterLevel {
		t.Fatalf("master level = %v, want %v", got, DefaultMasterLevel)
	}
	if _, err := c.Schedule(NewPatch("tone", tone(1000, 0, 1))); err != nil {
		t.Fatal(err)
	}
	out := render(c, 0.1)
	if pk := analysis.Peak(out); math.Abs(pk-DefaultMasterLevel) > 0.005 {
		t.Fatalf("peak = %v, want ~%v", pk, DefaultMasterLevel)
	}
}

func TestSoftClip(t *testing.T) {
	for _, x := range []float64{0, 0.5, -0.9, 0.95, 3, -100} {
		y := softClip(x)
		if math.Abs(y) > 1 || math.Signbit(y) != math.Signbit(x) {
			t.Fatalf("softClip(%v) = %v", x, y)
		}
		if math.Abs(x) <= clipKnee && y != x {
			t.Fatalf("softClip(%v) changed a quiet sample", x)
		}
	}
}

func TestConcurrentScheduleAndRender(t *testing.T) {
	c := newTestContext(t)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		buf := make([]float32, 128)
		for i := 0; i < 200; i++ {
			c.Render(buf)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			now := c.CurrentTime()
			if _, err := c.Schedule(NewPatch("blip", tone(800, now, now+0.01))); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	wg.Wait()

	st := c.Stats()
	if st.Scheduled != 50 {
		t.Fatalf("Scheduled = %d, want 50", st.Scheduled)
	}
	if uint64(st.LiveVoices)+st.Reaped != 50 {
		t.Fatalf("live %d + reaped %d != 50", st.LiveVoices, st.Reaped)
	}
}
