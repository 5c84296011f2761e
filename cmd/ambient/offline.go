package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-ambient/dsp/effects"
	"github.com/cwbudde/algo-ambient/internal/export"
)

var descriptions = map[string]string{
	effects.Drone:     "looping hum, sub-bass breath and hiss",
	effects.Boot:      "CRT power-on whine with a crunch",
	effects.Hover:     "short square tick at a random pitch",
	effects.Glitch:    "high-passed burst of white noise",
	effects.Knock:     "two or three low thumps",
	effects.Scare:     "detuned saw and square stab with a full glitch",
	effects.Heartbeat: "lub-dub pulse that grows with idle time",
}

func runList(args []string, stdout, stderr io.Writer) error {
	c := newCommand("list", "", stderr)
	if err := c.parse(args, stderr); err != nil {
		return err
	}

	reg := effects.DefaultRegistry()
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Effect\tLength\tDescription\n")
	fmt.Fprintf(tw, "------\t------\t-----------\n")
	for _, name := range reg.Names() {
		length := "loop"
		if p, err := reg.Build(name, effects.Params{SampleRate: float64(c.cfg.SampleRate)}); err == nil && !math.IsInf(p.End(), 1) {
			length = fmt.Sprintf("~%.2fs", p.End())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, length, descriptions[name])
	}
	return tw.Flush()
}

func runRender(args []string, stdout, stderr io.Writer) error {
	c := newCommand("render", "effect", stderr)
	out := c.fs.String("o", "", "output file (default <effect>.flac, - for stdout)")
	intensity := c.fs.Float64("intensity", 0.5, "effect intensity in [0, 1]")
	seed := c.fs.Int64("seed", 1, "random seed")
	duration := c.fs.Float64("duration", 0, "render length in seconds (0 = natural length)")
	drone := c.fs.Bool("drone", false, "mix the drone under the effect")
	bits := c.fs.Int("bits", 16, "FLAC bit depth: 16 or 24")
	if err := c.parse(args, stderr); err != nil {
		return err
	}
	if c.fs.NArg() != 1 {
		c.fs.Usage()
		return errors.New("render needs exactly one effect")
	}
	name := c.fs.Arg(0)

	samples, err := export.RenderEffect(effects.DefaultRegistry(), name, export.Options{
		SampleRate:  float64(c.cfg.SampleRate),
		Intensity:   *intensity,
		Seed:        *seed,
		MasterLevel: c.cfg.MasterLevel,
		Duration:    *duration,
		Drone:       *drone,
	})
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = name + ".flac"
	}
	if path == "-" {
		return export.WriteFLAC(stdout, samples, c.cfg.SampleRate, *bits)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteFLAC(f, samples, c.cfg.SampleRate, *bits); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	c.log.Info().Str("effect", name).Str("path", path).Int("frames", len(samples)).Msg("rendered")
	fmt.Fprintf(stdout, "wrote %s (%d frames, %.3fs)\n", path, len(samples), float64(len(samples))/float64(c.cfg.SampleRate))
	return nil
}

func runInspect(args []string, stdout, stderr io.Writer) error {
	c := newCommand("inspect", "[effect|pink|white ...]", stderr)
	intensity := c.fs.Float64("intensity", 0.5, "effect intensity in [0, 1]")
	seed := c.fs.Int64("seed", 1, "random seed")
	duration := c.fs.Float64("duration", 0, "render length in seconds (0 = natural length)")
	if err := c.parse(args, stderr); err != nil {
		return err
	}

	reg := effects.DefaultRegistry()
	names := c.fs.Args()
	if len(names) == 0 {
		names = reg.Names()
	}
	opts := export.Options{
		SampleRate:  float64(c.cfg.SampleRate),
		Intensity:   *intensity,
		Seed:        *seed,
		MasterLevel: c.cfg.MasterLevel,
		Duration:    *duration,
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Source\tSeconds\tPeak\tPeak [dBFS]\tRMS\tCentroid [Hz]\tLow/High\n")
	fmt.Fprintf(tw, "------\t-------\t----\t-----------\t---\t-------------\t--------\n")
	for _, name := range names {
		var (
			samples []float32
			err     error
		)
		switch name {
		case export.Pink, export.White:
			samples, err = export.RenderNoise(name, opts)
		default:
			samples, err = export.RenderEffect(reg, name, opts)
		}
		if err != nil {
			return err
		}
		r, err := export.Analyze(samples, opts.SampleRate)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.4f\t%.1f\t%.5f\t%.0f\t%.3f\n",
			name, r.Seconds, r.Peak, dbfs(r.Peak), r.RMS, r.Centroid, r.LowHigh)
	}
	return tw.Flush()
}

func dbfs(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}
