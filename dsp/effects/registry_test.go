package effects

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/cwbudde/algo-ambient/dsp/graph"
	"github.com/cwbudde/algo-ambient/dsp/noise"
)

func TestDefaultRegistryNames(t *testing.T) {
	got := DefaultRegistry().Names()
	want := []string{Boot, Drone, Glitch, Heartbeat, Hover, Knock, Scare}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("", NewHover); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := r.Register("x", nil); err == nil {
		t.Fatal("expected error for nil recipe")
	}
	if err := r.Register("x", NewHover); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("x", NewHover); !errors.Is(err, errDuplicateEffect) {
		t.Fatalf("duplicate Register() = %v, want errDuplicateEffect", err)
	}
	if r.Lookup("x") == nil || r.Lookup("y") != nil {
		t.Fatal("Lookup mismatch")
	}
}

func TestMustRegisterPanics(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("x", NewHover)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate")
		}
	}()
	r.MustRegister("x", NewHover)
}

func TestBuildErrors(t *testing.T) {
	r := DefaultRegistry()
	if _, err := r.Build("whistle", Params{SampleRate: 48000}); !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("Build(unknown) = %v, want ErrUnknownEffect", err)
	}
	for _, name := range []string{Drone, Boot, Glitch, Scare} {
		_, err := r.Build(name, Params{SampleRate: 0, Rand: rand.New(rand.NewSource(1))})
		if !errors.Is(err, noise.ErrInvalidSampleRate) {
			t.Fatalf("Build(%s) with zero rate = %v, want ErrInvalidSampleRate", name, err)
		}
	}
}

func TestEveryRecipeValidates(t *testing.T) {
	r := DefaultRegistry()
	for _, name := range r.Names() {
		t.Run(name, func(t *testing.T) {
			p, err := r.Build(name, Params{Intensity: 0.7, At: 1, SampleRate: 48000, Rand: rand.New(rand.NewSource(5))})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if err := p.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if p.Name != name {
				t.Fatalf("patch name = %q, want %q", p.Name, name)
			}
			if p.Persistent != (name == Drone) {
				t.Fatalf("Persistent = %v", p.Persistent)
			}
			if _, err := graph.NewContext().Schedule(p); err != nil {
				t.Fatalf("Schedule() error = %v", err)
			}
		})
	}
}
