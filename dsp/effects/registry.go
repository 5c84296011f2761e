package effects

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/graph"
)

// Params is the input to a recipe.
type Params struct {
	// Intensity in [0, 1]. Out-of-range values are clamped.
	Intensity float64
	// At is the trigger time in context seconds.
	At float64
	// SampleRate is used for buffer lengths.
	SampleRate float64
	// Rand supplies all randomness. Nil means a time-seeded source.
	Rand *rand.Rand
}

func (p Params) rng() *rand.Rand {
	if p.Rand != nil {
		return p.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (p Params) intensity() float64 {
	return core.ClampUnit(p.Intensity)
}

// Recipe builds one patch.
type Recipe func(p Params) (*graph.Patch, error)

// ErrUnknownEffect is returned by Build for unregistered names.
var ErrUnknownEffect = errors.New("effects: unknown effect")

var errDuplicateEffect = errors.New("effects: duplicate effect")

// Registry maps effect names to recipes. It is not safe for concurrent
// registration; lookups after setup are read-only.
type Registry struct {
	recipes map[string]Recipe
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{recipes: make(map[string]Recipe)}
}

// Register adds a recipe under name.
func (r *Registry) Register(name string, recipe Recipe) error {
	if name == "" {
		return errors.New("effects: empty effect name")
	}
	if recipe == nil {
		return errors.New("effects: nil recipe")
	}
	if _, exists := r.recipes[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, name)
	}
	r.recipes[name] = recipe
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, recipe Recipe) {
	if err := r.Register(name, recipe); err != nil {
		panic(err.Error())
	}
}

// Lookup returns the recipe for name, or nil.
func (r *Registry) Lookup(name string) Recipe {
	return r.recipes[name]
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.recipes))
	for name := range r.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build runs the named recipe.
func (r *Registry) Build(name string, p Params) (*graph.Patch, error) {
	recipe := r.Lookup(name)
	if recipe == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	patch, err := recipe(p)
	if err != nil {
		return nil, fmt.Errorf("effects: %s: %w", name, err)
	}
	return patch, nil
}

// Names of the built-in recipes.
const (
	Drone     = "drone"
	Boot      = "boot"
	Hover     = "hover"
	Glitch    = "glitch"
	Knock     = "knock"
	Scare     = "scare"
	Heartbeat = "heartbeat"
)

// DefaultRegistry returns a new registry holding the built-in catalog.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Drone, NewDrone)
	r.MustRegister(Boot, NewBoot)
	r.MustRegister(Hover, NewHover)
	r.MustRegister(Glitch, NewGlitch)
	r.MustRegister(Knock, NewKnock)
	r.MustRegister(Scare, NewScare)
	r.MustRegister(Heartbeat, NewHeartbeat)
	return r
}
