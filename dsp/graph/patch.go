package graph

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoOutput is returned for a patch without an output node.
	ErrNoOutput = errors.New("graph: patch has no output node")
	// ErrNotStarted is returned when a source node was never started.
	ErrNotStarted = errors.New("graph: source node not started")
	// ErrNoStopTime is returned when a transient patch has a source without
	// a stop time.
	ErrNoStopTime = errors.New("graph: transient source has no stop time")
	// ErrCycle is returned when the node graph is not acyclic.
	ErrCycle = errors.New("graph: cycle in node graph")
)

// Patch is a node graph ready to be attached to the master bus.
// Persistent patches are never reaped; transient patches are released once
// every source has stopped.
type Patch struct {
	Name       string
	Output     Node
	Persistent bool
}

// NewPatch returns a transient patch named name rendering out.
func NewPatch(name string, out Node) *Patch {
	return &Patch{Name: name, Output: out}
}

// Validate checks the graph is acyclic and every source is scheduled.
func (p *Patch) Validate() error {
	_, err := p.compile()
	return err
}

// Nodes returns the distinct nodes reachable from the output, sources
// first. It returns nil for an invalid graph.
func (p *Patch) Nodes() []Node {
	c, err := p.compile()
	if err != nil {
		return nil
	}
	return c.order
}

// End returns the latest stop time of the patch's sources, or +Inf when the
// patch is persistent or invalid.
func (p *Patch) End() float64 {
	c, err := p.compile()
	if err != nil || p.Persistent {
		return math.Inf(1)
	}
	return c.end
}

type compiled struct {
	order []Node
	end   float64
}

// compile walks the graph from the output and orders it with Kahn's
// algorithm; a node left unordered sits on a cycle.
func (p *Patch) compile() (*compiled, error) {
	if p == nil || p.Output == nil {
		return nil, ErrNoOutput
	}

	var nodes []Node
	seen := map[Node]bool{}
	stack := []Node{p.Output}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		nodes = append(nodes, n)
		stack = append(stack, n.inputs()...)
	}

	indegree := make(map[Node]int, len(nodes))
	consumers := make(map[Node][]Node, len(nodes))
	for _, n := range nodes {
		for _, in := range n.inputs() {
			indegree[n]++
			consumers[in] = append(consumers[in], n)
		}
	}

	queue := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	order := make([]Node, 0, len(nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, c := range consumers[n] {
			indegree[c]--
			if indegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	if len(order) != len(nodes) {
		return nil, fmt.Errorf("%w: patch %q", ErrCycle, p.Name)
	}

	end := math.Inf(-1)
	for _, n := range order {
		src, ok := n.(source)
		if !ok {
			continue
		}
		if !src.started() {
			return nil, fmt.Errorf("%w: %s in patch %q", ErrNotStarted, n.Kind(), p.Name)
		}
		stop := src.stopTime()
		if !p.Persistent && math.IsInf(stop, 1) {
			return nil, fmt.Errorf("%w: %s in patch %q", ErrNoStopTime, n.Kind(), p.Name)
		}
		end = math.Max(end, stop)
	}
	if math.IsInf(end, -1) {
		end = 0
	}
	return &compiled{order: order, end: end}, nil
}
