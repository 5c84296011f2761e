package effects_test

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-ambient/dsp/effects"
)

func ExampleRegistry_Build() {
	reg := effects.DefaultRegistry()
	patch, err := reg.Build(effects.Hover, effects.Params{
		At:         1,
		SampleRate: 48000,
		Rand:       rand.New(rand.NewSource(1)),
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s ends at %.2fs with %d nodes\n", patch.Name, patch.End(), len(patch.Nodes()))
	// Output: hover ends at 1.03s with 2 nodes
}
