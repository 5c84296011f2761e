package core

import "testing"

func TestEnsureLen(t *testing.T) {
	buf := make([]float64, 4, 8)
	if out := EnsureLen(buf, 6); len(out) != 6 || cap(out) != 8 {
		t.Fatalf("reuse: len %d cap %d, want 6/8", len(out), cap(out))
	}
	grown := EnsureLen(buf, 16)
	if len(grown) != 16 {
		t.Fatalf("grow: len = %d, want 16", len(grown))
	}
	if out := EnsureLen(grown, -1); len(out) != 0 {
		t.Fatalf("negative n: len = %d, want 0", len(out))
	}
}

func TestZeroAndSilence(t *testing.T) {
	a := []float64{1, -2, 3}
	Zero(a)
	b := []float32{0.5, -0.5}
	Silence(b)
	for i := range a {
		if a[i] != 0 {
			t.Fatalf("Zero left a[%d] = %v", i, a[i])
		}
	}
	for i := range b {
		if b[i] != 0 {
			t.Fatalf("Silence left b[%d] = %v", i, b[i])
		}
	}
}
