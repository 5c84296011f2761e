package core

// EnsureLen returns buf resliced to n, allocating only when its capacity is
// too small. Render paths call it once per block on their scratch buffers.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero clears buf.
func Zero(buf []float64) {
	clear(buf)
}

// Silence clears an output buffer.
func Silence(dst []float32) {
	clear(dst)
}
