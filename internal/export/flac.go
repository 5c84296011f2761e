package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// FLACBlockSize is the number of samples per FLAC frame.
const FLACBlockSize = 4096

// ErrBitDepth is returned for bit depths other than 16 or 24.
var ErrBitDepth = errors.New("export: unsupported bit depth")

// WriteFLAC encodes mono samples as a FLAC stream. Samples are clamped to
// [-1, 1] and quantized to bits (16 or 24).
func WriteFLAC(w io.Writer, samples []float32, sampleRate, bits int) error {
	if bits != 16 && bits != 24 {
		return fmt.Errorf("%w: %d", ErrBitDepth, bits)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("export: invalid sample rate %d", sampleRate)
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  16,
		BlockSizeMax:  FLACBlockSize,
		SampleRate:    uint32(sampleRate),
		NChannels:     1,
		BitsPerSample: uint8(bits),
		NSamples:      uint64(len(samples)),
	}
	enc, err := flac.NewEncoder(w, info)
	if err != nil {
		return fmt.Errorf("creating flac encoder: %w", err)
	}
	enc.EnablePredictionAnalysis(true)

	scale := float64(int32(1)<<(bits-1) - 1)
	block := make([]int32, FLACBlockSize)
	for off := 0; off < len(samples); off += FLACBlockSize {
		chunk := samples[off:min(off+FLACBlockSize, len(samples))]
		pcm := block[:len(chunk)]
		for i, s := range chunk {
			pcm[i] = quantize(s, scale)
		}

		f := &frame.Frame{
			Header: frame.Header{
				BlockSize:     uint16(len(pcm)),
				SampleRate:    uint32(sampleRate),
				Channels:      frame.ChannelsMono,
				BitsPerSample: uint8(bits),
			},
			Subframes: []*frame.Subframe{{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   pcm,
				NSamples:  len(pcm),
			}},
		}
		if err := enc.WriteFrame(f); err != nil {
			_ = enc.Close()
			return fmt.Errorf("writing flac frame at %d: %w", off, err)
		}
	}
	return enc.Close()
}

func quantize(s float32, scale float64) int32 {
	v := float64(s)
	if math.IsNaN(v) {
		return 0
	}
	v = max(-1, min(1, v))
	return int32(math.Round(v * scale))
}
