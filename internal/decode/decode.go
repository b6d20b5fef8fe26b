// Package decode turns a compressed audio file into a single-channel,
// uniformly-sampled real-valued sample stream, per spec.md §4.1.
//
// MPEG-1/2 Layer III decoding is done with github.com/hajimehoshi/go-mp3,
// which always produces interleaved signed-16-bit-little-endian PCM at
// 2 channels regardless of the source's channel layout — the Go
// equivalent of the minimp3-backed decode_mp3 in the original source
// (original_source/src/fingerprint.rs), which folds 2-channel frames as
// pair[0]/2 + pair[1]/2 and copies 1-channel frames verbatim.
package decode

import (
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"

	"soundmark/internal/errs"
)

// frameBytes is the size of each chunk read from the go-mp3 decoder;
// each chunk stands in for one "frame" of spec.md's frame-iteration
// language. It must be a multiple of bytesPerSample*channels so a chunk
// never splits a sample in half.
const frameBytes = 8192

const (
	bytesPerSample = 2 // go-mp3 always emits 16-bit PCM
	channels       = 2 // go-mp3 always emits stereo PCM
)

// Decode opens path, decodes it frame by frame, and returns the mono
// PCM stream: one float64 per output sample, produced by folding each
// set of `channels` consecutive interleaved samples into their
// per-channel-divided sum (see foldFrame).
func Decode(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindOpen, "decode.Decode", err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, errs.Wrap(errs.KindDecode, "decode.Decode", err)
	}

	if channels < 1 {
		return nil, errs.New(errs.KindChannel, "decode.Decode")
	}

	var mono []float64
	buf := make([]byte, frameBytes)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			mono = append(mono, foldFrame(buf[:n])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.KindDecode, "decode.Decode", err)
		}
		if n == 0 {
			break
		}
	}

	return mono, nil
}

// foldFrame converts one chunk of interleaved 16-bit PCM bytes into mono
// float64 samples by summing each channel's value divided by the channel
// count — the literal "sample / C" fold spec.md §4.1 requires, preserved
// from the original's pair[0]/2 + pair[1]/2 mixing so existing hash
// output stays stable.
func foldFrame(raw []byte) []float64 {
	samples := bytesToInt16(raw)
	frames := len(samples) / channels
	out := make([]float64, 0, frames)
	for i := 0; i < frames; i++ {
		base := i * channels
		var sum int32
		for c := 0; c < channels; c++ {
			sum += int32(samples[base+c]) / channels
		}
		out = append(out, float64(sum))
	}
	return out
}

func bytesToInt16(raw []byte) []int16 {
	n := len(raw) / bytesPerSample
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		lo := raw[i*2]
		hi := raw[i*2+1]
		out[i] = int16(uint16(lo) | uint16(hi)<<8)
	}
	return out
}
