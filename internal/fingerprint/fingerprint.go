// Package fingerprint slices mono PCM into fixed-size windows and emits
// one landmark hash per window, per spec.md §4.2. The forward DFT of
// each window is computed with github.com/mjibson/go-dsp/fft, the same
// library wired into the spectrogram step of
// himanishpuri-AcousticDNA/internal/fingerprint/spectrogram.go (an FFTReal
// wrapper around go-dsp) and present as an indirect dependency of
// DanielCarmel-media-luna/go.mod.
package fingerprint

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	// W is the analysis window length: non-overlapping, aligned to the
	// start of the stream, trailing remainder discarded.
	W = 4096
	// FreqFirst and FreqLast bound the inclusive bin scan range.
	FreqFirst = 40
	FreqLast  = 300
	// FuzzFactor is the quantisation modulus granting tolerance to small
	// spectral shifts.
	FuzzFactor = 2
)

// FreqBins are the five band upper edges used to bucket scanned bins.
var FreqBins = [5]int{40, 80, 120, 180, 300}

// Fingerprint consumes mono PCM and returns one hash per non-overlapping
// W-sample window. The result is deterministic and side-effect-free.
func Fingerprint(mono []float64) []int64 {
	n := len(mono) / W
	hashes := make([]int64, 0, n)
	for t := 0; t < n; t++ {
		window := mono[t*W : (t+1)*W]
		hashes = append(hashes, hashWindow(window))
	}
	return hashes
}

// hashWindow runs the forward DFT of one window and reduces it to a
// single landmark hash via the five-band peak scan.
func hashWindow(window []float64) int64 {
	spectrum := fft.FFTReal(window)

	var highScores [5]float64
	var recordPoints [5]int

	for bin := FreqFirst; bin <= FreqLast; bin++ {
		magnitude := cmplx.Abs(spectrum[bin])

		binIdx := 0
		for FreqBins[binIdx] < bin {
			binIdx++
		}

		if magnitude > highScores[binIdx] {
			highScores[binIdx] = magnitude
			recordPoints[binIdx] = bin
		}
	}

	return Hash(recordPoints)
}

// Hash folds the five recorded bins into the durable landmark hash.
// p[4] is intentionally ignored — it only shapes bin selection via
// binIdx above, never entering the hash itself, preserved for wire
// compatibility with existing indices (spec.md §4.2, §9 Open Question 2).
func Hash(p [5]int) int64 {
	f := int64(FuzzFactor)
	p0, p1, p2, p3 := int64(p[0]), int64(p[1]), int64(p[2]), int64(p[3])
	return (p3-p3%f)*1e8 +
		(p2-p2%f)*1e5 +
		(p1-p1%f)*1e2 +
		(p0 - p0%f)
}
