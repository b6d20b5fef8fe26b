package decode

import (
	"encoding/binary"
	"testing"
)

func int16Bytes(samples ...int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

func TestFoldFrameStereoMean(t *testing.T) {
	raw := int16Bytes(100, 200, -50, 50)
	got := foldFrame(raw)
	want := []float64{float64(100/2 + 200/2), float64(-50/2 + 50/2)}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFoldFrameDropsIncompleteTrailingFrame(t *testing.T) {
	raw := int16Bytes(10, 20, 30) // 3 samples: one full stereo pair, one orphan
	got := foldFrame(raw)
	if len(got) != 1 {
		t.Fatalf("got %d samples, want 1 (orphan sample dropped)", len(got))
	}
}

func TestDecodeOpenError(t *testing.T) {
	_, err := Decode("/nonexistent/path/does-not-exist.mp3")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
