package errs

import (
	"errors"
	"testing"
)

func TestWrapReturnsNilForNilErr(t *testing.T) {
	if got := Wrap(KindDecode, "op", nil); got != nil {
		t.Fatalf("Wrap(nil) = %v, want nil", got)
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := New(KindInvalidExtension, "library.songName")
	if !Is(err, KindInvalidExtension) {
		t.Fatal("Is should match the error's own kind")
	}
	if Is(err, KindDecode) {
		t.Fatal("Is should not match a different kind")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("boom")
	wrapped := Wrap(KindIndex, "postgres.Find", cause)
	if !errors.Is(wrapped, cause) {
		t.Fatal("errors.Is should see through Wrap to the underlying cause")
	}
}
