package blosc

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestShuffleUnshuffleRoundTrip(t *testing.T) {
	for _, typesize := range []int{2, 3, 4, 5, 8, 11, 16, 17, 32} {
		for _, numElements := range []int{0, 1, 2, 7, 128, 129} {
			n := numElements * typesize
			// exercise a non-multiple tail on a few sizes too
			for _, tail := range []int{0, typesize - 1} {
				length := n + tail
				if length == 0 {
					continue
				}
				src := make([]byte, length)
				rand.New(rand.NewSource(int64(typesize*10000 + numElements*10 + tail))).Read(src)

				shuffled := make([]byte, length)
				shuffle(typesize, src, shuffled)

				back := make([]byte, length)
				unshuffle(typesize, shuffled, back)

				if !bytes.Equal(src, back) {
					t.Fatalf("typesize=%d numElements=%d tail=%d: round-trip mismatch", typesize, numElements, tail)
				}
			}
		}
	}
}

func TestShuffleSpecializationsMatchGeneric(t *testing.T) {
	for _, typesize := range []int{2, 4, 8, 16} {
		numElements := 257
		n := numElements * typesize
		src := make([]byte, n)
		rand.New(rand.NewSource(int64(typesize))).Read(src)

		specialized := make([]byte, n)
		shuffle(typesize, src, specialized)

		generic := make([]byte, n)
		shuffleGeneric(generic, src, typesize, numElements)

		if !bytes.Equal(specialized, generic) {
			t.Fatalf("typesize=%d: specialized shuffle diverges from generic", typesize)
		}

		specializedBack := make([]byte, n)
		unshuffle(typesize, specialized, specializedBack)
		genericBack := make([]byte, n)
		unshuffleGeneric(genericBack, generic, typesize, numElements)

		if !bytes.Equal(specializedBack, genericBack) {
			t.Fatalf("typesize=%d: specialized unshuffle diverges from generic", typesize)
		}
	}
}

func TestShuffleGroupsLikeBytesTogether(t *testing.T) {
	// Three 4-byte elements; shuffle should group every k-th byte together.
	const typesize = 4
	src := []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	}
	dst := make([]byte, len(src))
	shuffle(typesize, src, dst)

	want := []byte{
		1, 5, 9, // byte 0 of every element
		2, 6, 10, // byte 1
		3, 7, 11, // byte 2
		4, 8, 12, // byte 3
	}
	if !bytes.Equal(dst, want) {
		t.Fatalf("got %v, want %v", dst, want)
	}
}

func TestShuffleTailBytesCopiedUnchanged(t *testing.T) {
	const typesize = 4
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8, 0xAA, 0xBB}
	dst := make([]byte, len(src))
	shuffle(typesize, src, dst)
	if !bytes.Equal(dst[8:], []byte{0xAA, 0xBB}) {
		t.Fatalf("tail bytes were not copied unchanged: %v", dst[8:])
	}

	back := make([]byte, len(src))
	unshuffle(typesize, dst, back)
	if !bytes.Equal(back, src) {
		t.Fatal("round-trip mismatch with a short trailing tail")
	}
}
