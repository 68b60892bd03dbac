package blosc

import (
	"bytes"
	"testing"
)

func TestSplitCountRule(t *testing.T) {
	cases := []struct {
		typesize, length int
		leftover         bool
		want             int
	}{
		{4, 4 * 128, false, 4},   // meets both thresholds
		{4, 4 * 127, false, 1},   // below the 128-elements-per-split floor
		{4, 4 * 200, true, 1},    // leftover block never splits
		{17, 17 * 200, false, 1}, // typesize above MaxSplits never splits
		{1, 1000, false, 1},      // typesize 1 never splits (S==typesize==1 is a no-op anyway)
	}
	for _, c := range cases {
		if got := splitCount(c.typesize, c.length, c.leftover); got != c.want {
			t.Errorf("splitCount(%d, %d, %v) = %d, want %d", c.typesize, c.length, c.leftover, got, c.want)
		}
	}
}

func TestBlockCompressDecompressRoundTrip(t *testing.T) {
	backend, _ := backendByCode(LZ4)
	ctx := &compressContext{backend: backend, level: 5, shuffle: true, typesize: 4, blocksize: 4 * 256, nbytes: 4 * 256}
	scratch := newWorkerScratch(ctx.blocksize, ctx.typesize)

	in := makeCompressibleData(ctx.blocksize)
	dest := make([]byte, ctx.blocksize*2+256)
	n, err := blockCompress(ctx, in, false, dest, scratch)
	if err != nil {
		t.Fatalf("blockCompress: %v", err)
	}
	if n == 0 {
		t.Fatal("expected a nonzero payload length")
	}

	out := make([]byte, len(in))
	decScratch := newWorkerScratch(ctx.blocksize, ctx.typesize)
	m, err := blockDecompress(ctx, dest[:n], len(in), false, out, decScratch)
	if err != nil {
		t.Fatalf("blockDecompress: %v", err)
	}
	if m != len(in) || !bytes.Equal(in, out) {
		t.Fatal("round-trip mismatch")
	}
}

func TestBlockCompressGivesUpWhenDestTooSmall(t *testing.T) {
	backend, _ := backendByCode(LZ4)
	ctx := &compressContext{backend: backend, level: 5, shuffle: false, typesize: 1, blocksize: 4096, nbytes: 4096}
	scratch := newWorkerScratch(ctx.blocksize, ctx.typesize)

	in := makeRandomData(ctx.blocksize)
	dest := make([]byte, 3) // too small even for one split's 4-byte prefix
	n, err := blockCompress(ctx, in, false, dest, scratch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected giveup signal (0, nil), got n=%d", n)
	}
}

func TestBlockCompressStoresRawSplitWhenIncompressible(t *testing.T) {
	backend, _ := backendByCode(LZ4)
	ctx := &compressContext{backend: backend, level: 5, shuffle: false, typesize: 1, blocksize: 4096, nbytes: 4096}
	scratch := newWorkerScratch(ctx.blocksize, ctx.typesize)

	in := makeRandomData(ctx.blocksize)
	dest := make([]byte, ctx.blocksize+64)
	n, err := blockCompress(ctx, in, false, dest, scratch)
	if err != nil {
		t.Fatalf("blockCompress: %v", err)
	}
	if n == 0 {
		t.Fatal("expected the raw-store fallback to fit")
	}

	out := make([]byte, len(in))
	decScratch := newWorkerScratch(ctx.blocksize, ctx.typesize)
	if _, err := blockDecompress(ctx, dest[:n], len(in), false, out, decScratch); err != nil {
		t.Fatalf("blockDecompress: %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Fatal("round-trip mismatch on raw-stored split")
	}
}

func TestBlockDecompressRejectsTruncatedPayload(t *testing.T) {
	backend, _ := backendByCode(LZ4)
	ctx := &compressContext{backend: backend, level: 5, shuffle: false, typesize: 1, blocksize: 4096, nbytes: 4096}
	scratch := newWorkerScratch(ctx.blocksize, ctx.typesize)

	if _, err := blockDecompress(ctx, []byte{1, 2}, 4096, false, make([]byte, 4096), scratch); err != ErrHeaderCorrupt {
		t.Errorf("got %v, want ErrHeaderCorrupt", err)
	}
}
