package blosc

import "testing"

func TestPlanBlockSizeSmallerThanTypeSize(t *testing.T) {
	if got := planBlockSize(LZ4, 5, 8, 3, 0); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

func TestPlanBlockSizeOverrideIsRespectedAndFloored(t *testing.T) {
	if got := planBlockSize(LZ4, 5, 4, 1<<20, 256); got != 256 {
		t.Errorf("override 256: got %d, want 256", got)
	}
	if got := planBlockSize(LZ4, 5, 4, 1<<20, 1); got != MinBufferSize {
		t.Errorf("override 1: got %d, want %d (floored)", got, MinBufferSize)
	}
}

func TestPlanBlockSizeNeverExceedsNBytes(t *testing.T) {
	for _, nbytes := range []int{1, 100, 1000, 100000} {
		if got := planBlockSize(LZ4, 5, 4, nbytes, 0); got > nbytes {
			t.Errorf("nbytes=%d: blocksize %d exceeds nbytes", nbytes, got)
		}
	}
}

func TestPlanBlockSizeIsMultipleOfTypeSize(t *testing.T) {
	for _, typesize := range []int{2, 4, 8, 16} {
		for _, nbytes := range []int{1000, 100000, 5 * 1024 * 1024} {
			bs := planBlockSize(LZ4, 5, typesize, nbytes, 0)
			if bs > typesize && bs%typesize != 0 {
				t.Errorf("typesize=%d nbytes=%d: blocksize %d is not a multiple of typesize", typesize, nbytes, bs)
			}
		}
	}
}

func TestPlanBlockSizeScalesWithLevel(t *testing.T) {
	nbytes := 8 * l1CacheSize
	low := planBlockSize(LZ4, 1, 4, nbytes, 0)
	mid := planBlockSize(LZ4, 5, 4, nbytes, 0)
	high := planBlockSize(LZ4, 9, 4, nbytes, 0)
	if !(low <= mid && mid <= high) {
		t.Errorf("expected blocksize to grow with level: low=%d mid=%d high=%d", low, mid, high)
	}
}

func TestPlanBlockSizeZlibAndLZ4HCGetLargerBase(t *testing.T) {
	nbytes := 8 * l1CacheSize
	lz4 := planBlockSize(LZ4, 5, 4, nbytes, 0)
	zlib := planBlockSize(ZLIB, 5, 4, nbytes, 0)
	if zlib <= lz4 {
		t.Errorf("expected zlib's base blocksize to exceed lz4's: zlib=%d lz4=%d", zlib, lz4)
	}
}

func TestPlanBlockSizeBloscLZIsCappedByTypeSize(t *testing.T) {
	bs := planBlockSize(BloscLZ, 5, 8, 64<<20, 0)
	if bs > 64*1024*8 {
		t.Errorf("got %d, want <= %d", bs, 64*1024*8)
	}
}

func TestIsSIMDTypeSize(t *testing.T) {
	for _, ts := range []int{2, 4, 8, 16} {
		if !isSIMDTypeSize(ts) {
			t.Errorf("typesize %d: expected SIMD-eligible", ts)
		}
	}
	for _, ts := range []int{1, 3, 5, 17, 32} {
		if isSIMDTypeSize(ts) {
			t.Errorf("typesize %d: expected not SIMD-eligible", ts)
		}
	}
}
