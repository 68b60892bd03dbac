package blosc

import (
	"encoding/binary"
	"testing"
)

// FuzzDecompress exercises the decompression path with random and
// deliberately malformed artifacts. It only asserts that no panic occurs
// and that bad input is rejected with an error rather than garbage output.
func FuzzDecompress(f *testing.F) {
	for _, backend := range []Codec{LZ4, ZSTD, ZLIB, Snappy, LZ4HC} {
		for _, sh := range []Shuffle{NoShuffle, Shuffle1} {
			for _, typeSize := range []int{1, 2, 4, 8} {
				data := makeCompressibleData(256)
				compressed, err := Compress(data, backend, 5, sh, typeSize)
				if err == nil {
					f.Add(compressed)
				}
			}
		}
	}

	f.Add([]byte{})
	f.Add([]byte{0x02})
	f.Add([]byte{0x02, 0x01})
	f.Add([]byte{0x02, 0x01, 0x00, 0x04})

	wrongVersion := make([]byte, HeaderSize)
	wrongVersion[0] = 99
	binary.LittleEndian.PutUint32(wrongVersion[4:8], 100)
	binary.LittleEndian.PutUint32(wrongVersion[12:16], 116)
	f.Add(wrongVersion)

	zeroVersion := make([]byte, HeaderSize)
	f.Add(zeroVersion)

	oldVersion := make([]byte, HeaderSize)
	oldVersion[0] = FormatVersion - 1
	f.Add(oldVersion)

	validHeaderTruncated := make([]byte, HeaderSize)
	validHeaderTruncated[0] = FormatVersion
	validHeaderTruncated[1] = 1
	validHeaderTruncated[2] = 0
	validHeaderTruncated[3] = 4
	binary.LittleEndian.PutUint32(validHeaderTruncated[4:8], 1000)
	binary.LittleEndian.PutUint32(validHeaderTruncated[8:12], 1000)
	binary.LittleEndian.PutUint32(validHeaderTruncated[12:16], 1000)
	f.Add(validHeaderTruncated)

	f.Fuzz(func(t *testing.T, data []byte) {
		dest := make([]byte, 1<<20)
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("DecompressInto panicked on input %v: %v", data, r)
			}
		}()
		n, err := DecompressInto(data, dest, 1)
		if err != nil {
			if n != 0 {
				t.Fatalf("error returned with nonzero n=%d", n)
			}
			return
		}
		if n < 0 || n > len(dest) {
			t.Fatalf("implausible n=%d for input of length %d", n, len(data))
		}
	})
}

// FuzzGetItem exercises the partial-decode path with random ranges against
// a fixed valid artifact, and with random artifacts and fixed ranges.
func FuzzGetItem(f *testing.F) {
	data := make([]byte, 4000)
	for i := range data {
		data[i] = byte(i)
	}
	compressed, err := Compress(data, LZ4, 5, Shuffle1, 4)
	if err != nil {
		f.Fatalf("setup: %v", err)
	}

	f.Add(compressed, 0, 10)
	f.Add(compressed, 100, 50)
	f.Add(compressed, 999, 1)
	f.Add([]byte{}, 0, 1)
	f.Add(compressed, -1, 5)
	f.Add(compressed, 0, -1)

	f.Fuzz(func(t *testing.T, src []byte, start, nitems int) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("GetItem panicked on start=%d nitems=%d: %v", start, nitems, r)
			}
		}()
		_, _ = GetItem(src, start, nitems)
	})
}

// FuzzShuffleRoundTrip checks that unshuffle always inverts shuffle for
// arbitrary typesize/length combinations, including ones with a short tail.
func FuzzShuffleRoundTrip(f *testing.F) {
	f.Add(4, 256)
	f.Add(1, 100)
	f.Add(17, 340)
	f.Add(8, 8*129+3)

	f.Fuzz(func(t *testing.T, typesize, length int) {
		if typesize <= 0 || typesize > 4096 || length < 0 || length > 1<<20 {
			t.Skip()
		}
		src := make([]byte, length)
		for i := range src {
			src[i] = byte(i)
		}
		shuffled := make([]byte, length)
		shuffle(typesize, src, shuffled)
		back := make([]byte, length)
		unshuffle(typesize, shuffled, back)

		for i := range src {
			if src[i] != back[i] {
				t.Fatalf("typesize=%d length=%d: mismatch at byte %d", typesize, length, i)
			}
		}
	})
}
