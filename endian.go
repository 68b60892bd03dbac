package blosc

import "encoding/binary"

// All multi-byte integers in the artifact are little-endian, regardless of
// host byte order. These helpers operate at arbitrary byte alignment on
// the destination and are used for nbytes, blocksize, cbytes, bstarts[i],
// and the per-split compressed-length prefixes.

func loadUint32LE(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

func storeUint32LE(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

func loadInt32LE(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

func storeInt32LE(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}
