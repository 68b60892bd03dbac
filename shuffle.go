package blosc

// shuffle performs the byte-transpose described in spec §4.5: for an input
// of N bytes grouped into elements of typesize bytes,
//
//	dst[k*(N/typesize)+i] = src[i*typesize+k]
//
// for 0 <= i < N/typesize, 0 <= k < typesize. Any trailing bytes that do
// not form a complete element (N % typesize != 0, as happens on a short
// trailing block) are copied unchanged at the same tail offset. dst must
// have the same length as src; shuffle does not allocate.
//
// Callers are expected to skip this entirely when typesize == 1, per spec
// §4.5 ("shuffle is skipped (identity) when typesize == 1 ...").
func shuffle(typesize int, src, dst []byte) {
	n := len(src)
	numElements := n / typesize

	switch typesize {
	case 2:
		shuffle2(dst, src, numElements)
	case 4:
		shuffle4(dst, src, numElements)
	case 8:
		shuffle8(dst, src, numElements)
	case 16:
		shuffle16(dst, src, numElements)
	default:
		shuffleGeneric(dst, src, typesize, numElements)
	}

	if tail := n - numElements*typesize; tail > 0 {
		copy(dst[numElements*typesize:], src[numElements*typesize:])
	}
}

// unshuffle is the exact inverse of shuffle.
func unshuffle(typesize int, src, dst []byte) {
	n := len(src)
	numElements := n / typesize

	switch typesize {
	case 2:
		unshuffle2(dst, src, numElements)
	case 4:
		unshuffle4(dst, src, numElements)
	case 8:
		unshuffle8(dst, src, numElements)
	case 16:
		unshuffle16(dst, src, numElements)
	default:
		unshuffleGeneric(dst, src, typesize, numElements)
	}

	if tail := n - numElements*typesize; tail > 0 {
		copy(dst[numElements*typesize:], src[numElements*typesize:])
	}
}

// shuffleGeneric is the scalar fallback required by spec §4.5 for any
// typesize not given a specialized unrolled path below.
func shuffleGeneric(dst, src []byte, typesize, numElements int) {
	for i := 0; i < numElements; i++ {
		for k := 0; k < typesize; k++ {
			dst[k*numElements+i] = src[i*typesize+k]
		}
	}
}

func unshuffleGeneric(dst, src []byte, typesize, numElements int) {
	for i := 0; i < numElements; i++ {
		for k := 0; k < typesize; k++ {
			dst[i*typesize+k] = src[k*numElements+i]
		}
	}
}

// The specializations below are scalar loops for the common numeric
// widths (spec §4.5 "implementations SHOULD special-case typesize in
// {2,4,8,16}"). The 2- and 4-byte paths are fully unrolled; the 8- and
// 16-byte paths slice each element once and loop over a fixed-width inner
// k-loop. All compute exactly what shuffleGeneric/unshuffleGeneric do.

func shuffle2(dst, src []byte, numElements int) {
	for i := 0; i < numElements; i++ {
		s := src[i*2 : i*2+2]
		dst[i] = s[0]
		dst[numElements+i] = s[1]
	}
}

func unshuffle2(dst, src []byte, numElements int) {
	for i := 0; i < numElements; i++ {
		d := dst[i*2 : i*2+2]
		d[0] = src[i]
		d[1] = src[numElements+i]
	}
}

func shuffle4(dst, src []byte, numElements int) {
	for i := 0; i < numElements; i++ {
		s := src[i*4 : i*4+4]
		dst[i] = s[0]
		dst[numElements+i] = s[1]
		dst[2*numElements+i] = s[2]
		dst[3*numElements+i] = s[3]
	}
}

func unshuffle4(dst, src []byte, numElements int) {
	for i := 0; i < numElements; i++ {
		d := dst[i*4 : i*4+4]
		d[0] = src[i]
		d[1] = src[numElements+i]
		d[2] = src[2*numElements+i]
		d[3] = src[3*numElements+i]
	}
}

func shuffle8(dst, src []byte, numElements int) {
	for i := 0; i < numElements; i++ {
		s := src[i*8 : i*8+8]
		for k := 0; k < 8; k++ {
			dst[k*numElements+i] = s[k]
		}
	}
}

func unshuffle8(dst, src []byte, numElements int) {
	for i := 0; i < numElements; i++ {
		d := dst[i*8 : i*8+8]
		for k := 0; k < 8; k++ {
			d[k] = src[k*numElements+i]
		}
	}
}

func shuffle16(dst, src []byte, numElements int) {
	for i := 0; i < numElements; i++ {
		s := src[i*16 : i*16+16]
		for k := 0; k < 16; k++ {
			dst[k*numElements+i] = s[k]
		}
	}
}

func unshuffle16(dst, src []byte, numElements int) {
	for i := 0; i < numElements; i++ {
		d := dst[i*16 : i*16+16]
		for k := 0; k < 16; k++ {
			d[k] = src[k*numElements+i]
		}
	}
}
