package blosc

// planBlockSize chooses a blocksize from (backend, level, typesize,
// nbytes, override), per spec §4.4. It always returns a positive multiple
// of typesize, except the degenerate nbytes < typesize case where it
// returns 1.
func planBlockSize(backend Codec, level, typesize, nbytes, override int) int {
	var blocksize int

	switch {
	case nbytes < typesize:
		return 1

	case override > 0:
		blocksize = override
		if blocksize < MinBufferSize {
			blocksize = MinBufferSize
		}

	case nbytes >= 4*l1CacheSize:
		blocksize = 4 * l1CacheSize
		if backend == ZLIB || backend == LZ4HC {
			blocksize *= 8
		}
		switch {
		case level == 0:
			blocksize /= 16
		case level >= 1 && level <= 3:
			blocksize /= 8
		case level >= 4 && level <= 5:
			blocksize /= 4
		case level == 6:
			blocksize /= 2
		case level == 7 || level == 8:
			// unchanged
		default: // level >= 9
			blocksize *= 2
		}

	case nbytes > 256 && isSIMDTypeSize(typesize):
		blocksize = nbytes - nbytes%(16*typesize)

	default:
		blocksize = nbytes
	}

	if blocksize <= 0 {
		blocksize = nbytes
	}
	if blocksize > nbytes {
		blocksize = nbytes
	}
	if blocksize > typesize && typesize > 0 {
		blocksize -= blocksize % typesize
	}
	if backend == BloscLZ && typesize > 0 {
		cap := 64 * 1024 * typesize
		if blocksize > cap {
			blocksize = cap
		}
	}
	if blocksize <= 0 {
		blocksize = typesize
		if blocksize <= 0 {
			blocksize = 1
		}
	}
	return blocksize
}

func isSIMDTypeSize(typesize int) bool {
	switch typesize {
	case 2, 4, 8, 16:
		return true
	default:
		return false
	}
}
