package blosc

import "fmt"

// workerScratch holds the two per-thread scratch buffers described in
// spec §3's lifecycle paragraph: tmp is sized to hold one shuffled block,
// tmp2 is sized with headroom for the unaligned-destination unshuffle
// detour in blockDecompress. Both are allocated once per worker and reused
// across every block that worker handles during a single call.
type workerScratch struct {
	tmp  *alignedBuffer
	tmp2 *alignedBuffer
}

func newWorkerScratch(blocksize, typesize int) *workerScratch {
	return &workerScratch{
		tmp:  newAlignedBuffer(blocksize),
		tmp2: newAlignedBuffer(blocksize + typesize*4),
	}
}

// splitCount implements the split-count rule shared by blockCompress and
// blockDecompress (spec §4.7/§4.8): S = typesize iff typesize <= MaxSplits
// and L/typesize >= 128 and this is not the short trailing block;
// otherwise S = 1.
func splitCount(typesize, length int, leftoverBlock bool) int {
	if !leftoverBlock && typesize <= MaxSplits && typesize > 0 && length/typesize >= 128 {
		return typesize
	}
	return 1
}

// blockCompress shuffles (if requested) and splits one block of in,
// invoking the backend per split, and writes the packed split list to
// dest. It returns the number of bytes written, or (0, nil) if the block
// did not fit in dest at all (the scheduler's "giveup" signal), or a
// non-nil error for a hard backend/protocol failure.
func blockCompress(ctx *compressContext, in []byte, leftoverBlock bool, dest []byte, scratch *workerScratch) (int, error) {
	L := len(in)

	work := in
	if ctx.shuffle && ctx.typesize > 1 {
		work = scratch.tmp.bytes()[:L]
		shuffle(ctx.typesize, in, work)
	}

	S := splitCount(ctx.typesize, L, leftoverBlock)
	M := L / S

	cursor := 0
	for s := 0; s < S; s++ {
		budget := len(dest) - cursor
		if budget < 4 {
			return 0, nil
		}
		prefixOff := cursor
		cursor += 4
		budget -= 4
		if budget <= 0 {
			return 0, nil
		}

		maxout := ctx.backend.worstCase(M)
		if maxout > budget {
			maxout = budget
		}

		split := work[s*M : s*M+M]
		c, err := ctx.backend.Compress(ctx.backend.scaledLevel(ctx.level), split, dest[cursor:cursor+maxout])
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBackendError, err)
		}
		if c < 0 || c > maxout {
			return 0, fmt.Errorf("%w: backend returned %d bytes for a %d-byte budget", ErrBackendError, c, maxout)
		}
		if c == 0 || c == M {
			if len(dest)-cursor < M {
				return 0, nil
			}
			copy(dest[cursor:cursor+M], split)
			c = M
		}

		storeInt32LE(dest[prefixOff:prefixOff+4], int32(c))
		cursor += c
	}

	return cursor, nil
}

// blockDecompress is the inverse of blockCompress for one block: it reads
// the packed split list from payload, decodes or raw-copies each split
// into the shuffle scratch (or directly into out when shuffle is not
// active), then unshuffles into out. It returns L on success.
func blockDecompress(ctx *compressContext, payload []byte, L int, leftoverBlock bool, out []byte, scratch *workerScratch) (int, error) {
	S := splitCount(ctx.typesize, L, leftoverBlock)
	M := L / S

	useShuffle := ctx.shuffle && ctx.typesize > 1
	target := out[:L]
	if useShuffle {
		target = scratch.tmp.bytes()[:L]
	}

	cursor := 0
	for s := 0; s < S; s++ {
		if cursor+4 > len(payload) {
			return 0, ErrHeaderCorrupt
		}
		clen := int(loadInt32LE(payload[cursor : cursor+4]))
		cursor += 4
		if clen < 0 || cursor+clen > len(payload) {
			return 0, ErrHeaderCorrupt
		}

		dst := target[s*M : s*M+M]
		if clen == M {
			copy(dst, payload[cursor:cursor+clen])
		} else {
			n, err := ctx.backend.Decompress(payload[cursor:cursor+clen], dst)
			if err != nil {
				return 0, fmt.Errorf("%w: %v", ErrBackendError, err)
			}
			if n != M {
				return 0, fmt.Errorf("%w: decoded %d bytes, expected %d", ErrBackendError, n, M)
			}
		}
		cursor += clen
	}

	if useShuffle {
		if isAligned16(out[:L]) {
			unshuffle(ctx.typesize, target, out[:L])
		} else {
			tmp2 := scratch.tmp2.bytes()[:L]
			unshuffle(ctx.typesize, target, tmp2)
			copy(out[:L], tmp2)
		}
	}

	return L, nil
}
