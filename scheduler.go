package blosc

import "sync"

// schedulerResult is what either driver reports back to the public entry
// points: the number of payload bytes written (compression) or decoded
// (decompression), a "giveup" signal distinct from a hard error, and the
// error itself when one occurred.
type schedulerResult struct {
	n      int
	giveup bool
	err    error
}

// runCompress dispatches across all blocks of src into dest's payload
// region (i.e. dest[headerOverhead:]), filling h.BStarts as it goes, and
// returns the total payload length. It chooses the serial path when
// nthreads <= 1 or the buffer is a single block, and the parallel path
// otherwise (spec §4.9 "Dispatch").
func runCompress(ctx *compressContext, src, payloadDest []byte, h *Header, nthreads int) schedulerResult {
	nblocks := h.NumBlocks()
	if nthreads <= 1 || nblocks <= 1 {
		return serialCompress(ctx, src, payloadDest, h, nblocks)
	}
	return parallelCompress(ctx, src, payloadDest, h, nblocks, nthreads)
}

// runDecompress is the decompression counterpart of runCompress.
func runDecompress(ctx *compressContext, h *Header, payloadSrc []byte, dest []byte, nthreads int) schedulerResult {
	nblocks := h.NumBlocks()
	if nthreads <= 1 || nblocks <= 1 {
		return serialDecompress(ctx, h, payloadSrc, dest, nblocks)
	}
	return parallelDecompress(ctx, h, payloadSrc, dest, nblocks, nthreads)
}

// blockPayloadSpan returns the [start, end) byte range of block i's
// payload within payloadSrc, using the start table and either the next
// block's start or the region's own length as the end.
func blockPayloadSpan(h *Header, payloadSrc []byte, i, nblocks int) (int, int) {
	start := int(h.BStarts[i])
	end := len(payloadSrc)
	if i+1 < nblocks {
		end = int(h.BStarts[i+1])
	}
	return start, end
}

// ---------------------------------------------------------------------------
// Serial paths
// ---------------------------------------------------------------------------

func serialCompress(ctx *compressContext, src, payloadDest []byte, h *Header, nblocks int) schedulerResult {
	scratch := newWorkerScratch(ctx.blocksize, ctx.typesize)
	cursor := 0

	for i := 0; i < nblocks; i++ {
		off := ctx.blockOffset(i)
		L := ctx.blockLen(i, nblocks)
		in := src[off : off+L]

		if h.IsMemcpy() {
			copy(payloadDest[cursor:cursor+L], in)
			cursor += L
			continue
		}

		h.BStarts[i] = int32(cursor)
		c, err := blockCompress(ctx, in, ctx.isLeftoverBlock(i, nblocks), payloadDest[cursor:], scratch)
		if err != nil {
			return schedulerResult{err: err}
		}
		if c == 0 {
			return schedulerResult{giveup: true}
		}
		cursor += c
	}

	return schedulerResult{n: cursor}
}

func serialDecompress(ctx *compressContext, h *Header, payloadSrc, dest []byte, nblocks int) schedulerResult {
	scratch := newWorkerScratch(ctx.blocksize, ctx.typesize)
	total := 0

	for i := 0; i < nblocks; i++ {
		off := ctx.blockOffset(i)
		L := ctx.blockLen(i, nblocks)
		out := dest[off : off+L]

		if h.IsMemcpy() {
			if off+L > len(payloadSrc) {
				return schedulerResult{err: ErrHeaderCorrupt}
			}
			copy(out, payloadSrc[off:off+L])
			total += L
			continue
		}

		start, end := blockPayloadSpan(h, payloadSrc, i, nblocks)
		if start < 0 || end > len(payloadSrc) || start > end {
			return schedulerResult{err: ErrHeaderCorrupt}
		}
		n, err := blockDecompress(ctx, payloadSrc[start:end], L, ctx.isLeftoverBlock(i, nblocks), out, scratch)
		if err != nil {
			return schedulerResult{err: err}
		}
		total += n
	}

	return schedulerResult{n: total}
}

// ---------------------------------------------------------------------------
// Parallel paths
// ---------------------------------------------------------------------------

// parallelCompress drives T workers over the block list concurrently. The
// key ordering challenge (spec §4.9/§5) is that the packed output stream's
// block positions must be recorded in bstarts in block-index order even
// though blocks may finish compressing out of order. This is implemented
// with a shared cursor protected by a condition variable gated on a
// nextIndex counter: a worker that finishes block i waits for nextIndex
// to reach i before it may commit its result and advance the cursor. This
// is option (a) from spec §9's design notes (a per-block sequenced token
// with a condition variable), and mirrors the single-shared-counter
// reassembly technique used by cosnicolaou/pbzip2's parallel decompressor
// (see other_examples/ in the retrieval pack), simplified here because the
// total block count is known upfront and a simple counter gate suffices in
// place of a heap.
func parallelCompress(ctx *compressContext, src, payloadDest []byte, h *Header, nblocks, nthreads int) schedulerResult {
	// The memcpy mode needs none of the ordered-cursor machinery below: per
	// spec.md's memcpy framing, block i's raw bytes always land at its own
	// offset in the payload (bstarts is left untouched, exactly as
	// serialCompress does), so every block can be copied independently and
	// concurrently.
	if h.IsMemcpy() {
		var wg sync.WaitGroup
		wg.Add(nblocks)
		for i := 0; i < nblocks; i++ {
			go func(i int) {
				defer wg.Done()
				off := ctx.blockOffset(i)
				L := ctx.blockLen(i, nblocks)
				copy(payloadDest[off:off+L], src[off:off+L])
			}(i)
		}
		wg.Wait()
		return schedulerResult{n: ctx.nbytes}
	}

	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	nextIndex := 0
	cursor := 0
	giveup := false
	var giveupErr error

	indices := make(chan int)
	go func() {
		for i := 0; i < nblocks; i++ {
			indices <- i
		}
		close(indices)
	}()

	var wg sync.WaitGroup
	wg.Add(nthreads)
	for w := 0; w < nthreads; w++ {
		go func() {
			defer wg.Done()
			scratch := newWorkerScratch(ctx.blocksize, ctx.typesize)
			staging := make([]byte, ctx.blocksize+4*ctx.typesize+64)

			for i := range indices {
				mu.Lock()
				skip := giveup
				mu.Unlock()
				if skip {
					continue
				}

				off := ctx.blockOffset(i)
				L := ctx.blockLen(i, nblocks)
				in := src[off : off+L]

				c, err := blockCompress(ctx, in, ctx.isLeftoverBlock(i, nblocks), staging, scratch)

				mu.Lock()
				for nextIndex != i && !giveup {
					cond.Wait()
				}
				if giveup {
					mu.Unlock()
					continue
				}
				if err != nil {
					giveup = true
					giveupErr = err
					nextIndex++
					cond.Broadcast()
					mu.Unlock()
					continue
				}
				if c == 0 || cursor+c > len(payloadDest) {
					giveup = true
					nextIndex++
					cond.Broadcast()
					mu.Unlock()
					continue
				}
				pos := cursor
				h.BStarts[i] = int32(pos)
				cursor += c
				nextIndex++
				cond.Broadcast()
				mu.Unlock()

				copy(payloadDest[pos:pos+c], staging[:c])
			}
		}()
	}
	wg.Wait()

	if giveup {
		return schedulerResult{giveup: true, err: giveupErr}
	}
	return schedulerResult{n: cursor}
}

// parallelDecompress is unordered: each block's location is already
// pinned by bstarts, so workers need no synchronization beyond a sticky
// giveup flag and a final accumulation of total bytes decoded.
func parallelDecompress(ctx *compressContext, h *Header, payloadSrc, dest []byte, nblocks, nthreads int) schedulerResult {
	var mu sync.Mutex
	giveup := false
	var firstErr error
	total := 0

	indices := make(chan int)
	go func() {
		for i := 0; i < nblocks; i++ {
			indices <- i
		}
		close(indices)
	}()

	var wg sync.WaitGroup
	wg.Add(nthreads)
	for w := 0; w < nthreads; w++ {
		go func() {
			defer wg.Done()
			scratch := newWorkerScratch(ctx.blocksize, ctx.typesize)

			for i := range indices {
				mu.Lock()
				skip := giveup
				mu.Unlock()
				if skip {
					continue
				}

				off := ctx.blockOffset(i)
				L := ctx.blockLen(i, nblocks)
				out := dest[off : off+L]

				var n int
				var err error
				if h.IsMemcpy() {
					if off+L > len(payloadSrc) {
						err = ErrHeaderCorrupt
					} else {
						n = copy(out, payloadSrc[off:off+L])
					}
				} else {
					start, end := blockPayloadSpan(h, payloadSrc, i, nblocks)
					if start < 0 || end > len(payloadSrc) || start > end {
						err = ErrHeaderCorrupt
					} else {
						n, err = blockDecompress(ctx, payloadSrc[start:end], L, ctx.isLeftoverBlock(i, nblocks), out, scratch)
					}
				}

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					giveup = true
				} else {
					total += n
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return schedulerResult{err: firstErr}
	}
	return schedulerResult{n: total}
}
