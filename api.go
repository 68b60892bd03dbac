package blosc

// Options configures a context-explicit compression call. It mirrors the
// level/shuffle/typesize/backend/blocksize/nthreads parameters of
// CompressCtx; none of its fields are read from or written to the
// package's ambient configuration (spec §6, "*_ctx: do not touch
// process-wide state").
type Options struct {
	Backend    Codec
	Level      int
	Shuffle    Shuffle
	TypeSize   int
	BlockSize  int // 0 lets the planner choose
	NumThreads int // <= 0 means serial (1 thread)
}

// DefaultOptions returns a reasonable starting point: LZ4 at level 5 with
// byte shuffle over 4-byte elements, serial execution.
func DefaultOptions() Options {
	return Options{Backend: LZ4, Level: 5, Shuffle: Shuffle1, TypeSize: 4, NumThreads: 1}
}

// maxArtifactSize upper-bounds the artifact length for nbytes bytes split
// into blocks of blocksize, so callers never under-allocate even when
// every split of every block is stored raw. Each block has at most
// MaxSplits splits, each carrying a 4-byte length prefix.
func maxArtifactSize(nbytes, blocksize int) int {
	nblocks := numBlocks(nbytes, blocksize)
	return headerOverhead(nblocks) + nbytes + nblocks*MaxSplits*4
}

func validateCompressArgs(level int, shuffle Shuffle, typesize int) (int, error) {
	if level < 0 || level > 9 {
		return 0, ErrBadArgument
	}
	if shuffle != NoShuffle && shuffle != Shuffle1 {
		return 0, ErrBadArgument
	}
	if typesize <= 0 {
		return 0, ErrBadArgument
	}
	if typesize > MaxTypeSize {
		typesize = 1
	}
	return typesize, nil
}

// CompressInto compresses src with explicit parameters and no ambient
// state, writing into dest. It returns the number of bytes written, 0 if
// dest could not hold the result (BufferTooSmall), or an error for any
// other failure.
func CompressInto(src []byte, backend Codec, level int, shuffle Shuffle, typeSize int, blockSizeOverride, nthreads int, dest []byte) (int, error) {
	typeSize, err := validateCompressArgs(level, shuffle, typeSize)
	if err != nil {
		return 0, err
	}
	if len(src) > MaxBufferSize {
		return 0, ErrDataTooLarge
	}
	b, ok := backendByCode(backend)
	if !ok || !b.Available {
		return 0, ErrUnsupportedBackend
	}
	if nthreads < 1 {
		nthreads = 1
	}

	nbytes := len(src)
	blocksize := planBlockSize(backend, level, typeSize, nbytes, blockSizeOverride)
	nblocks := numBlocks(nbytes, blocksize)
	overhead := headerOverhead(nblocks)
	if len(dest) < overhead {
		return 0, nil
	}

	shuffleOn := shuffle == Shuffle1
	memcpyOn := level == 0 || nbytes < MinBufferSize

	h := &Header{
		Version:              FormatVersion,
		BackendFormatVersion: b.FormatVersion,
		Flags:                makeFlags(shuffleOn, memcpyOn, b.WireCode),
		TypeSize:             uint8(typeSize),
		NBytes:               uint32(nbytes),
		BlockSize:            uint32(blocksize),
		BStarts:              make([]int32, nblocks),
	}
	writeHeader(dest, h)
	payloadDest := dest[overhead:]

	ctx := &compressContext{backend: b, level: level, shuffle: shuffleOn, typesize: typeSize, blocksize: blocksize, nbytes: nbytes}

	result := runCompress(ctx, src, payloadDest, h, nthreads)
	if result.err != nil {
		return 0, result.err
	}
	if result.giveup {
		// Constructive recovery (spec §7): the buffer was judged
		// incompressible at this budget; retry as a memcpy pass if it
		// fits.
		if memcpyOn || overhead+nbytes > len(dest) {
			return 0, nil
		}
		h.Flags = makeFlags(shuffleOn, true, b.WireCode)
		for i := range h.BStarts {
			h.BStarts[i] = 0
		}
		writeHeader(dest, h)
		result = runCompress(ctx, src, payloadDest, h, nthreads)
		if result.err != nil {
			return 0, result.err
		}
		if result.giveup {
			return 0, nil
		}
	}

	writeBStartsTable(dest, h)
	cbytes := overhead + result.n
	patchCBytes(dest, uint32(cbytes))
	return cbytes, nil
}

// DecompressInto decompresses src into dest with no ambient state,
// dispatching across nthreads workers. It returns the number of bytes
// written, or a negative-signaling error.
func DecompressInto(src []byte, dest []byte, nthreads int) (int, error) {
	if nthreads < 1 {
		nthreads = 1
	}
	h, err := readHeader(src, len(dest))
	if err != nil {
		return 0, err
	}
	overhead := headerOverhead(h.NumBlocks())
	if int(h.CBytes) > len(src) || int(h.CBytes) < overhead {
		return 0, ErrHeaderCorrupt
	}
	payloadSrc := src[overhead:h.CBytes]

	var b *Backend
	if !h.IsMemcpy() {
		bb, ok := backendByWireCode(h.BackendWireCode())
		if !ok || !bb.Available {
			return 0, ErrUnsupportedBackend
		}
		b = bb
	}

	ctx := &compressContext{
		backend:   b,
		typesize:  int(h.TypeSize),
		blocksize: int(h.BlockSize),
		nbytes:    int(h.NBytes),
		shuffle:   h.HasShuffle(),
	}

	result := runDecompress(ctx, h, payloadSrc, dest[:h.NBytes], nthreads)
	if result.err != nil {
		return 0, result.err
	}
	return result.n, nil
}

// GetItemInto decodes the element range [start, start+nitems) of the
// buffer encoded in src into dest without decoding unrelated blocks, per
// spec §4.10. It is single-threaded by design: the parallelism that
// benefits whole-buffer decode would dwarf small-range latency.
func GetItemInto(src []byte, start, nitems int, dest []byte) (int, error) {
	h, err := readHeader(src, -1)
	if err != nil {
		return 0, err
	}
	typesize := int(h.TypeSize)
	if typesize <= 0 {
		typesize = 1
	}
	totalItems := int(h.NBytes) / typesize
	if start < 0 || nitems < 0 || start+nitems > totalItems {
		return 0, ErrBadArgument
	}

	overhead := headerOverhead(h.NumBlocks())
	if int(h.CBytes) > len(src) || int(h.CBytes) < overhead {
		return 0, ErrHeaderCorrupt
	}
	payloadSrc := src[overhead:h.CBytes]

	reqStart := start * typesize
	reqEnd := (start + nitems) * typesize
	if len(dest) < reqEnd-reqStart {
		return 0, ErrBufferTooSmall
	}

	var b *Backend
	if !h.IsMemcpy() {
		bb, ok := backendByWireCode(h.BackendWireCode())
		if !ok || !bb.Available {
			return 0, ErrUnsupportedBackend
		}
		b = bb
	}

	ctx := &compressContext{
		backend:   b,
		typesize:  typesize,
		blocksize: int(h.BlockSize),
		nbytes:    int(h.NBytes),
		shuffle:   h.HasShuffle(),
	}

	nblocks := h.NumBlocks()
	var scratch *workerScratch
	if !h.IsMemcpy() {
		scratch = newWorkerScratch(ctx.blocksize, ctx.typesize)
	}

	written := 0
	for i := 0; i < nblocks; i++ {
		blockStart := ctx.blockOffset(i)
		blockEnd := blockStart + ctx.blockLen(i, nblocks)
		lo := max(blockStart, reqStart)
		hi := min(blockEnd, reqEnd)
		if lo >= hi {
			continue
		}

		if h.IsMemcpy() {
			if blockEnd > len(payloadSrc) {
				return 0, ErrHeaderCorrupt
			}
			n := copy(dest[written:written+(hi-lo)], payloadSrc[lo:hi])
			written += n
			continue
		}

		pStart, pEnd := blockPayloadSpan(h, payloadSrc, i, nblocks)
		if pStart < 0 || pEnd > len(payloadSrc) || pStart > pEnd {
			return 0, ErrHeaderCorrupt
		}

		L := blockEnd - blockStart
		tmp2 := scratch.tmp2.bytes()[:L]
		if _, err := blockDecompress(ctx, payloadSrc[pStart:pEnd], L, ctx.isLeftoverBlock(i, nblocks), tmp2, scratch); err != nil {
			return 0, err
		}
		n := copy(dest[written:written+(hi-lo)], tmp2[lo-blockStart:hi-blockStart])
		written += n
	}

	return written, nil
}

// CompressCtx compresses data per opts, touching no ambient state. It
// allocates and returns the compressed artifact.
func CompressCtx(data []byte, opts Options) ([]byte, error) {
	typeSize, err := validateCompressArgs(opts.Level, opts.Shuffle, opts.TypeSize)
	if err != nil {
		return nil, err
	}
	nthreads := opts.NumThreads
	if nthreads < 1 {
		nthreads = 1
	}
	blocksize := planBlockSize(opts.Backend, opts.Level, typeSize, len(data), opts.BlockSize)
	// Room for the header, the start table and the raw input: a buffer
	// whose compressed form would not fit is stored via the memcpy pass.
	dest := make([]byte, headerOverhead(numBlocks(len(data), blocksize))+len(data))
	n, err := CompressInto(data, opts.Backend, opts.Level, opts.Shuffle, opts.TypeSize, opts.BlockSize, nthreads, dest)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrBufferTooSmall
	}
	return dest[:n], nil
}

// DecompressCtx decompresses data using nthreads workers, touching no
// ambient state. It allocates and returns the original buffer.
func DecompressCtx(data []byte, nthreads int) ([]byte, error) {
	h, err := readHeader(data, -1)
	if err != nil {
		return nil, err
	}
	dest := make([]byte, h.NBytes)
	n, err := DecompressInto(data, dest, nthreads)
	if err != nil {
		return nil, err
	}
	return dest[:n], nil
}

// Compress compresses data with an explicit backend but the package's
// ambient thread count and blocksize override, preserving the classic
// Blosc-style call shape. It locks the ambient configuration for the
// duration of the call (spec §5, "process-wide state").
func Compress(data []byte, codec Codec, level int, shuffle Shuffle, typeSize int) ([]byte, error) {
	globalConfig.mu.Lock()
	defer globalConfig.mu.Unlock()
	return CompressCtx(data, Options{
		Backend:    codec,
		Level:      level,
		Shuffle:    shuffle,
		TypeSize:   typeSize,
		BlockSize:  globalConfig.blocksize,
		NumThreads: globalConfig.nthreads,
	})
}

// Decompress decompresses data using the package's ambient thread count.
func Decompress(data []byte) ([]byte, error) {
	globalConfig.mu.Lock()
	defer globalConfig.mu.Unlock()
	return DecompressCtx(data, globalConfig.nthreads)
}

// GetItem decodes the element range [start, start+nitems) from a
// compressed artifact. It touches no ambient state; the artifact's own
// header fully determines how to decode it.
func GetItem(src []byte, start, nitems int) ([]byte, error) {
	h, err := readHeader(src, -1)
	if err != nil {
		return nil, err
	}
	typesize := int(h.TypeSize)
	if typesize <= 0 {
		typesize = 1
	}
	totalItems := int(h.NBytes) / typesize
	if start < 0 || nitems < 0 || nitems > totalItems-start {
		return nil, ErrBadArgument
	}
	dest := make([]byte, nitems*typesize)
	n, err := GetItemInto(src, start, nitems, dest)
	if err != nil {
		return nil, err
	}
	return dest[:n], nil
}

// CBufferSizes returns (nbytes, cbytes, blocksize) from a compressed
// artifact's header.
func CBufferSizes(src []byte) (nbytes, cbytes, blocksize int, err error) {
	h, err := readHeader(src, -1)
	if err != nil {
		return 0, 0, 0, err
	}
	return int(h.NBytes), int(h.CBytes), int(h.BlockSize), nil
}

// CBufferMetainfo returns (typesize, flags) from a compressed artifact's
// header.
func CBufferMetainfo(src []byte) (typesize int, flags uint8, err error) {
	h, err := readHeader(src, -1)
	if err != nil {
		return 0, 0, err
	}
	return int(h.TypeSize), h.Flags, nil
}

// CBufferVersions returns (format_version, backend_format_version) from a
// compressed artifact's header.
func CBufferVersions(src []byte) (formatVersion, backendFormatVersion uint8, err error) {
	h, err := readHeader(src, -1)
	if err != nil {
		return 0, 0, err
	}
	return h.Version, h.BackendFormatVersion, nil
}

// CBufferComplib returns the name of the backend used to compress an
// artifact, or "none" if it was stored via memcpy.
func CBufferComplib(src []byte) (string, error) {
	h, err := readHeader(src, -1)
	if err != nil {
		return "", err
	}
	if h.IsMemcpy() {
		return "none", nil
	}
	b, ok := backendByWireCode(h.BackendWireCode())
	if !ok || !b.Available {
		return "", ErrUnsupportedBackend
	}
	return b.Name, nil
}
