package blosc

// Header is a typed view over the 16-byte artifact prefix and its
// per-block start table. Its fields are decoded copies, so it holds no
// pointer into the caller's source or destination slice (spec §9,
// "pointer-to-header inside the context").
type Header struct {
	Version               uint8
	BackendFormatVersion  uint8
	Flags                 uint8
	TypeSize              uint8
	NBytes                uint32
	BlockSize             uint32
	CBytes                uint32
	BStarts               []int32
}

// HasShuffle reports whether the shuffle flag is set.
func (h *Header) HasShuffle() bool { return h.Flags&flagShuffle != 0 }

// IsMemcpy reports whether the payload is the raw, uncompressed buffer.
func (h *Header) IsMemcpy() bool { return h.Flags&flagMemcpy != 0 }

// BackendWireCode returns the on-wire backend code packed into bits 5..7.
func (h *Header) BackendWireCode() uint8 {
	return (h.Flags >> flagBackendShift) & flagBackendMask
}

// NumBlocks returns B = ceil(nbytes / blocksize), or 0 for an empty
// buffer.
func (h *Header) NumBlocks() int {
	return numBlocks(int(h.NBytes), int(h.BlockSize))
}

// Leftover returns nbytes mod blocksize (0 means the last block is full).
func (h *Header) Leftover() int {
	return leftoverBytes(int(h.NBytes), int(h.BlockSize))
}

func numBlocks(nbytes, blocksize int) int {
	if nbytes == 0 {
		return 0
	}
	return (nbytes + blocksize - 1) / blocksize
}

func leftoverBytes(nbytes, blocksize int) int {
	if blocksize == 0 {
		return 0
	}
	return nbytes % blocksize
}

func makeFlags(shuffleOn, memcpyOn bool, wireCode uint8) uint8 {
	var f uint8
	if shuffleOn {
		f |= flagShuffle
	}
	if memcpyOn {
		f |= flagMemcpy
	}
	f |= (wireCode & flagBackendMask) << flagBackendShift
	return f
}

// headerOverhead returns the fixed prefix plus the per-block start table
// size for nblocks blocks (spec's BLOSC_MAX_OVERHEAD).
func headerOverhead(nblocks int) int {
	return HeaderSize + 4*nblocks
}

// writeHeader emits the fixed 16-byte prefix into dest and zeroes the
// reserved bstarts region; cbytes is written as a placeholder (0) and
// must be patched via patchCBytes once the scheduler knows the final
// artifact length.
func writeHeader(dest []byte, h *Header) {
	dest[0] = h.Version
	dest[1] = h.BackendFormatVersion
	dest[2] = h.Flags
	dest[3] = h.TypeSize
	storeUint32LE(dest[4:8], h.NBytes)
	storeUint32LE(dest[8:12], h.BlockSize)
	storeUint32LE(dest[12:16], 0)

	bstartsRegion := dest[HeaderSize : HeaderSize+4*len(h.BStarts)]
	for i := range bstartsRegion {
		bstartsRegion[i] = 0
	}
}

// patchCBytes writes the final artifact length into the header after the
// scheduler has assembled every block.
func patchCBytes(dest []byte, cbytes uint32) {
	storeUint32LE(dest[12:16], cbytes)
}

// writeBStartsTable serializes h.BStarts into dest's reserved start-table
// region. Called once, after the scheduler has filled in every entry.
func writeBStartsTable(dest []byte, h *Header) {
	for i, pos := range h.BStarts {
		off := HeaderSize + 4*i
		storeInt32LE(dest[off:off+4], pos)
	}
}

// readHeader parses the fixed prefix and start table from src. destCap is
// the caller-provided output capacity for the eventual decompression;
// readHeader rejects any artifact whose declared nbytes exceeds it (spec
// §4.6, "readers MUST reject artifacts whose declared nbytes exceeds the
// caller-provided output capacity").
func readHeader(src []byte, destCap int) (*Header, error) {
	if len(src) < HeaderSize {
		return nil, ErrHeaderCorrupt
	}

	h := &Header{
		Version:              src[0],
		BackendFormatVersion: src[1],
		Flags:                src[2],
		TypeSize:             src[3],
		NBytes:               loadUint32LE(src[4:8]),
		BlockSize:            loadUint32LE(src[8:12]),
		CBytes:               loadUint32LE(src[12:16]),
	}

	if h.Version != FormatVersion {
		return nil, ErrInvalidVersion
	}
	if h.BlockSize == 0 && h.NBytes > 0 {
		return nil, ErrHeaderCorrupt
	}
	if destCap >= 0 && int(h.NBytes) > destCap {
		return nil, ErrHeaderCorrupt
	}

	nblocks := h.NumBlocks()
	end := HeaderSize + 4*nblocks
	if end < HeaderSize || len(src) < end {
		return nil, ErrHeaderCorrupt
	}
	if int(h.CBytes) > len(src) || int(h.CBytes) < end {
		return nil, ErrHeaderCorrupt
	}

	bstarts := make([]int32, nblocks)
	for i := 0; i < nblocks; i++ {
		off := HeaderSize + 4*i
		bstarts[i] = loadInt32LE(src[off : off+4])
	}
	h.BStarts = bstarts

	return h, nil
}
