package blosc

// compressContext carries the immutable parameters shared by blockCompress,
// blockDecompress, and the schedulers for the duration of a single
// compress/decompress call. It is read-only once constructed; the only
// mutable state during a call lives in the scheduler (spec §5, "the
// context object is read-only for immutable fields").
type compressContext struct {
	backend   *Backend
	level     int
	shuffle   bool
	typesize  int
	blocksize int
	nbytes    int
}

// blockLen returns the length of block i (blocksize, or leftover for the
// final short block).
func (c *compressContext) blockLen(i, nblocks int) int {
	leftover := leftoverBytes(c.nbytes, c.blocksize)
	if i == nblocks-1 && leftover > 0 {
		return leftover
	}
	return c.blocksize
}

// isLeftoverBlock reports whether block i is the short trailing block.
func (c *compressContext) isLeftoverBlock(i, nblocks int) bool {
	leftover := leftoverBytes(c.nbytes, c.blocksize)
	return i == nblocks-1 && leftover > 0
}

// blockOffset returns the logical byte offset of block i within the
// uncompressed buffer.
func (c *compressContext) blockOffset(i int) int {
	return i * c.blocksize
}
