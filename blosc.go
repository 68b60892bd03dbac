// Package blosc provides a pure Go implementation of a Blosc-style,
// blocked, shuffled, multi-threaded compression core for homogeneous typed
// buffers.
//
// Given a contiguous byte buffer logically composed of fixed-size elements
// (the "type size"), the core produces a self-describing compressed
// artifact and inversely reconstructs the original buffer, or arbitrary
// element-range slices of it, from that artifact. Three mechanisms do the
// work: a per-block byte-transpose ("shuffle") that groups together the
// k-th byte of every element to improve downstream entropy-coder ratios; a
// block/split pipeline that slices the input into cache-friendly blocks and
// drives an interchangeable compression backend per split; and a parallel
// block scheduler that compresses and decompresses blocks concurrently
// while preserving a deterministic, appendable on-wire layout.
//
// # Basic usage
//
//	compressed, err := blosc.Compress(data, blosc.LZ4, 5, blosc.Shuffle1, 4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	decompressed, err := blosc.Decompress(compressed)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Supported backends
//
//   - LZ4: very fast compression/decompression (default)
//   - LZ4HC: LZ4 high-compression variant, shares LZ4's decoder
//   - ZSTD: high compression ratio with good speed
//   - ZLIB: standard deflate compression
//   - Snappy: fast, low-ratio compression
//
// BloscLZ is enumerated for wire compatibility but is not implemented by
// this package; the underlying entropy codecs are treated as black-box
// collaborators (see the Backend type), not reimplemented here.
//
// # Thread safety
//
// All exported functions are safe for concurrent use. The non-ctx entry
// points (Compress, Decompress, SetNumThreads, SetCompressor, SetBlockSize)
// share a single package-level configuration guarded by a mutex held for
// the duration of one call; the *Ctx variants take every parameter
// explicitly and touch no shared state.
package blosc

import (
	"errors"
	"fmt"
)

// Version identifies this module's own release, independent of the wire
// FormatVersion.
const Version = "1.0.0"

// FormatVersion is the core framing version written into every artifact's
// first byte.
const FormatVersion = 2

// Wire format and policy constants fixed by the artifact layout.
const (
	// HeaderSize is the fixed 16-byte prefix preceding the per-block start
	// table.
	HeaderSize = 16

	// MinBufferSize is the smallest blocksize the planner will choose once
	// an override is requested, and the nbytes threshold below which an
	// artifact is always stored via memcpy.
	MinBufferSize = 128

	// MaxTypeSize is the largest typesize representable in the one-byte
	// typesize field. Values above this are coerced to 1 by callers.
	MaxTypeSize = 255

	// MaxSplits is the largest number of splits a block is partitioned
	// into; it coincides with the "typesize <= 16 triggers per-byte
	// splits" policy in the split-count rule.
	MaxSplits = 16

	// l1CacheSize is the blocksize planner's reference L1 data cache size.
	l1CacheSize = 32 * 1024

	// MaxBufferSize bounds nbytes so that nbytes, cbytes, and every
	// bstarts entry remain representable in the wire format's uint32/int32
	// fields with headroom for the header and start table.
	MaxBufferSize = (1<<31 - 1) - HeaderSize
)

// Codec identifies a compression backend, both as the public selector
// passed to Compress/CompressCtx and as the key into the backend registry.
type Codec int8

// Built-in backend identifiers. BloscLZ is reserved for wire compatibility
// with the classic Blosc backend list but has no implementation here.
const (
	BloscLZ Codec = iota
	LZ4
	LZ4HC
	Snappy
	ZLIB
	ZSTD
)

// String returns the codec's canonical lowercase name.
func (c Codec) String() string {
	switch c {
	case BloscLZ:
		return "blosclz"
	case LZ4:
		return "lz4"
	case LZ4HC:
		return "lz4hc"
	case Snappy:
		return "snappy"
	case ZLIB:
		return "zlib"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", int8(c))
	}
}

// Shuffle selects the byte-transpose mode applied before compression.
type Shuffle uint8

const (
	NoShuffle Shuffle = 0x0
	Shuffle1  Shuffle = 0x1
)

// String returns the shuffle mode's name.
func (s Shuffle) String() string {
	switch s {
	case NoShuffle:
		return "noshuffle"
	case Shuffle1:
		return "shuffle"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Flag bits stored in the header's flags byte.
const (
	flagShuffle = 0x1 // bit 0: byte shuffle applied
	flagMemcpy  = 0x2 // bit 1: payload is the raw buffer, no codec invoked
	// bits 2..4 reserved, always zero
	flagBackendShift = 5 // bits 5..7: backend on-wire code (0..7)
	flagBackendMask  = 0x7
)

// Sentinel errors. Use errors.Is to check for these programmatically.
var (
	// ErrBadArgument indicates an out-of-range level, shuffle flag, or
	// getitem range.
	ErrBadArgument = errors.New("blosc: bad argument")

	// ErrUnsupportedBackend indicates the requested backend is not
	// registered or not available in this build.
	ErrUnsupportedBackend = errors.New("blosc: unsupported backend")

	// ErrBufferTooSmall indicates the destination cannot hold the
	// required output.
	ErrBufferTooSmall = errors.New("blosc: destination buffer too small")

	// ErrBackendError indicates a backend returned a hard error or
	// produced an unexpected number of decoded bytes.
	ErrBackendError = errors.New("blosc: backend codec error")

	// ErrHeaderCorrupt indicates the artifact's header is malformed or
	// declares sizes inconsistent with the supplied buffers.
	ErrHeaderCorrupt = errors.New("blosc: corrupt header")

	// ErrInvalidVersion indicates an artifact with an unsupported framing
	// version.
	ErrInvalidVersion = errors.New("blosc: unsupported format version")

	// ErrDataTooLarge indicates the input exceeds MaxBufferSize.
	ErrDataTooLarge = errors.New("blosc: data too large")
)
