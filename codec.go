package blosc

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/snappy"
	kzlib "github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Built-in backend registration. Each entry implements the Backend
// contract from registry.go; the concrete entropy codecs themselves are
// treated as black boxes supplied by the imported libraries, not
// reimplemented here (spec §1).
func init() {
	RegisterBackend(&Backend{
		Code: BloscLZ, WireCode: 0, Name: "blosclz", FormatVersion: 1,
		Available: false, // internal Blosc codec, not implemented by this module
	})
	RegisterBackend(&Backend{
		Code: LZ4, WireCode: 1, Name: "lz4", FormatVersion: 1,
		Available:  true,
		Compress:   lz4Compress,
		Decompress: lz4Decompress,
	})
	RegisterBackend(&Backend{
		Code: LZ4HC, WireCode: 1, Name: "lz4hc", FormatVersion: 1,
		Available:  true,
		Compress:   lz4hcCompress,
		Decompress: lz4Decompress, // shares LZ4's decoder
		LevelScale: lz4hcLevelScale,
	})
	RegisterBackend(&Backend{
		Code: Snappy, WireCode: 3, Name: "snappy", FormatVersion: 1,
		Available:     true,
		Compress:      snappyCompress,
		Decompress:    snappyDecompress,
		WorstCaseSize: snappy.MaxEncodedLen,
	})
	RegisterBackend(&Backend{
		Code: ZLIB, WireCode: 4, Name: "zlib", FormatVersion: 1,
		Available:  true,
		Compress:   zlibCompress,
		Decompress: zlibDecompress,
	})
	RegisterBackend(&Backend{
		Code: ZSTD, WireCode: 5, Name: "zstd", FormatVersion: 1,
		Available:  true,
		Compress:   zstdCompress,
		Decompress: zstdDecompress,
	})
}

// =============================================================================
// LZ4
// =============================================================================

func lz4Compress(level int, in, out []byte) (int, error) {
	n, err := lz4.CompressBlock(in, out, nil)
	if err != nil {
		return 0, err
	}
	// CompressBlock returns 0 when the compressed form would not fit in
	// out, or when the input is incompressible; both map onto the
	// contract's "0 means failed or would overflow out_cap".
	return n, nil
}

func lz4Decompress(in, out []byte) (int, error) {
	n, err := lz4.UncompressBlock(in, out)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// =============================================================================
// LZ4HC
// =============================================================================

// lz4hcLevelScale maps the core's 0..9 level onto LZ4HC's native 1..16
// range via 2k-1, per spec §6's worked example for this backend.
func lz4hcLevelScale(level int) int {
	scaled := 2*level - 1
	if scaled < 1 {
		scaled = 1
	}
	if scaled > 16 {
		scaled = 16
	}
	return scaled
}

func lz4hcCompressionLevel(scaled int) lz4.CompressionLevel {
	switch {
	case scaled <= 3:
		return lz4.Level1
	case scaled <= 7:
		return lz4.Level5
	case scaled <= 11:
		return lz4.Level7
	default:
		return lz4.Level9
	}
}

// lz4hcCompress receives a level already mapped through lz4hcLevelScale
// (see Backend.LevelScale).
func lz4hcCompress(level int, in, out []byte) (int, error) {
	hcLevel := lz4hcCompressionLevel(level)
	ht := make([]int, 1<<16)
	n, err := lz4.CompressBlockHC(in, out, hcLevel, ht, nil)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// =============================================================================
// ZLIB (klauspost/compress, pure Go)
// =============================================================================

func zlibCompress(level int, in, out []byte) (int, error) {
	var buf bytes.Buffer
	w, err := kzlib.NewWriterLevel(&buf, clampZlibLevel(level))
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(in); err != nil {
		w.Close()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	if buf.Len() > len(out) {
		return 0, nil
	}
	return copy(out, buf.Bytes()), nil
}

func clampZlibLevel(level int) int {
	if level < kzlib.NoCompression {
		return kzlib.NoCompression
	}
	if level > kzlib.BestCompression {
		return kzlib.BestCompression
	}
	return level
}

func zlibDecompress(in, out []byte) (int, error) {
	r, err := kzlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return 0, err
	}
	defer r.Close()
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, err
	}
	return n, nil
}

// =============================================================================
// ZSTD (klauspost/compress, pure Go)
// =============================================================================

// zstdEncoders holds one persistent encoder per speed tier; EncodeAll is
// concurrency-safe so these are shared across every caller and goroutine.
var zstdEncoders = func() [4]*zstd.Encoder {
	var encoders [4]*zstd.Encoder
	levels := []zstd.EncoderLevel{
		zstd.SpeedFastest,
		zstd.SpeedDefault,
		zstd.SpeedBetterCompression,
		zstd.SpeedBestCompression,
	}
	for i, lvl := range levels {
		e, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(lvl))
		encoders[i] = e
	}
	return encoders
}()

// zstdDecoder is a single persistent decoder; DecodeAll is
// concurrency-safe.
var zstdDecoder = func() *zstd.Decoder {
	d, _ := zstd.NewReader(nil)
	return d
}()

func zstdEncoderIndex(level int) int {
	switch {
	case level <= 2:
		return 0
	case level <= 4:
		return 1
	case level <= 6:
		return 2
	default:
		return 3
	}
}

func zstdCompress(level int, in, out []byte) (int, error) {
	compressed := zstdEncoders[zstdEncoderIndex(level)].EncodeAll(in, nil)
	if len(compressed) > len(out) {
		return 0, nil
	}
	return copy(out, compressed), nil
}

func zstdDecompress(in, out []byte) (int, error) {
	decoded, err := zstdDecoder.DecodeAll(in, make([]byte, 0, len(out)))
	if err != nil {
		return 0, err
	}
	if len(decoded) > len(out) {
		return 0, ErrBackendError
	}
	return copy(out, decoded), nil
}

// =============================================================================
// Snappy (klauspost/compress, pure Go)
// =============================================================================

func snappyCompress(level int, in, out []byte) (int, error) {
	res := snappy.Encode(out, in)
	if len(res) > len(out) {
		return 0, nil
	}
	if len(res) > 0 && &res[0] != &out[0] {
		copy(out[:len(res)], res)
	}
	return len(res), nil
}

func snappyDecompress(in, out []byte) (int, error) {
	res, err := snappy.Decode(out, in)
	if err != nil {
		return 0, err
	}
	if len(res) != len(out) {
		return 0, ErrBackendError
	}
	if len(res) > 0 && &res[0] != &out[0] {
		copy(out, res)
	}
	return len(res), nil
}
