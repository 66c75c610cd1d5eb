// Package riceimg implements a block-structured Rice (Golomb-Rice) codec
// for byte-valued image residuals (see the block, rice and stream
// sub-packages for the pre-processor, bit coder and 32-way stream
// interleaver respectively). This package ties those pieces together into
// the in-memory container format and the encode/decode entry points.
package riceimg

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/mdejong-rice/riceimg/block"
	"github.com/mdejong-rice/riceimg/rice"
	"github.com/mdejong-rice/riceimg/stream"
)

// flagSplit selects the split (prefix/suffix in separate streams) bitstream
// layout over the joint layout when set. Only the joint layout is
// implemented by the encoder; the flag bit is still defined so a decoder
// can reject a split-flagged blob it cannot read rather than silently
// misinterpreting it.
const flagSplit = 1 << 0

// Header is the fixed-size prefix of a container blob.
type Header struct {
	Width  uint32
	Height uint32
	B      uint8
	Flags  uint8
}

const headerSize = 4 + 4 + 1 + 1

func (h Header) writeTo(w io.Writer) error {
	var buf [headerSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], h.Width)
	binary.LittleEndian.PutUint32(buf[4:8], h.Height)
	buf[8] = h.B
	buf[9] = h.Flags
	_, err := w.Write(buf[:])
	return errors.Wrap(err, "riceimg: write header")
}

func readHeader(r io.Reader) (Header, error) {
	var buf [headerSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, newErr(TruncatedStream, "short header: %v", err)
	}
	h := Header{
		Width:  binary.LittleEndian.Uint32(buf[0:4]),
		Height: binary.LittleEndian.Uint32(buf[4:8]),
		B:      buf[8],
		Flags:  buf[9],
	}
	if h.B != 4 && h.B != 8 {
		return Header{}, newErr(InvalidParameter, "block size %d not in {4,8}", h.B)
	}
	if h.Width == 0 || h.Height == 0 {
		return Header{}, newErr(MalformedHeader, "zero-sized image %dx%d", h.Width, h.Height)
	}
	if h.Flags&flagSplit != 0 {
		return Header{}, newErr(InvalidParameter, "split bitstream layout is not supported by this decoder")
	}
	return h, nil
}

// Blob is a fully parsed container: header, per-block k table, per-stream
// bit offset table, and the concatenated, word-padded bits buffer every
// offset indexes into.
type Blob struct {
	Header  Header
	KTable  []uint8
	Offsets stream.OffsetTable
	Bits    []byte
}

// blockGridDims returns the real (unpadded) block grid dimensions for an
// image of the given size and block size.
func blockGridDims(width, height int, b int) (bw, bh int) {
	return ceilDiv(width, b), ceilDiv(height, b)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// tailPaddingBytes is how many zero bytes (two 64-bit cache words) are
// appended after the real bits of the container's bits section, so a
// Reader32 (64-bit cache word) can always refill two full words without
// reading out of bounds regardless of where the last worker's stream ends.
const tailPaddingBytes = 16

// EncodeImage Rice-codes a W*H byte image (row-major, one byte per pixel)
// into a container Blob. b is the block size, and must be 4 or 8.
func EncodeImage(pixels []byte, width, height int, b int) (*Blob, error) {
	if b != 4 && b != 8 {
		return nil, newErr(InvalidParameter, "block size %d not in {4,8}", b)
	}
	if width <= 0 || height <= 0 {
		return nil, newErr(InvalidParameter, "zero-sized image %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, newErr(InvalidParameter, "pixel buffer length %d != %d*%d", len(pixels), width, height)
	}

	bw, bh := blockGridDims(width, height, b)
	blocks := block.Split(pixels, width, height, b)
	assert(len(blocks) == bw*bh, "split produced %d blocks, want %d", len(blocks), bw*bh)

	kTable := make([]uint8, len(blocks)+1)
	for i, blk := range blocks {
		block.Predict(blk, b)
		k, _ := rice.SelectK(blk)
		kTable[i] = k
	}

	bitsBuf, offsets, err := encodeBits(blocks, kTable, bw, bh, b)
	if err != nil {
		return nil, err
	}

	return &Blob{
		Header: Header{
			Width:  uint32(width),
			Height: uint32(height),
			B:      uint8(b),
		},
		KTable:  kTable,
		Offsets: offsets,
		Bits:    bitsBuf,
	}, nil
}

// encodeBits interleaves every block's half into the 32 worker streams
// (stream.BuildHalfBlockStreams), Rice-codes each stream end to end and
// concatenates the results into one word-aligned buffer, returning that
// buffer and the absolute per-stream bit-start offsets.
func encodeBits(blocks [][]byte, kTable []uint8, bw, bh, b int) ([]byte, stream.OffsetTable, error) {
	halfStreams := stream.BuildHalfBlockStreams(blocks, kTable, bw, bh, b)

	var bitsBuf []byte
	var perWorkerOffsets [stream.NumWorkers][]uint32

	for w := 0; w < stream.NumWorkers; w++ {
		streamBytes, localOffsets, err := encodeWorkerBits(halfStreams[w])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "riceimg: encode worker %d", w)
		}
		base := uint32(len(bitsBuf)) * 8
		for i := range localOffsets {
			localOffsets[i] += base
		}
		bitsBuf = append(bitsBuf, streamBytes...)
		// Word-align the next worker's stream start (8 bytes, the Reader32
		// cache word size) so Init's word-index arithmetic for every
		// worker's own stream lines up with a real word boundary.
		for len(bitsBuf)%8 != 0 {
			bitsBuf = append(bitsBuf, 0)
		}
		perWorkerOffsets[w] = localOffsets
	}

	bitsBuf = append(bitsBuf, make([]byte, tailPaddingBytes)...)

	offsets := stream.BuildOffsetTable(perWorkerOffsets)
	return bitsBuf, offsets, nil
}
