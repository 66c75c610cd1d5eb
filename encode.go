package riceimg

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"

	"github.com/mdejong-rice/riceimg/rice"
	"github.com/mdejong-rice/riceimg/stream"
)

// encodeWorkerBits Rice-codes one worker's gathered half-blocks end to end
// into its own byte-aligned buffer, returning the bytes and the bit offset
// of each half-block relative to the start of that buffer.
func encodeWorkerBits(halfBlocks []stream.HalfBlock) ([]byte, []uint32, error) {
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)

	offsets, err := stream.EncodeWorkerStream(halfBlocks, func(symbols []byte, k uint8) error {
		return rice.EncodeBlock(bw, nil, symbols, k, rice.LayoutSingle)
	})
	if err != nil {
		return nil, nil, err
	}
	if err := bw.Close(); err != nil {
		return nil, nil, errors.Wrap(err, "riceimg: close worker bit writer")
	}
	return buf.Bytes(), offsets, nil
}

// WriteTo serializes b to w in the container wire format: header,
// k table, offset table, then the length-prefixed bits buffer.
func (b *Blob) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}

	if err := b.Header.writeTo(cw); err != nil {
		return cw.n, err
	}
	if _, err := cw.Write(b.KTable); err != nil {
		return cw.n, errors.Wrap(err, "riceimg: write k table")
	}
	offBuf := make([]byte, 4*len(b.Offsets))
	for i, off := range b.Offsets {
		binary.LittleEndian.PutUint32(offBuf[i*4:], off)
	}
	if _, err := cw.Write(offBuf); err != nil {
		return cw.n, errors.Wrap(err, "riceimg: write offset table")
	}

	var numBytes [4]byte
	binary.LittleEndian.PutUint32(numBytes[:], uint32(len(b.Bits)))
	if _, err := cw.Write(numBytes[:]); err != nil {
		return cw.n, errors.Wrap(err, "riceimg: write bits length")
	}
	if _, err := cw.Write(b.Bits); err != nil {
		return cw.n, errors.Wrap(err, "riceimg: write bits")
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
