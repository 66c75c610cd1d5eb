package riceimg

import (
	"encoding/binary"
	"io"

	"github.com/mdejong-rice/riceimg/block"
	iobits "github.com/mdejong-rice/riceimg/internal/bits"
	"github.com/mdejong-rice/riceimg/rice"
	"github.com/mdejong-rice/riceimg/stream"
)

// ReadBlob parses a container blob from r, validating the header and table
// sizes before returning ("every decode entry point validates header
// and table sizes before allocating outputs").
func ReadBlob(r io.Reader) (*Blob, error) {
	hdr, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	bw, bh := blockGridDims(int(hdr.Width), int(hdr.Height), int(hdr.B))
	nblocks := bw * bh

	kTable := make([]uint8, nblocks+1)
	if _, err := io.ReadFull(r, kTable); err != nil {
		return nil, newErr(TruncatedStream, "short k table: %v", err)
	}
	if kTable[nblocks] != 0 {
		return nil, newErr(MalformedHeader, "k table missing trailing sentinel")
	}
	for _, k := range kTable[:nblocks] {
		if k > rice.MaxK {
			return nil, newErr(InvalidParameter, "k=%d exceeds MaxK=%d", k, rice.MaxK)
		}
	}

	numBigBlocks := stream.NumBigBlocks(bw, bh)
	offBuf := make([]byte, 4*numBigBlocks*stream.NumWorkers)
	if _, err := io.ReadFull(r, offBuf); err != nil {
		return nil, newErr(TruncatedStream, "short offset table: %v", err)
	}
	offsets := make(stream.OffsetTable, numBigBlocks*stream.NumWorkers)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(offBuf[i*4:])
	}

	var numBytesBuf [4]byte
	if _, err := io.ReadFull(r, numBytesBuf[:]); err != nil {
		return nil, newErr(TruncatedStream, "short bits length: %v", err)
	}
	numBytes := binary.LittleEndian.Uint32(numBytesBuf[:])

	bits := make([]byte, int(numBytes)+tailPaddingBytes)
	if _, err := io.ReadFull(r, bits[:numBytes]); err != nil {
		return nil, newErr(TruncatedStream, "short bits section: %v", err)
	}

	return &Blob{Header: hdr, KTable: kTable, Offsets: offsets, Bits: bits}, nil
}

// DecodeImage reverses EncodeImage: it decodes b's bits section (using the
// sequential, single-worker-at-a-time form), reverses the predictor and
// reassembles the cropped W*H image.
func DecodeImage(b *Blob) ([]byte, error) {
	blocks, bw, bh, err := decodeBlocksSequential(b)
	if err != nil {
		return nil, err
	}
	for _, blk := range blocks {
		block.Unpredict(blk, int(b.Header.B))
	}
	return block.FlattenAndCrop(blocks, int(b.Header.B), bw, bh, int(b.Header.Width), int(b.Header.Height)), nil
}

// decodeBlocksSequential decodes the symbols of every
// block in the image: a single worker walks every (big block, worker slot)
// pair in order, decoding each half-block with its own cached-bit reader.
func decodeBlocksSequential(b *Blob) (blocks [][]byte, bw, bh int, err error) {
	bw, bh = blockGridDims(int(b.Header.Width), int(b.Header.Height), int(b.Header.B))
	blocks = newBlockGrid(bw, bh, int(b.Header.B))

	paddedBw, paddedBh := stream.PaddedBlockGrid(bw, bh)
	bigBlocksWide := paddedBw / stream.BigSize
	bigBlocksHigh := paddedBh / stream.BigSize

	kHalf := stream.KHalfTable(b.KTable)

	for bbRow := 0; bbRow < bigBlocksHigh; bbRow++ {
		for bbCol := 0; bbCol < bigBlocksWide; bbCol++ {
			bb := bbRow*bigBlocksWide + bbCol
			if err := decodeBigBlockSequential(b, kHalf, blocks, bw, bh, bb, bbRow, bbCol); err != nil {
				return nil, 0, 0, err
			}
		}
	}
	return blocks, bw, bh, nil
}

func decodeBigBlockSequential(b *Blob, kHalf []uint8, blocks [][]byte, bw, bh, bb, bbRow, bbCol int) error {
	for worker := 0; worker < stream.NumWorkers; worker++ {
		blockCol, blockRow, topHalf := stream.WorkerOrigin(worker)
		realRow := bbRow*stream.BigSize + blockRow
		realCol := bbCol*stream.BigSize + blockCol
		if realRow >= bh || realCol >= bw {
			continue // padding half-block beyond the real image's block grid
		}
		globalBlock := realRow*bw + realCol
		k := kHalf[2*globalBlock]

		half, err := decodeHalfBlock(b, bb, worker, k)
		if err != nil {
			return err
		}
		writeHalfBlock(blocks[globalBlock], int(b.Header.B), half, topHalf)
	}
	return nil
}

// decodeHalfBlock decodes the B*B/2 symbols belonging to (bigBlock,worker)
// using the canonical 32-bit-register cached-bit reader.
func decodeHalfBlock(b *Blob, bigBlock, worker int, k uint8) ([]byte, error) {
	halfLen := (int(b.Header.B) / 2) * int(b.Header.B)
	start := b.Offsets.BitStart(bigBlock, worker)

	r := iobits.NewReader32(b.Bits)
	r.Init(start)
	var reg uint32
	var regBits uint8

	out := make([]byte, halfLen)
	for i := range out {
		out[i] = rice.DecodeSymbol(r, &reg, &regBits, k)
	}
	return out, nil
}

func writeHalfBlock(blk []byte, b int, half []byte, top bool) {
	halfRows := b / 2
	off := 0
	if !top {
		off = halfRows * b
	}
	copy(blk[off:off+len(half)], half)
}

func newBlockGrid(bw, bh, b int) [][]byte {
	blocks := make([][]byte, bw*bh)
	for i := range blocks {
		blocks[i] = make([]byte, b*b)
	}
	return blocks
}
