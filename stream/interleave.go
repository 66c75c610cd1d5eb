// Package stream implements the 32-way stream interleaver: it
// reorders a block grid's half-blocks into 32 independent bit streams, one
// per parallel-decode worker, along with the per-stream bit offset table
// and the "k half-table" each worker uses to look up its own Rice
// parameter.
package stream

import "github.com/mdejong-rice/riceimg/rice"

// BigSize is the number of blocks on each side of a big block: a 4x4
// arrangement of blocks is the scheduling unit shared by all 32 workers.
const BigSize = 4

// NumWorkers is the number of parallel decode workers per big block: two
// threads cooperate per block (top half, bottom half) across BigSize*BigSize
// blocks.
const NumWorkers = 2 * BigSize * BigSize

// PaddedBlockGrid returns the block-grid dimensions the parallel decoder
// needs: bw and bh rounded up to the nearest multiple of BigSize, so every
// big block is fully populated. Extra blocks introduced by this rounding
// are zero-filled padding blocks, distinct from (and in addition to) the
// zero padding Split already applies at the pixel level.
func PaddedBlockGrid(bw, bh int) (paddedBw, paddedBh int) {
	return roundUp(bw, BigSize), roundUp(bh, BigSize)
}

func roundUp(n, m int) int {
	return ((n + m - 1) / m) * m
}

// HalfBlockBytes splits a B*B block into its top and bottom halves (the
// first and second B/2 rows), each B*B/2 bytes, matching the half-block
// unit a single parallel-decode worker owns.
func HalfBlockBytes(blk []byte, b int) (top, bottom []byte) {
	half := (b / 2) * b
	return blk[:half], blk[half:]
}

// KHalfTable doubles a per-block k table into the 2*Nblocks+1 layout where
// entries 2j and 2j+1 both hold kTable[j], the same k serving both of
// block j's half-blocks. kTable must already carry its own trailing
// sentinel, which is preserved as the table's final entry.
func KHalfTable(kTable []uint8) []uint8 {
	nblocks := len(kTable) - 1
	out := make([]uint8, 2*nblocks+1)
	for j := 0; j < nblocks; j++ {
		out[2*j] = kTable[j]
		out[2*j+1] = kTable[j]
	}
	out[2*nblocks] = 0
	return out
}

// HalfBlock is one (block, half) instance appended to a worker's stream:
// its raw predicted+zigzagged bytes, carried alongside the k of the real
// image block it came from (0 and unused for padding half-blocks beyond
// the image's real block grid).
type HalfBlock struct {
	Bytes []byte
	K     uint8
}

// blockAt returns the block and its k at (blockRow,blockCol) in a bw0-wide
// grid, substituting an all-zero block and k=0 when the position falls
// outside the real (unpadded) bw0 x bh0 block grid.
func blockAt(blocks [][]byte, kTable []uint8, bw0, bh0, blockRow, blockCol, blockLen int) ([]byte, uint8) {
	if blockRow >= bh0 || blockCol >= bw0 {
		return make([]byte, blockLen), 0
	}
	j := blockRow*bw0 + blockCol
	return blocks[j], kTable[j]
}

// BuildHalfBlockStreams reorders blocks (a bw0 x bh0 row-major block grid,
// B*B bytes each, one k per block from kTable) into NumWorkers independent
// half-block sequences, following the big-block traversal order:
// for each big block in row-major order, and each of its 16 blocks in
// row-major order, the block's top half is appended to stream 2*j and its
// bottom half to stream 2*j+1, where j is the block's row-major position
// within the big block.
//
// bw0 and bh0 need not be multiples of BigSize; missing blocks at the
// padded edge are treated as all-zero, k=0.
func BuildHalfBlockStreams(blocks [][]byte, kTable []uint8, bw0, bh0, b int) [NumWorkers][]HalfBlock {
	paddedBw, paddedBh := PaddedBlockGrid(bw0, bh0)
	bigBlocksWide := paddedBw / BigSize
	bigBlocksHigh := paddedBh / BigSize
	blockLen := b * b

	var streams [NumWorkers][]HalfBlock

	for bbRow := 0; bbRow < bigBlocksHigh; bbRow++ {
		for bbCol := 0; bbCol < bigBlocksWide; bbCol++ {
			for jr := 0; jr < BigSize; jr++ {
				for jc := 0; jc < BigSize; jc++ {
					j := jr*BigSize + jc
					blockRow := bbRow*BigSize + jr
					blockCol := bbCol*BigSize + jc
					blk, k := blockAt(blocks, kTable, bw0, bh0, blockRow, blockCol, blockLen)

					top, bottom := HalfBlockBytes(blk, b)
					streams[2*j] = append(streams[2*j], HalfBlock{Bytes: top, K: k})
					streams[2*j+1] = append(streams[2*j+1], HalfBlock{Bytes: bottom, K: k})
				}
			}
		}
	}
	return streams
}

// EncodeWorkerStream Rice-codes one worker's half-blocks (already gathered
// by BuildHalfBlockStreams) in big-block order, calling write once per
// half-block with its bytes and k. It returns the bit offset of every
// half-block in the stream (one entry per big block), which feeds the
// outer offsets table.
func EncodeWorkerStream(halfBlocks []HalfBlock, write func(symbols []byte, k uint8) error) ([]uint32, error) {
	offsets := make([]uint32, len(halfBlocks))
	var bitPos uint32
	for bb, half := range halfBlocks {
		offsets[bb] = bitPos
		cost := rice.EstimateBits(half.Bytes, half.K)
		if err := write(half.Bytes, half.K); err != nil {
			return nil, err
		}
		bitPos += uint32(cost)
	}
	return offsets, nil
}
