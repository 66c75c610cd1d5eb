package riceimg

import (
	iobits "github.com/mdejong-rice/riceimg/internal/bits"
	"github.com/mdejong-rice/riceimg/rice"
	"github.com/mdejong-rice/riceimg/stream"
)

// DecodePrefixLengths is a debugging entry point
// (decode_prefix_bits): it decodes one worker's half-block at the given
// big block without reconstructing full symbols, returning only each
// symbol's unary prefix length (internal/bits EscapeUnaryLen for an escaped
// symbol). It exists to let a caller compare a stream's actual prefix
// lengths against the cost estimate SelectK used to pick k.
func DecodePrefixLengths(b *Blob, bigBlock, worker int) []int {
	halfLen := (int(b.Header.B) / 2) * int(b.Header.B)
	globalBlock, _, _ := workerGlobalBlock(b, bigBlock, worker)
	kHalf := stream.KHalfTable(b.KTable)
	k := kHalf[2*globalBlock]

	start := b.Offsets.BitStart(bigBlock, worker)
	r := iobits.NewReader32(b.Bits)
	r.Init(start)
	var reg uint32
	var regBits uint8
	return rice.DecodePrefixLengths(r, &reg, &regBits, k, halfLen)
}

// workerGlobalBlock resolves which real image block (in row-major block
// order) a (bigBlock,worker) pair decodes.
func workerGlobalBlock(b *Blob, bigBlock, worker int) (globalBlock int, topHalf bool, ok bool) {
	bw, bh := blockGridDims(int(b.Header.Width), int(b.Header.Height), int(b.Header.B))
	paddedBw, _ := stream.PaddedBlockGrid(bw, bh)
	bigBlocksWide := paddedBw / stream.BigSize
	bbRow := bigBlock / bigBlocksWide
	bbCol := bigBlock % bigBlocksWide

	blockCol, blockRow, top := stream.WorkerOrigin(worker)
	realRow := bbRow*stream.BigSize + blockRow
	realCol := bbCol*stream.BigSize + blockCol
	if realRow >= bh || realCol >= bw {
		return 0, top, false
	}
	return realRow*bw + realCol, top, true
}
