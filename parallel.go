package riceimg

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mdejong-rice/riceimg/block"
	"github.com/mdejong-rice/riceimg/stream"
)

// DecodeImageParallel is the parallel form of DecodeImage: for
// each big block it fans out one goroutine per worker (32 per big block),
// each owning a disjoint half-block of the output and reading bits nobody
// else touches, then joins before moving to the next big block. The
// decode loop is infallible once the header validates, so errgroup here is
// purely a join primitive rather than an error-propagation mechanism.
func DecodeImageParallel(b *Blob) ([]byte, error) {
	bw, bh := blockGridDims(int(b.Header.Width), int(b.Header.Height), int(b.Header.B))
	blocks := newBlockGrid(bw, bh, int(b.Header.B))

	paddedBw, paddedBh := stream.PaddedBlockGrid(bw, bh)
	bigBlocksWide := paddedBw / stream.BigSize
	bigBlocksHigh := paddedBh / stream.BigSize

	kHalf := stream.KHalfTable(b.KTable)

	for bbRow := 0; bbRow < bigBlocksHigh; bbRow++ {
		for bbCol := 0; bbCol < bigBlocksWide; bbCol++ {
			bb := bbRow*bigBlocksWide + bbCol
			if err := decodeBigBlockParallel(b, kHalf, blocks, bw, bh, bb, bbRow, bbCol); err != nil {
				return nil, err
			}
		}
	}

	g, _ := errgroup.WithContext(context.Background())
	for _, blk := range blocks {
		blk := blk
		g.Go(func() error {
			block.Unpredict(blk, int(b.Header.B))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return block.FlattenAndCrop(blocks, int(b.Header.B), bw, bh, int(b.Header.Width), int(b.Header.Height)), nil
}

func decodeBigBlockParallel(b *Blob, kHalf []uint8, blocks [][]byte, bw, bh, bb, bbRow, bbCol int) error {
	g, _ := errgroup.WithContext(context.Background())

	for worker := 0; worker < stream.NumWorkers; worker++ {
		worker := worker
		blockCol, blockRow, topHalf := stream.WorkerOrigin(worker)
		realRow := bbRow*stream.BigSize + blockRow
		realCol := bbCol*stream.BigSize + blockCol
		if realRow >= bh || realCol >= bw {
			continue // padding half-block beyond the real image's block grid
		}
		globalBlock := realRow*bw + realCol
		k := kHalf[2*globalBlock]
		dst := blocks[globalBlock]

		g.Go(func() error {
			half, err := decodeHalfBlock(b, bb, worker, k)
			if err != nil {
				return err
			}
			writeHalfBlock(dst, int(b.Header.B), half, topHalf)
			return nil
		})
	}

	return g.Wait()
}
