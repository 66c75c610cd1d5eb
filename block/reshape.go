// Package block implements the block reshaper and in-block
// predictor: splitting a W×H byte grid into zero-padded B×B tiles
// and back, and the row/column delta + zig-zag transform applied inside
// each tile before Rice coding.
package block

import "github.com/mdejong-rice/riceimg/internal/bits"

// Split splits a flat, row-major W×H byte image into Bw*Bh tiles of B*B
// bytes each, where Bw = ceil(W/B) and Bh = ceil(H/B). Positions beyond the
// image edge are zero-filled. Blocks are returned in row-major
// block-within-image order, and each block's own bytes are row-major
// within the block.
func Split(pixels []byte, width, height, b int) [][]byte {
	bw := ceilDiv(width, b)
	bh := ceilDiv(height, b)
	blocks := make([][]byte, bw*bh)
	for i := range blocks {
		blocks[i] = make([]byte, b*b)
	}

	for y := 0; y < height; y++ {
		blockRow := y / b
		rowInBlock := y % b
		for x := 0; x < width; x++ {
			blockCol := x / b
			colInBlock := x % b
			blocki := blockRow*bw + blockCol
			blocks[blocki][rowInBlock*b+colInBlock] = pixels[y*width+x]
		}
	}
	return blocks
}

// FlattenAndCrop is the inverse of Split: it reassembles bw*bh blocks of
// B*B bytes into a flat W×H image, dropping the zero padding Split added
// on the right and bottom edges.
func FlattenAndCrop(blocks [][]byte, b, bw, bh, width, height int) []byte {
	out := make([]byte, width*height)
	for y := 0; y < height; y++ {
		blockRow := y / b
		rowInBlock := y % b
		for x := 0; x < width; x++ {
			blockCol := x / b
			colInBlock := x % b
			blocki := blockRow*bw + blockCol
			out[y*width+x] = blocks[blocki][rowInBlock*b+colInBlock]
		}
	}
	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Predict applies the in-block predictor in place: column 0 is
// replaced by the zig-zag of its vertical delta (row 0's corner is kept as
// the raw anchor), then every other column is replaced by the zig-zag of
// its horizontal delta from the previous column in the same row. Both
// deltas are taken against the block's original raw values, so column 0's
// raw values are saved before being overwritten.
func Predict(blk []byte, b int) {
	origCol0 := make([]byte, b)
	for r := 0; r < b; r++ {
		origCol0[r] = blk[r*b]
	}

	for r := 0; r < b; r++ {
		rowStart := r * b
		prev := origCol0[r]
		for c := 1; c < b; c++ {
			cur := blk[rowStart+c]
			delta := int8(cur - prev)
			blk[rowStart+c] = bits.EncodeZigZag(delta)
			prev = cur
		}
	}

	for r := 1; r < b; r++ {
		delta := int8(origCol0[r] - origCol0[r-1])
		blk[r*b] = bits.EncodeZigZag(delta)
	}
	blk[0] = origCol0[0]
}

// Unpredict is the inverse of Predict: it recovers column 0 by cumulative
// sum from the raw anchor, then recovers every row by cumulative sum from
// its (already recovered) column-0 value.
func Unpredict(blk []byte, b int) {
	anchor := blk[0]

	col0 := make([]byte, b)
	col0[0] = anchor
	prev := anchor
	for r := 1; r < b; r++ {
		delta := bits.DecodeZigZag(blk[r*b])
		cur := byte(int8(prev) + delta)
		col0[r] = cur
		prev = cur
	}

	for r := 0; r < b; r++ {
		rowStart := r * b
		prevVal := col0[r]
		for c := 1; c < b; c++ {
			delta := bits.DecodeZigZag(blk[rowStart+c])
			cur := byte(int8(prevVal) + delta)
			blk[rowStart+c] = cur
			prevVal = cur
		}
		blk[rowStart] = col0[r]
	}
}
