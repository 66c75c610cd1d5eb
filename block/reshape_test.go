package block_test

import (
	"bytes"
	"testing"

	"github.com/mdejong-rice/riceimg/block"
)

func pattern(w, h int) []byte {
	out := make([]byte, w*h)
	for i := range out {
		out[i] = byte((i*53 + 7) & 0xFF)
	}
	return out
}

func TestSplitFlattenAndCropRoundTrip(t *testing.T) {
	cases := []struct{ w, h, b int }{
		{8, 8, 4}, {8, 8, 8}, {10, 6, 4}, {1, 1, 4}, {4, 4, 4}, {17, 13, 8}, {5, 9, 4},
	}
	for _, c := range cases {
		img := pattern(c.w, c.h)
		bw := (c.w + c.b - 1) / c.b
		bh := (c.h + c.b - 1) / c.b

		blocks := block.Split(img, c.w, c.h, c.b)
		if len(blocks) != bw*bh {
			t.Fatalf("w=%d h=%d b=%d: got %d blocks, want %d", c.w, c.h, c.b, len(blocks), bw*bh)
		}
		for _, blk := range blocks {
			if len(blk) != c.b*c.b {
				t.Fatalf("block length = %d, want %d", len(blk), c.b*c.b)
			}
		}

		got := block.FlattenAndCrop(blocks, c.b, bw, bh, c.w, c.h)
		if !bytes.Equal(got, img) {
			t.Fatalf("w=%d h=%d b=%d: flatten_and_crop(split(x)) != x", c.w, c.h, c.b)
		}
	}
}

func TestSplitZeroPadsPartialEdgeBlocks(t *testing.T) {
	// A 5x5 image with B=4 needs 2x2 blocks; the last column/row of blocks
	// is only half-covered by real pixels.
	img := pattern(5, 5)
	blocks := block.Split(img, 5, 5, 4)
	if len(blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(blocks))
	}
	// Block (0,1) (bottom-left) covers rows 4..7, cols 0..3: only row 4 is real.
	bottomLeft := blocks[2]
	for c := 0; c < 4; c++ {
		if bottomLeft[1*4+c] != 0 {
			t.Errorf("expected zero padding at row 1 of bottom-left block, col %d, got %d", c, bottomLeft[1*4+c])
		}
	}
}

func TestPredictUnpredictRoundTrip(t *testing.T) {
	for _, b := range []int{4, 8} {
		blk := pattern(b, b)
		original := append([]byte(nil), blk...)

		block.Predict(blk, b)
		block.Unpredict(blk, b)

		if !bytes.Equal(blk, original) {
			t.Fatalf("b=%d: Unpredict(Predict(x)) != x\ngot:  %v\nwant: %v", b, blk, original)
		}
	}
}

func TestPredictUnpredictRoundTripConstantBlock(t *testing.T) {
	const b = 8
	blk := make([]byte, b*b)
	for i := range blk {
		blk[i] = 42
	}
	original := append([]byte(nil), blk...)

	block.Predict(blk, b)
	// A constant block should predict to all-zero deltas except the anchor.
	for i := 1; i < len(blk); i++ {
		if blk[i] != 0 {
			t.Errorf("constant block: predicted byte %d = %d, want 0", i, blk[i])
		}
	}

	block.Unpredict(blk, b)
	if !bytes.Equal(blk, original) {
		t.Fatalf("Unpredict(Predict(constant)) != constant")
	}
}
